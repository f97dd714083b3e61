package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// GalleryConfig holds paging and media resolution settings
type GalleryConfig struct {
	// PageSize is the number of archive messages scanned per gallery page
	PageSize int `json:"page_size"`

	// FetchConcurrency bounds how many media downloads run at once
	FetchConcurrency int `json:"fetch_concurrency"`
}

// StabilizerConfig tunes the scroll hold applied while a page resolves
type StabilizerConfig struct {
	// SettleThreshold is how many quiet redraws confirm the anchor held
	SettleThreshold int `json:"settle_threshold"`

	// MaxAttempts caps redraw corrections per anchor; 0 means unbounded
	MaxAttempts int `json:"max_attempts"`
}

// FetchConfig holds media download settings
type FetchConfig struct {
	// Timeout is a Go duration string, e.g. "20s"
	Timeout string `json:"timeout"`

	// MaxBytes caps a single download; payloads are held in memory
	MaxBytes int64 `json:"max_bytes"`
}

// Config holds all configuration for the chat gallery application
type Config struct {
	// Path to the message archive database
	DBPath string `json:"db_path"`

	// Gallery behavior
	Gallery GalleryConfig `json:"gallery"`

	// Scroll stabilizer tuning
	Stabilizer StabilizerConfig `json:"stabilizer"`

	// Media download settings
	Fetch FetchConfig `json:"fetch"`

	// Layout configuration
	Layout LayoutConfig `json:"layout"`

	// Keyboard shortcuts
	Keys KeyBindings `json:"keys"`

	// Logging
	LogFile string `json:"log_file"`
}

// LayoutConfig defines layout-specific configuration
type LayoutConfig struct {
	// UI customization
	ShowBorders    bool   `json:"show_borders"`
	ShowTitles     bool   `json:"show_titles"`
	CurrentTheme   string `json:"current_theme"`    // Active theme name (e.g., "gallery-dark")
	CustomThemeDir string `json:"custom_theme_dir"` // Custom themes directory (empty = default)
}

// KeyBindings defines keyboard shortcuts for the TUI
type KeyBindings struct {
	// Gallery operations
	LoadMore    string `json:"load_more"`
	NextItem    string `json:"next_item"`
	PrevItem    string `json:"prev_item"`
	OpenDetail  string `json:"open_detail"`
	OpenFull    string `json:"open_full"`
	CloseDialog string `json:"close_dialog"`

	// Additional configurable shortcuts
	Conversations string `json:"conversations"` // Open conversation picker
	ThemePicker   string `json:"theme_picker"`  // Open theme picker
	Help          string `json:"help"`          // Toggle help
	Quit          string `json:"quit"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		DBPath:     DefaultDBPath(),
		Gallery:    DefaultGalleryConfig(),
		Stabilizer: DefaultStabilizerConfig(),
		Fetch:      DefaultFetchConfig(),
		Layout:     DefaultLayoutConfig(),
		Keys:       DefaultKeyBindings(),
		LogFile:    "",
	}
}

// DefaultGalleryConfig returns default gallery behavior
func DefaultGalleryConfig() GalleryConfig {
	return GalleryConfig{
		PageSize:         24,
		FetchConcurrency: 4,
	}
}

// DefaultStabilizerConfig returns default scroll stabilizer tuning
func DefaultStabilizerConfig() StabilizerConfig {
	return StabilizerConfig{
		SettleThreshold: 1,
		MaxAttempts:     120,
	}
}

// DefaultFetchConfig returns default media download settings
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		Timeout:  "20s",
		MaxBytes: 32 << 20,
	}
}

// DefaultKeyBindings returns default keyboard shortcuts
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		// Gallery operations
		LoadMore:    "N",
		NextItem:    "l",
		PrevItem:    "h",
		OpenDetail:  "enter",
		OpenFull:    "o",
		CloseDialog: "esc",

		// Additional configurable shortcuts
		Conversations: "c",
		ThemePicker:   "H",
		Help:          "?",
		Quit:          "q",
	}
}

// DefaultLayoutConfig returns default layout configuration
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		ShowBorders:    true,
		ShowTitles:     true,
		CurrentTheme:   "gallery-dark",
		CustomThemeDir: "",
	}
}

// LoadConfig loads configuration from file and command line flags
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	return cfg, nil
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chatgallery", "config.json")
}

// DefaultDBPath returns the default message archive database path
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chatgallery", "archive.db")
}

// DefaultLogDir returns the default log directory path
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chatgallery")
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetFetchTimeout returns the parsed media download timeout
func (c *Config) GetFetchTimeout() time.Duration {
	if c.Fetch.Timeout != "" {
		if d, err := time.ParseDuration(c.Fetch.Timeout); err == nil {
			return d
		}
	}
	return 20 * time.Second
}
