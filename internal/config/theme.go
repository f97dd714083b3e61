package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ThemeLoader handles loading and applying themes
type ThemeLoader struct {
	themesDir string
}

// NewThemeLoader creates a new theme loader
func NewThemeLoader(themesDir string) *ThemeLoader {
	return &ThemeLoader{
		themesDir: themesDir,
	}
}

// DefaultThemesDir returns the default themes directory path
func DefaultThemesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chatgallery", "themes")
}

// LoadThemeFromFile loads a theme from a YAML file
func (tl *ThemeLoader) LoadThemeFromFile(filename string) (*ColorsConfig, error) {
	// Try to load from themes directory first
	filepath := filepath.Join(tl.themesDir, filename)
	if !fileExists(filepath) {
		// Try absolute path
		filepath = filename
		if !fileExists(filepath) {
			return nil, fmt.Errorf("theme file not found: %s", filename)
		}
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var theme struct {
		ChatGallery *ColorsConfig `yaml:"chatGallery"`
	}

	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	if theme.ChatGallery == nil {
		return nil, fmt.Errorf("invalid theme file: missing chatGallery section")
	}

	return theme.ChatGallery, nil
}

// ListAvailableThemes returns a list of available theme files
func (tl *ThemeLoader) ListAvailableThemes() ([]string, error) {
	var themes []string

	entries, err := os.ReadDir(tl.themesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read themes directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".yaml" {
			themes = append(themes, entry.Name())
		}
	}

	return themes, nil
}

// SaveThemeToFile saves a theme configuration to a YAML file
func (tl *ThemeLoader) SaveThemeToFile(theme *ColorsConfig, filename string) error {
	// Ensure themes directory exists
	if err := os.MkdirAll(tl.themesDir, 0755); err != nil {
		return fmt.Errorf("failed to create themes directory: %w", err)
	}

	filepath := filepath.Join(tl.themesDir, filename)

	// Create theme structure
	themeData := struct {
		ChatGallery *ColorsConfig `yaml:"chatGallery"`
	}{
		ChatGallery: theme,
	}

	data, err := yaml.Marshal(themeData)
	if err != nil {
		return fmt.Errorf("failed to marshal theme: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write theme file: %w", err)
	}

	return nil
}

// ValidateTheme validates a theme configuration
func (tl *ThemeLoader) ValidateTheme(theme *ColorsConfig) error {
	if theme == nil {
		return fmt.Errorf("theme is nil")
	}

	requiredColors := []struct {
		name  string
		color Color
	}{
		{"Body.FgColor", theme.Body.FgColor},
		{"Body.BgColor", theme.Body.BgColor},
		{"Item.PendingColor", theme.Item.PendingColor},
		{"Item.LoadedColor", theme.Item.LoadedColor},
	}

	for _, req := range requiredColors {
		if req.color == "" {
			return fmt.Errorf("missing required color: %s", req.name)
		}
	}

	return nil
}

// CreateDefaultTheme creates a default theme if none exists
func (tl *ThemeLoader) CreateDefaultTheme() error {
	// Check if default theme already exists
	defaultThemePath := filepath.Join(tl.themesDir, "gallery-dark.yaml")
	if fileExists(defaultThemePath) {
		return nil // Theme already exists
	}

	// Create default theme
	defaultTheme := DefaultColors()
	return tl.SaveThemeToFile(defaultTheme, "gallery-dark.yaml")
}

// Helper function to check if file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
