package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Manager provides centralized configuration management with validation and watching
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	watchers []func(*Config)

	// File watching
	configPath   string
	lastModTime  time.Time
	watchCancel  context.CancelFunc
	watchRunning bool
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		config:   DefaultConfig(),
		watchers: make([]func(*Config), 0),
	}
}

// LoadFromFile loads configuration from a file with validation
func (m *Manager) LoadFromFile(configPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Expand ~ to home directory if present
	if strings.HasPrefix(configPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot expand home directory: %w", err)
		}
		configPath = filepath.Join(home, configPath[2:])
	}

	// Load configuration
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Validate configuration
	if err := m.validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Apply defaults for missing values
	m.applyDefaults(cfg)

	// Update state
	m.config = cfg
	m.configPath = configPath

	// Update last modified time for file watching
	if stat, err := os.Stat(configPath); err == nil {
		m.lastModTime = stat.ModTime()
	}

	// Notify watchers
	m.notifyWatchers(cfg)

	return nil
}

// LoadFromDefaults loads default configuration
func (m *Manager) LoadFromDefaults() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := DefaultConfig()
	m.applyDefaults(cfg)

	m.config = cfg
	m.configPath = ""
	m.lastModTime = time.Time{}

	m.notifyWatchers(cfg)
}

// GetConfig returns a copy of the current configuration
func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent external modifications
	return m.copyConfig(m.config)
}

// UpdateConfig updates the configuration with validation
func (m *Manager) UpdateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	// Validate the new configuration
	if err := m.validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Apply defaults
	m.applyDefaults(cfg)

	// Update config
	m.config = cfg

	// Notify watchers
	m.notifyWatchers(cfg)

	return nil
}

// SaveToFile saves the current configuration to a file
func (m *Manager) SaveToFile(filePath string) error {
	m.mu.RLock()
	cfg := m.copyConfig(m.config)
	m.mu.RUnlock()

	if err := cfg.SaveConfig(filePath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Watch starts watching the configuration file for changes
func (m *Manager) Watch(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.configPath == "" {
		return fmt.Errorf("no config file path set")
	}

	if m.watchRunning {
		return fmt.Errorf("already watching configuration file")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	m.watchCancel = cancel
	m.watchRunning = true

	go m.watchConfigFile(watchCtx)

	return nil
}

// StopWatching stops watching the configuration file
func (m *Manager) StopWatching() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchRunning = false
}

// AddWatcher adds a configuration change watcher
func (m *Manager) AddWatcher(watcher func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.watchers = append(m.watchers, watcher)
}

// GetDBPath returns the archive database path with proper expansion
func (m *Manager) GetDBPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config.DBPath != "" {
		return m.expandPath(m.config.DBPath)
	}
	return DefaultDBPath()
}

// GetThemesDir returns the themes directory with proper expansion
func (m *Manager) GetThemesDir() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config.Layout.CustomThemeDir != "" {
		return m.expandPath(m.config.Layout.CustomThemeDir)
	}
	return DefaultThemesDir()
}

// validateConfig validates the configuration
func (m *Manager) validateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if cfg.Gallery.PageSize < 0 {
		return fmt.Errorf("gallery page size cannot be negative")
	}

	if cfg.Gallery.FetchConcurrency < 0 {
		return fmt.Errorf("fetch concurrency cannot be negative")
	}

	if cfg.Stabilizer.MaxAttempts < 0 {
		return fmt.Errorf("stabilizer max attempts cannot be negative")
	}

	if cfg.Fetch.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Fetch.Timeout); err != nil {
			return fmt.Errorf("invalid fetch timeout: %w", err)
		}
	}

	if cfg.Fetch.MaxBytes < 0 {
		return fmt.Errorf("fetch max bytes cannot be negative")
	}

	return nil
}

// applyDefaults applies default values for missing configuration
func (m *Manager) applyDefaults(cfg *Config) {
	if cfg.Keys == (KeyBindings{}) {
		cfg.Keys = DefaultKeyBindings()
	}

	if cfg.Layout == (LayoutConfig{}) {
		cfg.Layout = DefaultLayoutConfig()
	}

	if cfg.Gallery.PageSize == 0 {
		cfg.Gallery.PageSize = DefaultGalleryConfig().PageSize
	}

	if cfg.Gallery.FetchConcurrency == 0 {
		cfg.Gallery.FetchConcurrency = DefaultGalleryConfig().FetchConcurrency
	}

	if cfg.Stabilizer == (StabilizerConfig{}) {
		cfg.Stabilizer = DefaultStabilizerConfig()
	}

	if cfg.Fetch.Timeout == "" {
		cfg.Fetch.Timeout = DefaultFetchConfig().Timeout
	}

	if cfg.Fetch.MaxBytes == 0 {
		cfg.Fetch.MaxBytes = DefaultFetchConfig().MaxBytes
	}

	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
}

// copyConfig creates a copy of the configuration
func (m *Manager) copyConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}

	copy := *cfg
	return &copy
}

// expandPath expands ~ to home directory
func (m *Manager) expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[2:])
}

// notifyWatchers notifies all configuration watchers
func (m *Manager) notifyWatchers(cfg *Config) {
	for _, watcher := range m.watchers {
		go watcher(m.copyConfig(cfg))
	}
}

// watchConfigFile watches the configuration file for changes
func (m *Manager) watchConfigFile(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.checkConfigFileChanges()
		}
	}
}

// checkConfigFileChanges checks if the configuration file has changed
func (m *Manager) checkConfigFileChanges() {
	m.mu.RLock()
	configPath := m.configPath
	lastModTime := m.lastModTime
	m.mu.RUnlock()

	if configPath == "" {
		return
	}

	stat, err := os.Stat(configPath)
	if err != nil {
		return
	}

	if stat.ModTime().After(lastModTime) {
		// File has been modified, reload it
		_ = m.LoadFromFile(configPath)
	}
}
