package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, 24, cfg.Gallery.PageSize)
	assert.Equal(t, 4, cfg.Gallery.FetchConcurrency)
	assert.Equal(t, 1, cfg.Stabilizer.SettleThreshold)
	assert.Equal(t, 120, cfg.Stabilizer.MaxAttempts)
	assert.Equal(t, "gallery-dark", cfg.Layout.CurrentTheme)
	assert.NotEmpty(t, cfg.Keys.LoadMore)
}

func TestDefaultGalleryConfig(t *testing.T) {
	cfg := DefaultGalleryConfig()

	assert.Equal(t, 24, cfg.PageSize)
	assert.Equal(t, 4, cfg.FetchConcurrency)
}

func TestDefaultStabilizerConfig(t *testing.T) {
	cfg := DefaultStabilizerConfig()

	assert.Equal(t, 1, cfg.SettleThreshold)
	assert.Equal(t, 120, cfg.MaxAttempts)
}

func TestDefaultFetchConfig(t *testing.T) {
	cfg := DefaultFetchConfig()

	assert.Equal(t, "20s", cfg.Timeout)
	assert.Equal(t, int64(32<<20), cfg.MaxBytes)
}

func TestDefaultKeyBindings(t *testing.T) {
	keys := DefaultKeyBindings()

	// Gallery operations
	assert.Equal(t, "N", keys.LoadMore)
	assert.Equal(t, "l", keys.NextItem)
	assert.Equal(t, "h", keys.PrevItem)
	assert.Equal(t, "enter", keys.OpenDetail)
	assert.Equal(t, "o", keys.OpenFull)
	assert.Equal(t, "esc", keys.CloseDialog)

	// Additional shortcuts
	assert.Equal(t, "c", keys.Conversations)
	assert.Equal(t, "H", keys.ThemePicker)
	assert.Equal(t, "?", keys.Help)
	assert.Equal(t, "q", keys.Quit)
}

func TestDefaultLayoutConfig(t *testing.T) {
	layout := DefaultLayoutConfig()

	assert.True(t, layout.ShowBorders)
	assert.True(t, layout.ShowTitles)
	assert.Equal(t, "gallery-dark", layout.CurrentTheme)
	assert.Empty(t, layout.CustomThemeDir)
}

func TestGetFetchTimeout(t *testing.T) {
	tests := []struct {
		name     string
		timeout  string
		expected time.Duration
	}{
		{"valid_seconds", "30s", 30 * time.Second},
		{"valid_minutes", "2m", 2 * time.Minute},
		{"valid_milliseconds", "500ms", 500 * time.Millisecond},
		{"invalid_format", "invalid", 20 * time.Second}, // fallback
		{"empty_string", "", 20 * time.Second},          // fallback
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Fetch: FetchConfig{Timeout: tt.timeout}}
			result := cfg.GetFetchTimeout()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	// Should not be empty (unless no home directory)
	if path != "" {
		assert.Contains(t, path, ".config")
		assert.Contains(t, path, "chatgallery")
		assert.Contains(t, path, "config.json")
	}
}

func TestDefaultDBPath(t *testing.T) {
	path := DefaultDBPath()

	if path != "" {
		assert.Contains(t, path, ".config")
		assert.Contains(t, path, "chatgallery")
		assert.Contains(t, path, "archive.db")
	}
}

func TestDefaultLogDir(t *testing.T) {
	path := DefaultLogDir()

	if path != "" {
		assert.Contains(t, path, ".config")
		assert.Contains(t, path, "chatgallery")
	}
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")

	assert.NoError(t, err)
	assert.NotNil(t, cfg)
	// Should return default config
	assert.Equal(t, DefaultConfig().Gallery.PageSize, cfg.Gallery.PageSize)
}

func TestLoadConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/config.json")

	assert.NoError(t, err) // Should not error for missing file
	assert.NotNil(t, cfg)
	// Should return default config
	assert.Equal(t, DefaultConfig().Gallery.PageSize, cfg.Gallery.PageSize)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.json")

	testConfig := &Config{
		DBPath: "/data/archive.db",
		Gallery: GalleryConfig{
			PageSize:         12,
			FetchConcurrency: 2,
		},
		Fetch: FetchConfig{
			Timeout: "5s",
		},
	}

	data, err := json.MarshalIndent(testConfig, "", "  ")
	assert.NoError(t, err)

	err = os.WriteFile(configFile, data, 0600)
	assert.NoError(t, err)

	// Load config
	cfg, err := LoadConfig(configFile)
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Should have loaded values
	assert.Equal(t, "/data/archive.db", cfg.DBPath)
	assert.Equal(t, 12, cfg.Gallery.PageSize)
	assert.Equal(t, 2, cfg.Gallery.FetchConcurrency)
	assert.Equal(t, "5s", cfg.Fetch.Timeout)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "invalid.json")

	err := os.WriteFile(configFile, []byte("invalid json content"), 0600)
	assert.NoError(t, err)

	cfg, err := LoadConfig(configFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "test-config.json")

	cfg := DefaultConfig()
	cfg.DBPath = "/data/saved.db"
	cfg.Gallery.PageSize = 48

	err := cfg.SaveConfig(configFile)
	assert.NoError(t, err)

	// Verify file was created
	assert.FileExists(t, configFile)

	// Verify content by loading it back
	loadedCfg, err := LoadConfig(configFile)
	assert.NoError(t, err)
	assert.Equal(t, "/data/saved.db", loadedCfg.DBPath)
	assert.Equal(t, 48, loadedCfg.Gallery.PageSize)
}

func TestSaveConfig_DirectoryCreation(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "nested", "deep", "config.json")

	cfg := DefaultConfig()
	err := cfg.SaveConfig(configFile)
	assert.NoError(t, err)

	// Verify nested directories were created
	assert.FileExists(t, configFile)
}

// Test edge cases
func TestConfig_EdgeCases(t *testing.T) {
	// Test empty struct initialization
	emptyConfig := &Config{}
	timeout := emptyConfig.GetFetchTimeout()
	assert.Equal(t, 20*time.Second, timeout) // Should use default fallback
}

// Test JSON marshaling/unmarshaling
func TestConfig_JSONSerialization(t *testing.T) {
	original := DefaultConfig()
	original.DBPath = "/data/archive.db"
	original.Keys.LoadMore = "m"

	// Marshal to JSON
	data, err := json.Marshal(original)
	assert.NoError(t, err)

	// Unmarshal back
	var loaded Config
	err = json.Unmarshal(data, &loaded)
	assert.NoError(t, err)

	// Compare key fields
	assert.Equal(t, original.DBPath, loaded.DBPath)
	assert.Equal(t, original.Keys.LoadMore, loaded.Keys.LoadMore)
	assert.Equal(t, original.Gallery.PageSize, loaded.Gallery.PageSize)
}

// Benchmark tests for performance critical operations
func BenchmarkDefaultConfig(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = DefaultConfig()
	}
}

func BenchmarkGetFetchTimeout_Valid(b *testing.B) {
	cfg := &Config{Fetch: FetchConfig{Timeout: "30s"}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cfg.GetFetchTimeout()
	}
}

func BenchmarkGetFetchTimeout_Invalid(b *testing.B) {
	cfg := &Config{Fetch: FetchConfig{Timeout: "invalid"}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cfg.GetFetchTimeout()
	}
}
