package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeLoader_LoadThemeFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	loader := NewThemeLoader(tmpDir)

	themeYAML := `chatGallery:
  body:
    fgColor: "#f8f8f2"
    bgColor: "#282a36"
  item:
    pendingColor: "#6272a4"
    loadedColor: "#f8f8f2"
`
	err := os.WriteFile(filepath.Join(tmpDir, "test.yaml"), []byte(themeYAML), 0600)
	require.NoError(t, err)

	theme, err := loader.LoadThemeFromFile("test.yaml")
	require.NoError(t, err)
	assert.Equal(t, Color("#f8f8f2"), theme.Body.FgColor)
	assert.Equal(t, Color("#282a36"), theme.Body.BgColor)
	assert.Equal(t, Color("#6272a4"), theme.Item.PendingColor)
}

func TestThemeLoader_LoadThemeFromFile_NotFound(t *testing.T) {
	loader := NewThemeLoader(t.TempDir())

	_, err := loader.LoadThemeFromFile("missing.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "theme file not found")
}

func TestThemeLoader_LoadThemeFromFile_MissingSection(t *testing.T) {
	tmpDir := t.TempDir()
	loader := NewThemeLoader(tmpDir)

	err := os.WriteFile(filepath.Join(tmpDir, "bad.yaml"), []byte("other: {}\n"), 0600)
	require.NoError(t, err)

	_, err = loader.LoadThemeFromFile("bad.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing chatGallery section")
}

func TestThemeLoader_LoadThemeFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	loader := NewThemeLoader(tmpDir)

	err := os.WriteFile(filepath.Join(tmpDir, "broken.yaml"), []byte("chatGallery: [not a map"), 0600)
	require.NoError(t, err)

	_, err = loader.LoadThemeFromFile("broken.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse theme file")
}

func TestThemeLoader_SaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	loader := NewThemeLoader(filepath.Join(tmpDir, "themes"))

	original := DefaultColors()
	err := loader.SaveThemeToFile(original, "roundtrip.yaml")
	require.NoError(t, err)

	loaded, err := loader.LoadThemeFromFile("roundtrip.yaml")
	require.NoError(t, err)
	assert.Equal(t, original.Body.FgColor, loaded.Body.FgColor)
	assert.Equal(t, original.Item.VideoColor, loaded.Item.VideoColor)
	assert.Equal(t, original.Table.HeaderFgColor, loaded.Table.HeaderFgColor)
}

func TestThemeLoader_ListAvailableThemes(t *testing.T) {
	tmpDir := t.TempDir()
	loader := NewThemeLoader(tmpDir)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "dark.yaml"), []byte("chatGallery: {}\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "light.yaml"), []byte("chatGallery: {}\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("not a theme"), 0600))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "nested.yaml"), 0700))

	themes, err := loader.ListAvailableThemes()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dark.yaml", "light.yaml"}, themes)
}

func TestThemeLoader_ListAvailableThemes_MissingDir(t *testing.T) {
	loader := NewThemeLoader("/nonexistent/themes")

	_, err := loader.ListAvailableThemes()
	assert.Error(t, err)
}

func TestThemeLoader_ValidateTheme(t *testing.T) {
	loader := NewThemeLoader(t.TempDir())

	tests := []struct {
		name    string
		theme   *ColorsConfig
		wantErr string
	}{
		{"nil_theme", nil, "theme is nil"},
		{"empty_theme", &ColorsConfig{}, "missing required color: Body.FgColor"},
		{
			"missing_item_colors",
			&ColorsConfig{
				Body: BodyColors{FgColor: "#ffffff", BgColor: "#000000"},
			},
			"missing required color: Item.PendingColor",
		},
		{"complete_theme", DefaultColors(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loader.ValidateTheme(tt.theme)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestThemeLoader_CreateDefaultTheme(t *testing.T) {
	tmpDir := t.TempDir()
	loader := NewThemeLoader(tmpDir)

	err := loader.CreateDefaultTheme()
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(tmpDir, "gallery-dark.yaml"))

	// Second call is a no-op on the existing file
	info, err := os.Stat(filepath.Join(tmpDir, "gallery-dark.yaml"))
	require.NoError(t, err)

	err = loader.CreateDefaultTheme()
	require.NoError(t, err)

	after, err := os.Stat(filepath.Join(tmpDir, "gallery-dark.yaml"))
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime())
}

func TestColor_String(t *testing.T) {
	tests := []struct {
		name     string
		color    Color
		expected string
	}{
		{"hex_passthrough", Color("#ff5555"), "#ff5555"},
		{"default_color", DefaultColor, "-"},
		{"named_color", Color("red"), "#ff0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.color.String())
		})
	}
}

func TestColors_Colors(t *testing.T) {
	cc := Colors{Color("#ff5555"), Color("#50fa7b")}

	converted := cc.Colors()
	assert.Len(t, converted, 2)
}
