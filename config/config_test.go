package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Contains(t, cfg.Fonts, "Vazir")
	assert.Contains(t, cfg.OutputFormats, "gif")
	assert.Len(t, cfg.Resolutions, 3)
	assert.NotEmpty(t, cfg.SampleText)
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "environment: production\nserver_port: 9090\nstorage_path: " + filepath.Join(dir, "store") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	t.Setenv("LYRICMOTION_CONFIG", path)
	t.Setenv("LYRICMOTION_ENV", "")
	t.Setenv("LYRICMOTION_PORT", "")
	t.Setenv("LYRICMOTION_DB", "")
	t.Setenv("LYRICMOTION_STORAGE", "")

	cfg := LoadConfig()
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, filepath.Join(dir, "store", "uploads"), cfg.UploadsPath)
	assert.Equal(t, filepath.Join(dir, "store", "output"), cfg.OutputPath)

	// Defaults survive a partial file.
	assert.Contains(t, cfg.Fonts, "Vazir")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("LYRICMOTION_CONFIG", filepath.Join(t.TempDir(), "nonexistent.yaml"))
	t.Setenv("LYRICMOTION_ENV", "production")
	t.Setenv("LYRICMOTION_PORT", "3000")
	t.Setenv("LYRICMOTION_STORAGE", "/srv/lyricmotion")
	t.Setenv("LYRICMOTION_DB", "/srv/lyricmotion/app.db")

	cfg := LoadConfig()
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 3000, cfg.ServerPort)
	assert.Equal(t, "/srv/lyricmotion/app.db", cfg.DBPath)
	assert.Equal(t, filepath.Join("/srv/lyricmotion", "temp"), cfg.TempPath)
}

func TestResolutionByLabel(t *testing.T) {
	cfg := Defaults()

	res := cfg.ResolutionByLabel("720p")
	assert.Equal(t, 1280, res.Width)

	fallback := cfg.ResolutionByLabel("240p")
	assert.Equal(t, "1080p", fallback.Label)
	assert.Equal(t, 1920, fallback.Width)
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LYRICMOTION_CONFIG", filepath.Join(dir, "nonexistent.yaml"))
	t.Setenv("LYRICMOTION_ENV", "")
	t.Setenv("LYRICMOTION_PORT", "")
	t.Setenv("LYRICMOTION_STORAGE", filepath.Join(dir, "storage"))
	t.Setenv("LYRICMOTION_DB", filepath.Join(dir, "data", "app.db"))

	cfg := LoadConfig()
	require.NoError(t, cfg.EnsureDirs())

	for _, p := range []string{cfg.UploadsPath, cfg.OutputPath, cfg.LogsPath, cfg.TempPath} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
