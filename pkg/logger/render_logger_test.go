package logger

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLogger(t *testing.T) {
	dir := t.TempDir()

	rl, err := NewRenderLogger(dir, 42)
	require.NoError(t, err)

	rl.Phase("Analyzing music")
	rl.Info("found %d beats", 120)
	rl.Property("Format", "mp4")
	rl.Error("sample error: %v", os.ErrNotExist)
	require.NoError(t, rl.Close(true, "done"))

	data, err := os.ReadFile(rl.LogPath())
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Project ID: 42")
	assert.Contains(t, content, "PHASE: Analyzing music")
	assert.Contains(t, content, "INFO: found 120 beats")
	assert.Contains(t, content, "PROPERTY: Format = mp4")
	assert.Contains(t, content, "ERROR: sample error")
	assert.Contains(t, content, "RENDER COMPLETED")
}

func TestRenderLoggerFailureFooter(t *testing.T) {
	rl, err := NewRenderLogger(t.TempDir(), 1)
	require.NoError(t, err)
	require.NoError(t, rl.Close(false, "ffmpeg exploded"))

	data, err := os.ReadFile(rl.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "RENDER FAILED")
	assert.Contains(t, string(data), "ffmpeg exploded")
}
