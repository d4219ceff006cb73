package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "nested", "agrochat.log")
	closer, err := Setup(path, true)
	require.NoError(t, err)

	slog.Debug("upload finished", "image_url", "http://x/y.png")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "upload finished")
	assert.Contains(t, string(data), "image_url=http://x/y.png")
}

func TestSetupRespectsLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "agrochat.log")
	closer, err := Setup(path, false)
	require.NoError(t, err)

	slog.Debug("hidden")
	slog.Warn("shown")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestDiscard(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	closer := Discard()
	require.NotNil(t, closer)
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelError))
	assert.NoError(t, closer.Close())
}
