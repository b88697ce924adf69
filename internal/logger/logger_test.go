package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"serwer-cytatow/internal/config"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	require.Error(t, err)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.log")

	log, err := New(config.LogConfig{Level: "info", FilePath: path, MaxSizeMB: 1})
	require.NoError(t, err)

	log.Info("quote published")
	log.Debug("filtered out")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "quote published")
	require.NotContains(t, string(data), "filtered out")
}
