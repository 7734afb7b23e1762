package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9:00am", cfg.Defaults.Min)
	assert.Equal(t, "5:00pm", cfg.Defaults.Max)
	assert.Equal(t, "30m", cfg.Defaults.Duration)
	assert.Equal(t, "1w", cfg.Defaults.Window)
	assert.False(t, cfg.Defaults.IncludeWeekends)
	assert.False(t, cfg.Metrics)
	assert.False(t, cfg.Google.Configured())
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `
google:
  client_id: goog-id
  client_secret: goog-secret
microsoft:
  client_id: ms-id
defaults:
  min: 8:00am
  include_weekends: true
metrics: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "goog-id", cfg.Google.ClientID)
	assert.Equal(t, "goog-secret", cfg.Google.ClientSecret)
	assert.True(t, cfg.Google.Configured())
	assert.Equal(t, "ms-id", cfg.Microsoft.ClientID)
	assert.Equal(t, "8:00am", cfg.Defaults.Min)
	assert.Equal(t, "5:00pm", cfg.Defaults.Max)
	assert.True(t, cfg.Defaults.IncludeWeekends)
	assert.True(t, cfg.Metrics)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AVAIL_GOOGLE_CLIENT_ID", "env-id")
	t.Setenv("AVAIL_DEFAULTS_DURATION", "1h")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "env-id", cfg.Google.ClientID)
	assert.Equal(t, "1h", cfg.Defaults.Duration)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("google: [oops"), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestDatabasePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/tmp/avail", "avail.db"), DatabasePath("/tmp/avail"))
}
