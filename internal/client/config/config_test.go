package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:3000", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "inscription.db", cfg.DatabasePath)
	assert.Equal(t, "downloads", cfg.DownloadsDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_JsonOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"api_base_url": "https://inscription.example.fr",
		"request_timeout": "30s",
		"log_level": "debug"
	}`), 0o660))

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cli", "-c", path}

	cfg := LoadConfig()

	assert.Equal(t, "https://inscription.example.fr", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	// fields absent from the JSON keep their defaults
	assert.Equal(t, "inscription.db", cfg.DatabasePath)
	assert.Equal(t, "downloads", cfg.DownloadsDir)
}

func TestLoadConfig_FlagsOverrideJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_base_url": "https://json.example.fr"}`), 0o660))

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cli", "-c", path, "-a", "https://flag.example.fr", "-t", "5"}

	cfg := LoadConfig()

	assert.Equal(t, "https://flag.example.fr", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}
