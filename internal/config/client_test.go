package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClientConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORTAL_BASE_URL", "http://localhost:8080/api/v1")
	t.Setenv("PORTAL_TOKEN", "")

	cfg, err := LoadClientConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, 400*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}

func TestLoadClientConfig_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portal.yaml")
	err := os.WriteFile(path, []byte(`
base_url: https://admin.example.com/api/v1
token: from-file
timeout: 5s
debounce: 250ms
page_size: 10
`), 0o600)
	require.NoError(t, err)

	t.Setenv("PORTAL_TOKEN", "from-env")

	cfg, err := LoadClientConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Token)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 10, cfg.PageSize)
}

func TestLoadClientConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: [unterminated"), 0o600))

	_, err := LoadClientConfig(path)
	assert.Error(t, err)
}
