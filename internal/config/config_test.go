package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 0, cfg.Upstream.Timeout)
	assert.Equal(t, "https://api.ydc-index.io/v1/search", cfg.Upstream.Search.URL)
	assert.Equal(t, "X-API-Key", cfg.Upstream.Search.AuthHeader)
	assert.Equal(t, "X-API-Key", cfg.Upstream.Contents.AuthHeader)
	assert.Equal(t, "Authorization", cfg.Upstream.Express.AuthHeader)
	assert.Equal(t, "Bearer", cfg.Upstream.Express.AuthScheme)
	assert.Empty(t, cfg.Journal.Path)
	assert.Equal(t, 7*24*3600, cfg.Journal.MaxAge)
	assert.Equal(t, 3600, cfg.Journal.PruneInterval)
	assert.Equal(t, "support@you.com", cfg.Support.Email)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("YDC_API_KEY", "env-key")
	t.Setenv("YDC_SERVER_PORT", "8080")
	t.Setenv("YDC_UPSTREAM_SEARCH_URL", "http://localhost:9999/search")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:9999/search", cfg.Upstream.Search.URL)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "ydc.yaml")
	content := `
logging:
  level: debug
upstream:
  timeout: 15
  express:
    url: http://agents.local/runs
journal:
  path: /tmp/ydc-journal.db
  max_age: 600
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 15, cfg.Upstream.Timeout)
	assert.Equal(t, "http://agents.local/runs", cfg.Upstream.Express.URL)
	assert.Equal(t, "Bearer", cfg.Upstream.Express.AuthScheme)
	assert.Equal(t, "/tmp/ydc-journal.db", cfg.Journal.Path)
	assert.Equal(t, 600, cfg.Journal.MaxAge)
}
