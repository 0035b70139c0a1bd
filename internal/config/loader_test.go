package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, "toolscout", cfg.Service.Name)
	assert.Equal(t, 8097, cfg.Service.Port)
	assert.Equal(t, 5, cfg.Automation.DiscoveryBatchSize)
	assert.Equal(t, time.Second, cfg.Automation.QueryDelay)
	assert.Equal(t, "https://s.jina.ai", cfg.Search.BaseURL)
	assert.False(t, cfg.Database.Configured())
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
service:
  port: 9001
automation:
  discovery_batch_size: 3
  query_delay: 250ms
`), 0o600))

	t.Setenv("DATABASE_URL", "postgres://example/db")
	t.Setenv("TOOLSCOUT_PORT", "9002")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9002, cfg.Service.Port, "env beats yaml")
	assert.Equal(t, 3, cfg.Automation.DiscoveryBatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Automation.QueryDelay)
	assert.True(t, cfg.Database.Configured())
	assert.Equal(t, "postgres://example/db", cfg.Database.URL)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("service: [not a map"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
