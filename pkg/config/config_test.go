package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  development: true
upstream:
  base_url: http://localhost:8080
  locale: de-DE
  timezone_offset: -60
  http_timeout: 10s
rate:
  request_interval: 2s
  max_attempts: 6
  base_delay: 250ms
  max_delay: 1m
export:
  dir: /tmp/exports
  db_dir: /tmp/dbs
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, "http://localhost:8080", cfg.Upstream.BaseURL)
	assert.Equal(t, -60, cfg.Upstream.TimezoneOffset)
	assert.Equal(t, 10*time.Second, cfg.Upstream.HTTPTimeout.Std())
	assert.Equal(t, 2*time.Second, cfg.Rate.RequestInterval.Std())
	assert.Equal(t, uint(6), cfg.Rate.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Rate.BaseDelay.Std())
	assert.Equal(t, time.Minute, cfg.Rate.MaxDelay.Std())
	assert.Equal(t, "/tmp/exports", cfg.Export.Dir)
}

func TestLoadFile_EmptyPath(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, *cfg)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
