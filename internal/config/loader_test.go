package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMatchesDefaultConfig(t *testing.T) {
	assert.Equal(t, DefaultConfig(), defaults())
}

func TestLoadCustomPathOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  max_depth: 40\nserver:\n  idle_timeout: 5m\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Search.MaxDepth)
	assert.Equal(t, 3, cfg.Search.Target, "unset keys keep the default")
	assert.Equal(t, 5*time.Minute, cfg.Server.IdleTimeout)
	assert.Equal(t, "levels", cfg.Levels.Dir)
}

func TestLoadCustomPathErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("search: ["), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("search:\n  target: 9\n"), 0o644))
	_, err = Load(invalid)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative depth", func(c *Config) { c.Search.MaxDepth = -1 }},
		{"negative target", func(c *Config) { c.Search.Target = -1 }},
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"concurrency", func(c *Config) { c.Check.Concurrency = -2 }},
	}

	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestServerAddr(t *testing.T) {
	assert.Equal(t, "0.0.0.0:2222", DefaultConfig().Server.Addr())
}
