package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/formgrid.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration. It matches
// defaults/formgrid.yaml and is used when the embedded file cannot be
// parsed.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			MaxDepth: 100,
			Target:   3,
		},
		Levels: LevelsConfig{
			Dir: "levels",
		},
		Storage: StorageConfig{
			Path:    "~/.formgrid/formgrid.db",
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        2222,
			HostKeyPath: ".ssh/formgrid_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
		Check: CheckConfig{
			Concurrency: 0,
		},
	}
}
