package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by Validate failures.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// FileName is the configuration file name searched for on disk.
const FileName = "formgrid.yaml"

// Load loads the application configuration.
// Search order: customPath -> ~/.formgrid/config.yaml -> ./configs/formgrid.yaml -> embedded default
//
// Files are decoded on top of the defaults, so a file only needs the keys
// it changes.
func Load(customPath string) (Config, error) {
	cfg := defaults()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, cfg.Validate()
			}
			cfg = defaults()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, cfg.Validate()
		}
		cfg = defaults()
	}

	return cfg, nil
}

// defaults decodes the embedded YAML, falling back to DefaultConfig.
func defaults() Config {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return DefaultConfig() // Fallback to hardcoded if embed fails
	}
	return cfg
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".formgrid", filename)
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	switch {
	case c.Search.MaxDepth < 0:
		return fmt.Errorf("%w: search.max_depth %d is negative", ErrInvalidConfig, c.Search.MaxDepth)
	case c.Search.Target < 0 || c.Search.Target > 8:
		return fmt.Errorf("%w: search.target %d outside 0..8", ErrInvalidConfig, c.Search.Target)
	case c.Server.Port < 0 || c.Server.Port > 65535:
		return fmt.Errorf("%w: server.port %d", ErrInvalidConfig, c.Server.Port)
	case c.Check.Concurrency < 0:
		return fmt.Errorf("%w: check.concurrency %d is negative", ErrInvalidConfig, c.Check.Concurrency)
	}
	return nil
}

// Addr returns the SSH listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
