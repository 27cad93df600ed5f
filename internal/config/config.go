// Package config loads the formgrid application configuration.
package config

import "time"

// Config is the top-level formgrid configuration.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Levels  LevelsConfig  `yaml:"levels"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
	Check   CheckConfig   `yaml:"check"`
}

// SearchConfig tunes the solver.
type SearchConfig struct {
	MaxDepth int `yaml:"max_depth"` // states at this depth are not expanded
	Target   int `yaml:"target"`    // exact number of collectibles at the end
}

// LevelsConfig points at level and ruleset files.
type LevelsConfig struct {
	Dir   string `yaml:"dir"`
	Forms string `yaml:"forms"` // empty means the built-in rulesets
}

// StorageConfig configures the solution cache.
type StorageConfig struct {
	Path    string `yaml:"path"`
	Enabled bool   `yaml:"enabled"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ServerConfig configures the SSH level browser.
type ServerConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	HostKeyPath string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// CheckConfig configures batch checking.
type CheckConfig struct {
	Concurrency int `yaml:"concurrency"` // 0 means one worker per CPU
}
