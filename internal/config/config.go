// Package config maps OS environment variables into a strongly-typed
// struct, providing defaults and early validation.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime configuration for the cmdata CLI.
type Config struct {
	// DataDir overlays an external taxonomy directory (same layout as the
	// embedded data) over the embedded set. Empty means embedded data only.
	DataDir string `env:"CMDATA_DATA_DIR"`

	// CachePath is the bbolt parse-cache location. Empty disables caching.
	CachePath string `env:"CMDATA_CACHE_PATH"`

	// Registry is the default unit registry name.
	Registry string `env:"CMDATA_REGISTRY" envDefault:"NBS_zh"`

	// Log settings for long-running commands.
	LogLevel  string `env:"CMDATA_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"CMDATA_LOG_FORMAT" envDefault:"console"`
}

// Load parses environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}
