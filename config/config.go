// Package config loads engine configuration from the environment and the
// crew manifest describing which analyzers to dispatch.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-driven configuration for the CLI and façade.
type Config struct {
	// APIBase is the participant registry base URL.
	APIBase string `env:"HOMEWARD_API_BASE" envDefault:"http://localhost:8080"`

	// TaskTimeout bounds each analyzer task.
	TaskTimeout time.Duration `env:"HOMEWARD_TASK_TIMEOUT" envDefault:"60s"`

	// LoadRetries is how many extra context-load attempts are made while
	// the registry is unavailable.
	LoadRetries int `env:"HOMEWARD_LOAD_RETRIES" envDefault:"2"`

	// CatalogDSN locates the star catalog database.
	CatalogDSN string `env:"HOMEWARD_CATALOG_DSN" envDefault:"star_catalog.db"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"HOMEWARD_LOG_LEVEL" envDefault:"info"`

	// LogFormat is json or text.
	LogFormat string `env:"HOMEWARD_LOG_FORMAT" envDefault:"text"`
}

// FromEnv parses configuration from environment variables.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
