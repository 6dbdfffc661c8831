// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the service configuration.
type Config struct {
	Addr          string        `env:"SPLITIT_ADDR" envDefault:":8080"`
	DBPath        string        `env:"SPLITIT_DB_PATH" envDefault:"./data/splitit.db"`
	JWTSecret     string        `env:"SPLITIT_JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenDuration time.Duration `env:"SPLITIT_TOKEN_DURATION" envDefault:"24h"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the configuration from the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("SPLITIT_JWT_SECRET is required")
	}
	return cfg, nil
}
