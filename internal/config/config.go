// Package config loads runtime settings for the skirmish binaries from the
// environment and builds their diagnostic logger.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds settings shared by the binaries. Command-line flags default
// to these values.
type Config struct {
	Seed        int64  `env:"SKIRMISH_SEED"         envDefault:"1"`
	Runs        int    `env:"SKIRMISH_RUNS"         envDefault:"10"`
	Scenario    string `env:"SKIRMISH_SCENARIO"`
	LogLevel    string `env:"SKIRMISH_LOG_LEVEL"    envDefault:"info"`
	LogFormat   string `env:"SKIRMISH_LOG_FORMAT"   envDefault:"console"`
	LogFile     string `env:"SKIRMISH_LOG_FILE"`
	TileSize    int    `env:"SKIRMISH_TILE_SIZE"    envDefault:"48"`
	WindowScale int    `env:"SKIRMISH_WINDOW_SCALE" envDefault:"1"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config from the environment and checks it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no binary can use.
func (c Config) Validate() error {
	if c.Runs < 1 {
		return fmt.Errorf("SKIRMISH_RUNS must be at least 1, got %d", c.Runs)
	}
	if c.TileSize < 8 {
		return fmt.Errorf("SKIRMISH_TILE_SIZE must be at least 8, got %d", c.TileSize)
	}
	if c.WindowScale < 1 {
		return fmt.Errorf("SKIRMISH_WINDOW_SCALE must be at least 1, got %d", c.WindowScale)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("SKIRMISH_LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	return nil
}
