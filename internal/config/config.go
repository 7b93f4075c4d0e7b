// Package config loads runtime settings for the simulator binaries from the
// environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// Config holds settings shared by the CLIs and the gRPC server.
type Config struct {
	DBPath   string `env:"SOVEREIGN_DB"        envDefault:"sovereign.db"`
	Seed     int64  `env:"SOVEREIGN_SEED"`      // 0 draws a random seed; the server uses it for unseeded NewGame calls
	GRPCAddr string `env:"SOVEREIGN_GRPC_ADDR" envDefault:"localhost:50061"`
	LogLevel string `env:"SOVEREIGN_LOG_LEVEL" envDefault:"info"`
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
