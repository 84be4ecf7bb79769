package config

import (
	"strconv"

	"github.com/caarlos0/env/v10"
	"github.com/sirupsen/logrus"
)

// Config holds application configuration values.
type Config struct {
	DataPath       string `env:"DATA_PATH" envDefault:"drugs.json"`
	DatabaseDSN    string `env:"DATABASE_DSN" envDefault:"file:drugdex.db"`
	HTTPPort       string `env:"HTTP_PORT" envDefault:"8080"`
	Secret         string `env:"SECRET" envDefault:"dev_secret"`
	EditorPassword string `env:"EDITOR_PASSWORD" envDefault:"dev_editor"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		logrus.Warnf("invalid HTTP_PORT value %q, defaulting to 8080", cfg.HTTPPort)
		cfg.HTTPPort = "8080"
	}

	return cfg, nil
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
