package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is loaded from POCKETTILL_* environment variables.
type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	DataDir       string `envconfig:"DATA_DIR"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("pockettill", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}
