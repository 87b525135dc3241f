package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTP_PORT      string `env:"HTTP_PORT"`
	STORE_BASE_URL string `env:"STORE_BASE_URL"`
	REDIS_ADDR     string `env:"REDIS_ADDR"`
	REDIS_PASSWORD string `env:"REDIS_PASSWORD"`
	REDIS_DB       int    `env:"REDIS_DB"`
	CACHE_TTL      time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		HTTP_PORT:      os.Getenv("HTTP_PORT"),
		STORE_BASE_URL: os.Getenv("STORE_BASE_URL"),
		REDIS_ADDR:     os.Getenv("REDIS_ADDR"),
		REDIS_PASSWORD: os.Getenv("REDIS_PASSWORD"),
	}

	if cfg.HTTP_PORT == "" {
		cfg.HTTP_PORT = "8080"
	}
	if cfg.STORE_BASE_URL == "" {
		cfg.STORE_BASE_URL = "http://localhost:5000/api"
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.REDIS_DB = n
		}
	}

	cfg.CACHE_TTL = 5 * time.Minute
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CACHE_TTL = d
		}
	}

	return cfg, nil
}
