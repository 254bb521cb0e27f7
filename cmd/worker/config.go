package main

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
)

// Config holds the worker-only settings on top of the shared config.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
	HealthAddr    string
}

func loadConfig(app *config.Config) *Config {
	cfg := &Config{
		RedisAddr:     app.Redis.Host,
		RedisPassword: app.Redis.Password,
		RedisDB:       app.Redis.DB,
		Concurrency:   envInt("WORKER_CONCURRENCY", 10),
		HealthAddr:    envString("WORKER_HEALTH_ADDR", ":9999"),
	}

	log.Info().
		Str("redis", cfg.RedisAddr).
		Int("concurrency", cfg.Concurrency).
		Msg("[Config] Worker configuration loaded")

	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
