package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"blog-backend/internal/infrastructure/database"
)

// strictEnv parses numeric settings and remembers every malformed value so
// that a misconfigured pool fails at boot instead of falling back silently.
type strictEnv struct {
	errs []error
}

func (e *strictEnv) int(key, fallback string) int {
	n, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
	}
	return n
}

func (e *strictEnv) duration(key, fallback string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
	}
	return d
}

// LoadDatabaseConfig reads the Postgres pool settings from DB_* variables.
func LoadDatabaseConfig() (*database.DBConfig, error) {
	var env strictEnv

	cfg := &database.DBConfig{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              env.int("DB_PORT", "5432"),
		Username:          getEnv("DB_USER", "blog"),
		Password:          getEnv("DB_PASSWORD", "secret"),
		DBName:            getEnv("DB_NAME", "blog_dev"),
		SSLMode:           getEnv("DB_SSLMODE", "disable"),
		MaxConns:          int32(env.int("DB_MAX_CONNECTIONS", "25")),
		MinConns:          int32(env.int("DB_MIN_CONNECTIONS", "2")),
		MaxConnLifetime:   env.duration("DB_MAX_CONN_LIFETIME", "5m"),
		MaxConnIdleTime:   env.duration("DB_MAX_CONN_IDLE_TIME", "1m"),
		HealthCheckPeriod: env.duration("DB_HEALTH_CHECK_PERIOD", "1m"),
		MaxRetries:        env.int("DB_MAX_RETRIES", "5"),
		RetryDelay:        env.duration("DB_RETRY_DELAY", "1s"),
		ConnectTimeout:    env.duration("DB_CONNECT_TIMEOUT", "10s"),
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}
