package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	App   AppConfig
	Redis RedisConfig
	Cache CacheConfig
	JWT   JWTConfig
	MinIO MinIOConfig
	Image ImageConfig
	Auth  AuthConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// CacheConfig selects the backing store of the page cache and the
// repository read-through caches.
type CacheConfig struct {
	Driver       string // redis, memory
	Prefix       string
	PageCacheTTL time.Duration
	EntityTTL    time.Duration
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type ImageConfig struct {
	MaxBytes      int64
	MaxPixels     int64
	ThumbnailSize int
}

type AuthConfig struct {
	LoginURL   string
	CookieName string
}

func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Blog API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Driver:       getEnv("CACHE_DRIVER", "redis"),
			Prefix:       getEnv("CACHE_PREFIX", "blog:"),
			PageCacheTTL: getEnvDuration("PAGE_CACHE_TTL", 20*time.Second),
			EntityTTL:    getEnvDuration("CACHE_ENTITY_TTL", 10*time.Minute),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 60*24),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "posts"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Image: ImageConfig{
			MaxBytes:      int64(getEnvInt("IMAGE_MAX_BYTES", 5*1024*1024)),
			MaxPixels:     int64(getEnvInt("IMAGE_MAX_PIXELS", 40_000_000)),
			ThumbnailSize: getEnvInt("IMAGE_THUMBNAIL_SIZE", 300),
		},
		Auth: AuthConfig{
			LoginURL:   getEnv("LOGIN_URL", "/auth/login/"),
			CookieName: getEnv("AUTH_COOKIE_NAME", "access_token"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case "redis", "memory":
	default:
		return fmt.Errorf("CACHE_DRIVER must be redis or memory, got %q", c.Cache.Driver)
	}

	if c.Cache.PageCacheTTL <= 0 {
		return fmt.Errorf("PAGE_CACHE_TTL must be positive")
	}

	if c.Image.MaxBytes <= 0 {
		return fmt.Errorf("IMAGE_MAX_BYTES must be positive")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.MinIO.AccessKey == "minioadmin" {
			log.Warn().Msg("MINIO_ACCESS_KEY uses the default credentials")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
