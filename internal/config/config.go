// Package config loads process configuration once at startup. The resulting
// Config is handed to every component explicitly.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds every setting the application needs.
type Config struct {
	AppPort       string
	StorageDriver string
	DatabaseDSN   string
	JWTSecret     string
	TokenTTL      time.Duration
	RabbitMQURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StatsCacheTTL time.Duration
	LogLevel      string
}

// Load reads an optional .env file and the environment. Values already present
// in the environment win over the .env file.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}

	v := viper.New()
	v.SetDefault("APP_PORT", ":3003")
	v.SetDefault("STORAGE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "bloglist.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "1h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STATS_CACHE_TTL", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.AutomaticEnv()

	return &Config{
		AppPort:       v.GetString("APP_PORT"),
		StorageDriver: v.GetString("STORAGE_DRIVER"),
		DatabaseDSN:   v.GetString("DATABASE_DSN"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		TokenTTL:      v.GetDuration("TOKEN_TTL"),
		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		StatsCacheTTL: v.GetDuration("STATS_CACHE_TTL"),
		LogLevel:      v.GetString("LOG_LEVEL"),
	}, nil
}

// Validate checks the settings needed to serve requests.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	switch c.StorageDriver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}
