package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database drivers accepted by DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config is the process-wide configuration, built once and passed down explicitly.
type Config struct {
	AppPort          string
	Env              string
	LogLevel         string
	CORSAllowOrigins string
	Database         DatabaseConfig
	Redis            RedisConfig
	RabbitMQ         RabbitMQConfig
	Client           ClientConfig
}

// DatabaseConfig selects and tunes the backing store.
type DatabaseConfig struct {
	Driver          string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnectAttempts int
	AutoMigrate     bool
	Seed            bool
}

// RedisConfig enables the list cache when URL is set.
type RedisConfig struct {
	URL string
	TTL time.Duration
}

// RabbitMQConfig enables catalog events when URL is set.
type RabbitMQConfig struct {
	URL   string
	Queue string
}

// ClientConfig is used by the CLI commands that talk to a running API.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads envFile (if it exists) into the environment and builds the configuration
// from environment variables and defaults.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetDefault("APP_PORT", ":3001")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 0)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", "10s")
	v.SetDefault("DB_CONNECT_ATTEMPTS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_SEED", true)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_TTL", "30s")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "catalog_events")
	v.SetDefault("API_BASE_URL", "http://localhost:3001/api")
	v.SetDefault("CLIENT_TIMEOUT", "10s")
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:          v.GetString("APP_PORT"),
		Env:              strings.ToLower(v.GetString("APP_ENV")),
		LogLevel:         v.GetString("LOG_LEVEL"),
		CORSAllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
			ConnectAttempts: v.GetInt("DB_CONNECT_ATTEMPTS"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
			Seed:            v.GetBool("DB_SEED"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
			TTL: v.GetDuration("CACHE_TTL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   v.GetString("RABBITMQ_URL"),
			Queue: v.GetString("RABBITMQ_QUEUE"),
		},
		Client: ClientConfig{
			BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			Timeout: v.GetDuration("CLIENT_TIMEOUT"),
		},
	}

	return cfg, nil
}

// Validate checks the storage settings. Only commands that open the catalog store need it,
// so Load leaves it to them.
func (d *DatabaseConfig) Validate() error {
	switch d.Driver {
	case DriverPostgres:
		if d.URL == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER is postgres")
		}
	case DriverSQLite:
		if d.URL == "" {
			d.URL = "pricelist.db"
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres, sqlite or memory)", d.Driver)
	}
	if d.MaxOpenConns <= 0 {
		return errors.New("DB_MAX_OPEN_CONNS must be positive")
	}
	if d.ConnectAttempts <= 0 {
		d.ConnectAttempts = 1
	}
	return nil
}
