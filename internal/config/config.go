// Package config loads service settings from the environment and an optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings.
type Config struct {
	AppPort      string
	APIPrefix    string
	DBDriver     string
	DatabaseDSN  string
	JWTSecret    string
	JWTTTL       time.Duration
	RabbitMQURL  string
	LogLevel     string
	CORSOrigins  string
	SeedCount    int
	SeedPassword string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=catalog port=5432 sslmode=disable")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("SEED_COUNT", 1000)
	v.SetDefault("SEED_PASSWORD", "password@2026")
}

// Load reads configuration from environment variables and, when path is not
// empty, from the given config file. Environment variables win.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	cfg := &Config{
		AppPort:      v.GetString("APP_PORT"),
		APIPrefix:    v.GetString("API_PREFIX"),
		DBDriver:     strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:  v.GetString("DATABASE_DSN"),
		JWTSecret:    v.GetString("JWT_SECRET"),
		JWTTTL:       ttl,
		RabbitMQURL:  v.GetString("RABBITMQ_URL"),
		LogLevel:     strings.ToLower(v.GetString("LOG_LEVEL")),
		CORSOrigins:  v.GetString("CORS_ORIGINS"),
		SeedCount:    v.GetInt("SEED_COUNT"),
		SeedPassword: v.GetString("SEED_PASSWORD"),
	}
	return cfg, nil
}

// Validate checks the settings required to serve requests.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN is required")
	}
	return nil
}
