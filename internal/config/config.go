package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Env          string        `mapstructure:"APP_ENV"` // development | production
	Port         string        `mapstructure:"PORT"`
	ReadTimeout  time.Duration `mapstructure:"HTTP_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"HTTP_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `mapstructure:"HTTP_IDLE_TIMEOUT"`

	// Database
	DBHost        string `mapstructure:"DB_HOST"`
	DBPort        string `mapstructure:"DB_PORT"`
	DBUser        string `mapstructure:"DB_USER"`
	DBPassword    string `mapstructure:"DB_PASSWORD"`
	DBName        string `mapstructure:"DB_NAME"`
	DBSSLMode     string `mapstructure:"DB_SSLMODE"`
	DBMaxRetries  int    `mapstructure:"DB_MAX_RETRIES"`
	DBAutoMigrate bool   `mapstructure:"DB_AUTO_MIGRATE"`

	// Redis, empty disables idempotency keys
	RedisAddr string `mapstructure:"REDIS_ADDR"`

	// Auth
	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	JWTTTL     time.Duration `mapstructure:"JWT_TTL"`
	BcryptCost int           `mapstructure:"BCRYPT_COST"`

	// Leave
	AllowReReview bool `mapstructure:"LEAVE_ALLOW_REREVIEW"`
}

var defaults = map[string]any{
	"APP_ENV":              "development",
	"PORT":                 "8080",
	"HTTP_READ_TIMEOUT":    "10s",
	"HTTP_WRITE_TIMEOUT":   "15s",
	"HTTP_IDLE_TIMEOUT":    "60s",
	"DB_HOST":              "localhost",
	"DB_PORT":              "5432",
	"DB_USER":              "postgres",
	"DB_PASSWORD":          "",
	"DB_NAME":              "go_leave",
	"DB_SSLMODE":           "disable",
	"DB_MAX_RETRIES":       5,
	"DB_AUTO_MIGRATE":      true,
	"REDIS_ADDR":           "",
	"JWT_SECRET":           "",
	"JWT_TTL":              "24h",
	"BCRYPT_COST":          bcrypt.DefaultCost,
	"LEAVE_ALLOW_REREVIEW": true,
}

// Load reads configuration from the process environment. Callers load .env beforehand.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about, so every key gets a default.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.DBMaxRetries < 1 {
		return errors.New("DB_MAX_RETRIES must be at least 1")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}
