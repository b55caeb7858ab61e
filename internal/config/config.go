// Package config handles application configuration loaded from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the talawa-api process configuration.
type Config struct {
	// ListenAddr is the HTTP bind address (host:port).
	ListenAddr string `env:"API_LISTEN_ADDR" envDefault:"localhost:8080"`

	// BaseURL is the externally reachable root of this API. Attachment
	// object URLs are built from it.
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8080"`

	// DatabaseURL is the database DSN. postgres:// and postgresql:// select
	// PostgreSQL, anything else is treated as a SQLite path or file: URI.
	DatabaseURL string `env:"API_DATABASE_URL" envDefault:"file:talawa.db"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"API_LOG_LEVEL" envDefault:"info"`

	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string `env:"API_CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// JWTSecret signs bearer tokens (HS256). Required.
	JWTSecret string `env:"API_JWT_SECRET"`

	// JWTExpiresIn bounds the lifetime of issued tokens.
	JWTExpiresIn time.Duration `env:"API_JWT_EXPIRES_IN" envDefault:"24h"`

	// RecaptchaSecretKey enables captcha verification on signUp when set.
	RecaptchaSecretKey string `env:"API_RECAPTCHA_SECRET_KEY"`

	// Minio configures the S3-compatible store for post attachments.
	Minio MinioConfig
}

// MinioConfig holds the object storage connection settings.
type MinioConfig struct {
	Endpoint  string `env:"API_MINIO_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"API_MINIO_ACCESS_KEY" envDefault:"talawa"`
	SecretKey string `env:"API_MINIO_SECRET_KEY" envDefault:"password"`
	Bucket    string `env:"API_MINIO_BUCKET" envDefault:"talawa"`
	UseSSL    bool   `env:"API_MINIO_USE_SSL" envDefault:"false"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("API_JWT_SECRET is required")
	}
	if cfg.JWTExpiresIn <= 0 {
		return nil, fmt.Errorf("API_JWT_EXPIRES_IN must be positive")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("API_DATABASE_URL is required")
	}

	// Trailing slashes would double up when object paths are appended.
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return cfg, nil
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RecaptchaEnabled reports whether signUp requests must carry a captcha token.
func (c *Config) RecaptchaEnabled() bool {
	return c.RecaptchaSecretKey != ""
}
