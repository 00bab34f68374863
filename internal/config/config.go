// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// server mode, auth verification, and data storage.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	SiteURL         string // Public site base URL, used by the sitemap

	// Data Configuration
	DataDir string // Data directory for the SQLite database

	// Auth Configuration
	// AuthJWTSecret enables local HS256 verification of identity-provider tokens.
	// AuthUserInfoURL enables remote verification against the provider's userinfo endpoint.
	// At least one must be set for the server.
	AuthJWTSecret   string
	AuthUserInfoURL string
	AuthTimeout     time.Duration

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Sentry Configuration
	SentryDSN         string
	SentryEnvironment string
	SentryRelease     string
	SentrySampleRate  float64
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv(EnvPort, "8080"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),
		SiteURL:         getEnv(EnvSiteURL, "https://flithub.ie"),

		DataDir: getEnv(EnvDataDir, "data"),

		AuthJWTSecret:   getEnv(EnvAuthJWTSecret, ""),
		AuthUserInfoURL: getEnv(EnvAuthUserInfoURL, ""),
		AuthTimeout:     getDurationEnv(EnvAuthTimeout, 10*time.Second),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		SentryDSN:         getEnv(EnvSentryDSN, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentryRelease:     getEnv(EnvSentryRelease, ""),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present and consistent
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Port, err)
	}
	if c.AuthJWTSecret == "" && c.AuthUserInfoURL == "" {
		return errors.New("either " + EnvAuthJWTSecret + " or " + EnvAuthUserInfoURL + " must be set")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	return nil
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "flithub.db")
}

// DefaultSQLitePath resolves the database path from the environment without
// requiring the server-only settings, for operator CLIs.
func DefaultSQLitePath() string {
	_ = godotenv.Load()
	return filepath.Join(getEnv(EnvDataDir, "data"), "flithub.db")
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getDurationEnv retrieves a duration environment variable with a fallback default
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// getFloatEnv retrieves a float environment variable with a fallback default
func getFloatEnv(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return f
}
