// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads server and client settings from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the server configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"PARISH_DB_PATH" envDefault:"./data/parish.db"`
	JWTSecret  string `env:"PARISH_JWT_SECRET,required"`
	ServerHost string `env:"PARISH_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"PARISH_SERVER_PORT" envDefault:"5000"`
	Env        string `env:"PARISH_ENV" envDefault:"development"`
	LogLevel   string `env:"PARISH_LOG_LEVEL" envDefault:"info"`
	UploadsDir string `env:"PARISH_UPLOADS_DIR" envDefault:"./uploads"`

	// Origins of the public site and admin panel allowed to call the API
	CORSOrigins []string `env:"PARISH_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Bearer token lifetime for admin logins
	TokenTTL time.Duration `env:"PARISH_TOKEN_TTL" envDefault:"24h"`

	// Cache configuration
	RedisURL    string `env:"PARISH_REDIS_URL"`                          // Optional, memory cache when empty
	CachePrefix string `env:"PARISH_CACHE_PREFIX" envDefault:"parish:"` // Redis key prefix
	CacheTTL    int    `env:"PARISH_CACHE_TTL" envDefault:"300"`         // Seconds

	// Initial admin account, created on first start when no admin exists
	AdminEmail    string `env:"PARISH_ADMIN_EMAIL"`
	AdminPassword string `env:"PARISH_ADMIN_PASSWORD"`

	// AllowRegistration keeps POST /admin/register open after the first admin exists.
	AllowRegistration bool `env:"PARISH_ALLOW_REGISTRATION" envDefault:"false"`

	// Readings older than this many days are pruned daily (0 disables).
	ReadingsRetentionDays int `env:"PARISH_READINGS_RETENTION_DAYS" envDefault:"90"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// SeedAdminConfigured returns true if both seed admin credentials are set.
func (c Config) SeedAdminConfigured() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// SlogLevel maps the configured log level name to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinJWTSecretLength is the minimum required length for the token signing secret.
// HS256 keys shorter than the hash output weaken the signature.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("PARISH_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(cfg.JWTSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.JWTSecret == weak {
			return nil, fmt.Errorf("PARISH_JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("PARISH_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("PARISH_TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}

	return cfg, nil
}

// ClientConfig holds settings for the admin command-line client.
type ClientConfig struct {
	APIURL    string        `env:"PARISH_API_URL" envDefault:"http://localhost:5000/api"`
	TokenFile string        `env:"PARISH_TOKEN_FILE"`
	Timeout   time.Duration `env:"PARISH_CLIENT_TIMEOUT" envDefault:"15s"`
}

// LoadClient parses client environment variables. When no token file is
// configured the token lives under the user's config directory.
func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing client config: %w", err)
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("PARISH_API_URL must not be empty")
	}

	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locating config directory: %w", err)
		}
		cfg.TokenFile = filepath.Join(dir, "parish", "admin-token")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
