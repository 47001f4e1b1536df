// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"shopnav-development-secret-change",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string        `env:"SHOPNAV_DB_PATH" envDefault:"./data/shopnav.db"`
	JWTSecret  string        `env:"SHOPNAV_JWT_SECRET,required"`
	TokenTTL   time.Duration `env:"SHOPNAV_TOKEN_TTL" envDefault:"12h"`
	ServerHost string        `env:"SHOPNAV_SERVER_HOST" envDefault:"localhost"`
	ServerPort int           `env:"SHOPNAV_SERVER_PORT" envDefault:"8080"`
	Env        string        `env:"SHOPNAV_ENV" envDefault:"development"`
	LogLevel   string        `env:"SHOPNAV_LOG_LEVEL" envDefault:"info"`

	// RequestTimeout bounds every HTTP request.
	RequestTimeout time.Duration `env:"SHOPNAV_REQUEST_TIMEOUT" envDefault:"30s"`

	// CORS origins allowed to call the admin API.
	CORSOrigins []string `env:"SHOPNAV_CORS_ORIGINS" envSeparator:","`

	// Cache configuration
	RedisURL     string `env:"SHOPNAV_REDIS_URL"`                          // Optional Redis URL for distributed caching
	CachePrefix  string `env:"SHOPNAV_CACHE_PREFIX" envDefault:"shopnav:"` // Redis key prefix
	CacheTTL     int    `env:"SHOPNAV_CACHE_TTL" envDefault:"3600"`        // Navigation cache TTL in seconds
	CacheMaxSize int    `env:"SHOPNAV_CACHE_MAX_SIZE" envDefault:"10000"`  // Max memory cache entries

	// Product catalog; empty disables product verification and summaries.
	CatalogURL     string        `env:"SHOPNAV_CATALOG_URL"`
	CatalogTimeout time.Duration `env:"SHOPNAV_CATALOG_TIMEOUT" envDefault:"5s"`

	// Mutation rate limit per client IP.
	RateLimitRPS   float64 `env:"SHOPNAV_RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"SHOPNAV_RATE_LIMIT_BURST" envDefault:"20"`

	// Event log retention and maintenance schedules.
	EventRetentionDays int    `env:"SHOPNAV_EVENT_RETENTION_DAYS" envDefault:"30"`
	PruneSchedule      string `env:"SHOPNAV_PRUNE_SCHEDULE" envDefault:"0 3 * * *"`
	WarmSchedule       string `env:"SHOPNAV_WARM_SCHEDULE" envDefault:"*/15 * * * *"`

	// Seeding configuration
	DoSeed bool `env:"SHOPNAV_DO_SEED" envDefault:"false"` // Seed the default navigation when empty
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

// CatalogEnabled returns true if a product catalog is configured.
func (c Config) CatalogEnabled() bool {
	return c.CatalogURL != ""
}

// EventRetention returns the event retention as a duration.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
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

// MinJWTSecretLength is the minimum required length for the token secret.
// HS256 keys should be at least as long as the hash output.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("SHOPNAV_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(cfg.JWTSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.JWTSecret == weak {
			return nil, fmt.Errorf("SHOPNAV_JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if cfg.EventRetentionDays < 1 {
		return nil, fmt.Errorf("SHOPNAV_EVENT_RETENTION_DAYS must be positive, got %d", cfg.EventRetentionDays)
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst < 1 {
		return nil, fmt.Errorf("rate limit must be positive, got %g rps burst %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	if !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("SHOPNAV_JWT_SECRET has low character diversity; "+
			"consider generating a random secret with: openssl rand -base64 32", "category", "config")
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
