// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment
// variables.
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
}

// MinJWTSecretLength is the minimum required length for the token
// signing secret.
const MinJWTSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"WICKED_DB_PATH" envDefault:"./data/wicked.db"`
	JWTSecret  string `env:"WICKED_JWT_SECRET,required"`
	ServerHost string `env:"WICKED_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"WICKED_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"WICKED_ENV" envDefault:"development"`
	LogLevel   string `env:"WICKED_LOG_LEVEL" envDefault:"info"`
	UploadsDir string `env:"WICKED_UPLOADS_DIR" envDefault:"./uploads"`

	// Token lifetimes
	TokenTTL   time.Duration `env:"WICKED_TOKEN_TTL" envDefault:"168h"`
	RefreshTTL time.Duration `env:"WICKED_REFRESH_TTL" envDefault:"720h"`

	// Rate limiting
	RateLimitRPS   float64 `env:"WICKED_RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"WICKED_RATE_LIMIT_BURST" envDefault:"40"`

	// Seeding configuration
	SeedOwnerUsername string `env:"WICKED_SEED_OWNER_USERNAME" envDefault:"owner"`
	SeedOwnerEmail    string `env:"WICKED_SEED_OWNER_EMAIL" envDefault:"owner@localhost"`
	SeedOwnerPassword string `env:"WICKED_SEED_OWNER_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("WICKED_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(cfg.JWTSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.JWTSecret == weak {
			return nil, fmt.Errorf("WICKED_JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("WICKED_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
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
