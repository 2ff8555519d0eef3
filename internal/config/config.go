// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"super-secret-key",
	"change-me-to-32-byte-secret-key!",
}

// Config holds the application configuration loaded once at process start.
// It is immutable after Load and injected into each component at construction.
type Config struct {
	DBPath     string `env:"BLOGAPI_DB_PATH" envDefault:"./data/blog.db"`
	ServerHost string `env:"BLOGAPI_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"BLOGAPI_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"BLOGAPI_ENV" envDefault:"development"`
	LogLevel   string `env:"BLOGAPI_LOG_LEVEL" envDefault:"info"`

	// Token signing
	SecretKey              string `env:"BLOGAPI_SECRET_KEY,required"`
	Algorithm              string `env:"BLOGAPI_ALGORITHM" envDefault:"HS256"`
	AccessTokenExpireMins  int    `env:"BLOGAPI_ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`

	// Password hashing cost (bcrypt)
	BcryptCost int `env:"BLOGAPI_BCRYPT_COST" envDefault:"10"`

	// Database connection pool
	MaxConnections int `env:"BLOGAPI_MAX_CONNECTIONS" envDefault:"20"`
	MinConnections int `env:"BLOGAPI_MIN_CONNECTIONS" envDefault:"1"`

	// Pagination
	PostsPerPage int `env:"BLOGAPI_POSTS_PER_PAGE" envDefault:"10"`

	// CORS
	CORSOrigins []string `env:"BLOGAPI_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Seeding
	DoSeed bool `env:"BLOGAPI_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MinSecretKeyLength is the minimum required length for the signing secret.
// HMAC-SHA256 keys shorter than the block size weaken the signature.
const MinSecretKeyLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SecretKey) < MinSecretKeyLength {
		return nil, fmt.Errorf("BLOGAPI_SECRET_KEY must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSecretKeyLength, len(cfg.SecretKey))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SecretKey == weak {
			return nil, fmt.Errorf("BLOGAPI_SECRET_KEY is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if cfg.Algorithm != "HS256" && cfg.Algorithm != "HS384" && cfg.Algorithm != "HS512" {
		return nil, fmt.Errorf("BLOGAPI_ALGORITHM must be an HMAC algorithm (HS256, HS384 or HS512), got %q", cfg.Algorithm)
	}

	if !hasMinimumEntropy(cfg.SecretKey) {
		slog.Warn("BLOGAPI_SECRET_KEY has low character diversity; " +
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
