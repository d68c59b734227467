// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the site configuration from AGENCY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Store and blob backend identifiers.
const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"

	BlobLocal = "local"
	BlobGCS   = "gcs"
)

// knownWeakSecrets contains example secrets that are always rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// Document store
	StoreBackend          string `env:"AGENCY_STORE_BACKEND" envDefault:"sqlite"`
	DBPath                string `env:"AGENCY_DB_PATH" envDefault:"./data/agency.db"`
	FirestoreProject      string `env:"AGENCY_FIRESTORE_PROJECT"`
	FirestoreEmulatorHost string `env:"FIRESTORE_EMULATOR_HOST"`

	SessionSecret string `env:"AGENCY_SESSION_SECRET,required"`
	ServerHost    string `env:"AGENCY_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"AGENCY_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"AGENCY_ENV" envDefault:"development"`
	LogLevel      string `env:"AGENCY_LOG_LEVEL" envDefault:"info"`

	SiteURL  string `env:"AGENCY_SITE_URL" envDefault:"http://localhost:8080"`
	SiteName string `env:"AGENCY_SITE_NAME" envDefault:"Brightpixel Studio"`

	// Blob storage for uploaded media
	BlobBackend string `env:"AGENCY_BLOB_BACKEND" envDefault:"local"`
	UploadsDir  string `env:"AGENCY_UPLOADS_DIR" envDefault:"./uploads"`
	BlobBucket  string `env:"AGENCY_BLOB_BUCKET"`
	BlobToken   string `env:"AGENCY_BLOB_TOKEN"` // service account JSON, empty uses ADC
	MaxUploadMB int    `env:"AGENCY_MAX_UPLOAD_MB" envDefault:"10"`

	// Stock image search (Unsplash)
	ImageSearchKey string `env:"AGENCY_IMAGE_SEARCH_KEY"`
	ImageSearchURL string `env:"AGENCY_IMAGE_SEARCH_URL" envDefault:"https://api.unsplash.com"`

	// Render cache
	RedisURL       string `env:"AGENCY_REDIS_URL"`
	CachePrefix    string `env:"AGENCY_CACHE_PREFIX" envDefault:"agency:"`
	RenderCacheTTL int    `env:"AGENCY_RENDER_CACHE_TTL" envDefault:"300"` // seconds, 0 disables
	CacheMaxSize   int    `env:"AGENCY_CACHE_MAX_SIZE" envDefault:"10000"`

	// Seeding
	DoSeed        bool   `env:"AGENCY_DO_SEED" envDefault:"false"`
	AdminEmail    string `env:"AGENCY_ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string `env:"AGENCY_ADMIN_PASSWORD"`
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

// UseFirestore reports whether documents live in Firestore instead of SQLite.
func (c Config) UseFirestore() bool {
	return c.StoreBackend == BackendFirestore
}

// UseGCS reports whether uploads go to a Cloud Storage bucket.
func (c Config) UseGCS() bool {
	return c.BlobBackend == BlobGCS
}

// ImageSearchEnabled returns true if a stock image search key is configured.
func (c Config) ImageSearchEnabled() bool {
	return c.ImageSearchKey != ""
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(c.MaxUploadMB) << 20
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("AGENCY_SESSION_SECRET has low character diversity; "+
			"consider generating a random secret with: openssl rand -base64 32",
			"category", "config")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("AGENCY_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("AGENCY_SESSION_SECRET is a known default value and must not be used")
		}
	}

	switch c.StoreBackend {
	case BackendSQLite:
	case BackendFirestore:
		if c.FirestoreProject == "" {
			return errors.New("AGENCY_FIRESTORE_PROJECT is required when AGENCY_STORE_BACKEND=firestore")
		}
	default:
		return fmt.Errorf("AGENCY_STORE_BACKEND must be %q or %q, got %q", BackendSQLite, BackendFirestore, c.StoreBackend)
	}

	switch c.BlobBackend {
	case BlobLocal:
	case BlobGCS:
		if c.BlobBucket == "" {
			return errors.New("AGENCY_BLOB_BUCKET is required when AGENCY_BLOB_BACKEND=gcs")
		}
	default:
		return fmt.Errorf("AGENCY_BLOB_BACKEND must be %q or %q, got %q", BlobLocal, BlobGCS, c.BlobBackend)
	}

	if c.RenderCacheTTL < 0 {
		return errors.New("AGENCY_RENDER_CACHE_TTL must not be negative")
	}
	return nil
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
