// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables and optional .env files. It provides a centralized Config struct
// used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const (
	defaultDBPassword    = "changeme"
	defaultAdminPassword = "changeme-admin"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// StorageDriver selects the content repository: "postgres" or "memory".
	StorageDriver string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache). Empty host disables Valkey.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// SiteID is the site seeded in development.
	SiteID string

	// Admin account created on first start.
	AdminEmail    string
	AdminPassword string

	// PublicCacheTTL bounds how long public responses stay cached.
	PublicCacheTTL time.Duration

	// SecureCookies marks session and CSRF cookies Secure.
	SecureCookies bool

	// LoginRateLimit is the number of login attempts allowed per IP per minute.
	LoginRateLimit int

	// TrustProxy takes client addresses from forwarding headers.
	TrustProxy bool
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Variables from the given .env files
// (".env" when none are named) fill in anything the environment does not
// set; a missing file is not an error. Returns an error if critical values
// are missing in production mode.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		StorageDriver: envOrDefault("STORAGE_DRIVER", DriverPostgres),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "sitecms"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", defaultDBPassword),
		DBName:     envOrDefault("POSTGRES_DB", "sitecms"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		SiteID: envOrDefault("SITE_ID", "main"),

		AdminEmail:    envOrDefault("ADMIN_EMAIL", "admin@sitecms.local"),
		AdminPassword: envOrDefault("ADMIN_PASSWORD", defaultAdminPassword),
	}

	var err error
	if cfg.ValkeyDB, err = intEnv("VALKEY_DB", 0); err != nil {
		return nil, err
	}
	if cfg.LoginRateLimit, err = intEnv("LOGIN_RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.PublicCacheTTL, err = durationEnv("PUBLIC_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SecureCookies, err = boolEnv("COOKIE_SECURE", cfg.Env == "production"); err != nil {
		return nil, err
	}
	if cfg.TrustProxy, err = boolEnv("TRUST_PROXY", false); err != nil {
		return nil, err
	}

	if cfg.StorageDriver != DriverPostgres && cfg.StorageDriver != DriverMemory {
		return nil, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, cfg.StorageDriver)
	}

	if cfg.Env == "production" {
		if cfg.StorageDriver == DriverPostgres && cfg.DBPassword == defaultDBPassword {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.AdminPassword == defaultAdminPassword {
			return nil, fmt.Errorf("ADMIN_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UsesPostgres reports whether content is stored in PostgreSQL.
func (c *Config) UsesPostgres() bool {
	return c.StorageDriver == DriverPostgres
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
