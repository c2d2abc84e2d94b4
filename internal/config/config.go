// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultAPIURL = "http://localhost:5000"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Blog REST API
	APIURL     string
	APIRoot    string
	APITimeout time.Duration // 0 means no client-side timeout

	// Valkey (Redis-compatible session store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Per-client throttling of form posts
	MutationRate  float64 // requests per second
	MutationBurst int

	// TrustProxy makes the rate limiter key clients by X-Forwarded-For and
	// X-Real-IP. Enable only behind a reverse proxy that sets them.
	TrustProxy bool
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if a value cannot be
// parsed, or if critical values are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		APIURL:  envOrDefault("BLOG_API_URL", defaultAPIURL),
		APIRoot: envOrDefault("BLOG_API_ROOT", "/api"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
	}

	var err error
	if cfg.APITimeout, err = time.ParseDuration(envOrDefault("BLOG_API_TIMEOUT", "0s")); err != nil {
		return nil, fmt.Errorf("BLOG_API_TIMEOUT: %w", err)
	}
	if cfg.APITimeout < 0 {
		return nil, fmt.Errorf("BLOG_API_TIMEOUT must not be negative")
	}

	if cfg.MutationRate, err = strconv.ParseFloat(envOrDefault("MUTATION_RATE", "5"), 64); err != nil {
		return nil, fmt.Errorf("MUTATION_RATE: %w", err)
	}
	if cfg.MutationRate <= 0 {
		return nil, fmt.Errorf("MUTATION_RATE must be positive")
	}
	if cfg.MutationBurst, err = strconv.Atoi(envOrDefault("MUTATION_BURST", "10")); err != nil {
		return nil, fmt.Errorf("MUTATION_BURST: %w", err)
	}
	if cfg.MutationBurst < 1 {
		return nil, fmt.Errorf("MUTATION_BURST must be at least 1")
	}

	if cfg.TrustProxy, err = strconv.ParseBool(envOrDefault("TRUST_PROXY", "false")); err != nil {
		return nil, fmt.Errorf("TRUST_PROXY: %w", err)
	}

	if cfg.Env == "production" {
		if os.Getenv("BLOG_API_URL") == "" {
			return nil, fmt.Errorf("BLOG_API_URL must be set in production")
		}
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
