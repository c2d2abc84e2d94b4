// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"strings"
	"testing"
	"time"
)

// allEnvVars lists every variable Load reads.
var allEnvVars = []string{
	"APP_HOST", "APP_PORT", "APP_ENV",
	"BLOG_API_URL", "BLOG_API_ROOT", "BLOG_API_TIMEOUT",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	"MUTATION_RATE", "MUTATION_BURST", "TRUST_PROXY",
}

// clearEnv sets every variable to "" which envOrDefault treats as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	defaults := map[string]string{
		"Host":       "0.0.0.0",
		"Port":       "8080",
		"Env":        "development",
		"APIURL":     "http://localhost:5000",
		"APIRoot":    "/api",
		"ValkeyHost": "localhost",
		"ValkeyPort": "6379",
	}
	got := map[string]string{
		"Host":       cfg.Host,
		"Port":       cfg.Port,
		"Env":        cfg.Env,
		"APIURL":     cfg.APIURL,
		"APIRoot":    cfg.APIRoot,
		"ValkeyHost": cfg.ValkeyHost,
		"ValkeyPort": cfg.ValkeyPort,
	}
	for field, want := range defaults {
		if got[field] != want {
			t.Errorf("%s: got %q, want %q", field, got[field], want)
		}
	}

	if cfg.APITimeout != 0 {
		t.Errorf("APITimeout: got %v, want 0", cfg.APITimeout)
	}
	if cfg.MutationRate != 5 || cfg.MutationBurst != 10 {
		t.Errorf("mutation limits: got %v/%d, want 5/10", cfg.MutationRate, cfg.MutationBurst)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() should be true by default")
	}
	if cfg.TrustProxy {
		t.Error("TrustProxy should be off by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("BLOG_API_URL", "https://api.example.com")
	t.Setenv("BLOG_API_ROOT", "/v2")
	t.Setenv("BLOG_API_TIMEOUT", "15s")
	t.Setenv("MUTATION_RATE", "0.5")
	t.Setenv("MUTATION_BURST", "2")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr: got %q", cfg.Addr())
	}
	if cfg.APIURL != "https://api.example.com" || cfg.APIRoot != "/v2" {
		t.Errorf("API: got %q %q", cfg.APIURL, cfg.APIRoot)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Errorf("APITimeout: got %v", cfg.APITimeout)
	}
	if cfg.MutationRate != 0.5 || cfg.MutationBurst != 2 {
		t.Errorf("mutation limits: got %v/%d", cfg.MutationRate, cfg.MutationBurst)
	}
	if !cfg.TrustProxy {
		t.Error("TrustProxy: got false, want true")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"BLOG_API_TIMEOUT", "soon", "BLOG_API_TIMEOUT"},
		{"BLOG_API_TIMEOUT", "-1s", "BLOG_API_TIMEOUT"},
		{"MUTATION_RATE", "fast", "MUTATION_RATE"},
		{"MUTATION_RATE", "0", "MUTATION_RATE"},
		{"MUTATION_BURST", "1.5", "MUTATION_BURST"},
		{"MUTATION_BURST", "0", "MUTATION_BURST"},
		{"TRUST_PROXY", "maybe", "TRUST_PROXY"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %s", err, tt.wantErr)
			}
		})
	}
}

// TestLoad_ProductionRequiresAPIURL verifies that production refuses to fall
// back to the development API address.
func TestLoad_ProductionRequiresAPIURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when BLOG_API_URL is unset in production")
	}

	t.Setenv("BLOG_API_URL", "https://api.example.com")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IsDev() {
		t.Error("IsDev() should be false in production")
	}
}
