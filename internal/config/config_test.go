// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.SessionSecret = "test-secret-key-minimum-32-chars!!"
	cfg.Database.Path = ":memory:"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "short session secret",
			mutate:  func(c *Config) { c.Security.SessionSecret = "too-short" },
			wantErr: "session_secret",
		},
		{
			name:    "unknown session store",
			mutate:  func(c *Config) { c.Security.SessionStore = "redis" },
			wantErr: "session_store",
		},
		{
			name: "badger store without path",
			mutate: func(c *Config) {
				c.Security.SessionStore = "badger"
				c.Security.SessionStorePath = ""
			},
			wantErr: "session_store_path",
		},
		{
			name: "badger store with path",
			mutate: func(c *Config) {
				c.Security.SessionStore = "badger"
				c.Security.SessionStorePath = "/data/sessions"
			},
		},
		{
			name:    "zero page size",
			mutate:  func(c *Config) { c.Catalog.PageSize = 0 },
			wantErr: "page_size",
		},
		{
			name:    "missing currency",
			mutate:  func(c *Config) { c.Payment.Currency = "" },
			wantErr: "currency",
		},
		{
			name:    "non-http external url",
			mutate:  func(c *Config) { c.Server.ExternalURL = "ftp://shop.example.com" },
			wantErr: "external_url",
		},
		{
			name:   "empty external url is allowed",
			mutate: func(c *Config) { c.Server.ExternalURL = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"SESSION_SECRET", "security.session_secret"},
		{"STRIPE_SECRET_KEY", "payment.secret_key"},
		{"OPENAI_API_KEY", "ai.api_key"},
		{"MAIL_USERNAME", "mail.username"},
		{"MAIL_SERVER", "mail.host"},
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"CATALOG_PAGE_SIZE", "catalog.page_size"},
		{"NOTIFIER_MAX_RETRIES", "notifier.max_retries"},
		{"LOG_LEVEL", "logging.level"},
		// Unrelated environment noise must not map to any config path.
		{"PATH", ""},
		{"HOME", ""},
		{"LANG", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestDefaultConfigIsSeedingAndPaged(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if !cfg.Database.SeedCatalog {
		t.Error("defaults should seed the demo catalog")
	}
	if cfg.Catalog.PageSize != 5 {
		t.Errorf("default page size = %d, want 5", cfg.Catalog.PageSize)
	}
	if cfg.Security.SessionStore != "memory" {
		t.Errorf("default session store = %q, want memory", cfg.Security.SessionStore)
	}
}

func TestServerAddr(t *testing.T) {
	t.Parallel()

	cfg := ServerConfig{Host: "127.0.0.1", Port: 8460}
	if got := cfg.Addr(); got != "127.0.0.1:8460" {
		t.Errorf("Addr() = %q", got)
	}
}
