// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

// Package config loads and validates Glowcart configuration.
//
// Configuration is layered via Koanf v2 (highest priority wins):
//
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables (SESSION_SECRET, STRIPE_SECRET_KEY, ...)
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for the storefront service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Mail     MailConfig     `koanf:"mail"`
	Payment  PaymentConfig  `koanf:"payment"`
	AI       AIConfig       `koanf:"ai"`
	Notifier NotifierConfig `koanf:"notifier"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// ExternalURL is the public base URL used to build the payment
	// provider's success and cancel redirects.
	ExternalURL string `koanf:"external_url"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file path, or ":memory:" for an in-memory store.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`

	// SeedCatalog inserts the fixed demo catalog at startup when the
	// products table is empty.
	SeedCatalog bool `koanf:"seed_catalog"`
}

// SecurityConfig holds authentication and rate limiting settings.
type SecurityConfig struct {
	// SessionSecret signs API bearer tokens (HS256). Minimum 32 characters.
	SessionSecret  string        `koanf:"session_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// SessionStore selects the session backend: "memory" or "badger".
	SessionStore     string `koanf:"session_store"`
	SessionStorePath string `koanf:"session_store_path"`

	// CookieName is the session cookie name for the page front end.
	CookieName   string `koanf:"cookie_name"`
	CookieSecure bool   `koanf:"cookie_secure"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	LoginRateLimit    int           `koanf:"login_rate_limit"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// CatalogConfig holds catalog query settings.
type CatalogConfig struct {
	PageSize int `koanf:"page_size"`
}

// MailConfig holds SMTP relay settings for order confirmations.
type MailConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
	FromName string `koanf:"from_name"`
	UseTLS   bool   `koanf:"use_tls"`
}

// PaymentConfig holds hosted-checkout provider settings.
type PaymentConfig struct {
	// SecretKey authenticates server-to-server session creation.
	SecretKey string `koanf:"secret_key"`

	// BaseURL is the provider API base; overridable for tests.
	BaseURL  string        `koanf:"base_url"`
	Currency string        `koanf:"currency"`
	Timeout  time.Duration `koanf:"timeout"`
}

// AIConfig holds inference service settings for recommendations.
type AIConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
}

// NotifierConfig holds outbox worker settings.
type NotifierConfig struct {
	// MaxRetries bounds delivery attempts per confirmation email.
	MaxRetries int           `koanf:"max_retries"`
	RetryDelay time.Duration `koanf:"retry_delay"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for fatal misconfiguration.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if len(c.Security.SessionSecret) < 32 {
		return fmt.Errorf("security.session_secret must be at least 32 characters")
	}
	switch c.Security.SessionStore {
	case "memory", "badger":
	default:
		return fmt.Errorf("security.session_store must be 'memory' or 'badger', got %q", c.Security.SessionStore)
	}
	if c.Security.SessionStore == "badger" && c.Security.SessionStorePath == "" {
		return fmt.Errorf("security.session_store_path is required for the badger session store")
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("catalog.page_size must be positive, got %d", c.Catalog.PageSize)
	}
	if c.Payment.Currency == "" {
		return fmt.Errorf("payment.currency is required")
	}
	if c.Server.ExternalURL != "" && !strings.HasPrefix(c.Server.ExternalURL, "http") {
		return fmt.Errorf("server.external_url must be an http(s) URL, got %q", c.Server.ExternalURL)
	}
	return nil
}
