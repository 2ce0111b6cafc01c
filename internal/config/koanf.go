// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/glowcart/config.yaml",
	"/etc/glowcart/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all sensible defaults. Defaults are
// applied first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8460,
			Timeout:     30 * time.Second,
			ExternalURL: "http://localhost:8460",
		},
		Database: DatabaseConfig{
			Path:        "/data/glowcart.duckdb",
			MaxMemory:   "512MB",
			Threads:     0, // 0 = use runtime.NumCPU()
			SeedCatalog: true,
		},
		Security: SecurityConfig{
			SessionSecret:     "",
			SessionTimeout:    24 * time.Hour,
			SessionStore:      "memory",
			SessionStorePath:  "/data/sessions",
			CookieName:        "glowcart_session",
			CookieSecure:      true,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			LoginRateLimit:    10,
			CORSOrigins:       []string{},
		},
		Catalog: CatalogConfig{
			PageSize: 5,
		},
		Mail: MailConfig{
			Host:     "smtp.gmail.com",
			Port:     587,
			Username: "",
			Password: "",
			From:     "",
			FromName: "Glowcart",
			UseTLS:   true,
		},
		Payment: PaymentConfig{
			SecretKey: "",
			BaseURL:   "https://api.stripe.com",
			Currency:  "usd",
			Timeout:   30 * time.Second,
		},
		AI: AIConfig{
			APIKey:  "",
			BaseURL: "https://api.openai.com",
			Model:   "gpt-4o-mini",
			Timeout: 60 * time.Second,
		},
		Notifier: NotifierConfig{
			MaxRetries: 5,
			RetryDelay: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds configuration using Koanf v2 with layered sources:
//
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file (if present)
//  3. Environment variables: override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Comma-separated env strings become slices for known slice fields
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as comma-separated slices.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars arrive as strings but the config wants slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
//
// Examples:
//   - SESSION_SECRET       -> security.session_secret
//   - STRIPE_SECRET_KEY    -> payment.secret_key
//   - OPENAI_API_KEY       -> ai.api_key
//   - MAIL_USERNAME        -> mail.username
//   - HTTP_PORT            -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",
		"external_url": "server.external_url",

		// Database
		"duckdb_path":       "database.path",
		"duckdb_max_memory": "database.max_memory",
		"duckdb_threads":    "database.threads",
		"seed_catalog":      "database.seed_catalog",

		// Security
		"session_secret":      "security.session_secret",
		"session_timeout":     "security.session_timeout",
		"session_store":       "security.session_store",
		"session_store_path":  "security.session_store_path",
		"cookie_name":         "security.cookie_name",
		"cookie_secure":       "security.cookie_secure",
		"rate_limit_reqs":     "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"rate_limit_disabled": "security.rate_limit_disabled",
		"login_rate_limit":    "security.login_rate_limit",
		"cors_origins":        "security.cors_origins",

		// Catalog
		"catalog_page_size": "catalog.page_size",

		// Mail relay
		"mail_server":    "mail.host",
		"mail_port":      "mail.port",
		"mail_username":  "mail.username",
		"mail_password":  "mail.password",
		"mail_from":      "mail.from",
		"mail_from_name": "mail.from_name",
		"mail_use_tls":   "mail.use_tls",

		// Payment provider
		"stripe_secret_key": "payment.secret_key",
		"payment_base_url":  "payment.base_url",
		"payment_currency":  "payment.currency",
		"payment_timeout":   "payment.timeout",

		// Inference service
		"openai_api_key": "ai.api_key",
		"ai_base_url":    "ai.base_url",
		"ai_model":       "ai.model",
		"ai_timeout":     "ai.timeout",

		// Notifier
		"notifier_max_retries": "notifier.max_retries",
		"notifier_retry_delay": "notifier.retry_delay",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unknown variables are ignored rather than guessed at, so unrelated
	// environment noise cannot clobber nested config keys.
	return ""
}
