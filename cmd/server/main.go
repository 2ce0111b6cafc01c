// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

// Package main is the entry point for the Glowcart server.
//
// Glowcart is a skincare storefront: account registration and login, a
// paginated searchable product catalog, AI-backed product recommendations,
// and a hosted-checkout purchase flow with emailed order confirmations. It
// serves two front ends from one process: server-rendered pages at the root
// and a JSON API under /api/v1.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, YAML file, environment (Koanf v2)
//  2. Database: DuckDB with the users, products, and orders tables
//  3. Sessions: in-memory or BadgerDB-persistent session store
//  4. Services: auth gate, recommendation gateway, checkout orchestrator
//  5. Outbox: in-process pub/sub feeding the confirmation email worker
//  6. HTTP server and worker, both under a suture supervision tree
//
// # Configuration
//
// Required settings (environment variables):
//   - SESSION_SECRET: 32+ character secret for signing API tokens
//   - STRIPE_SECRET_KEY: payment provider API key
//   - OPENAI_API_KEY: inference service API key
//   - MAIL_USERNAME / MAIL_PASSWORD: SMTP relay credentials
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops accepting
// connections, waits up to 10s for in-flight requests, then stops the worker
// and closes the stores.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/glowskin/glowcart/internal/ai"
	"github.com/glowskin/glowcart/internal/api"
	"github.com/glowskin/glowcart/internal/auth"
	"github.com/glowskin/glowcart/internal/checkout"
	"github.com/glowskin/glowcart/internal/config"
	"github.com/glowskin/glowcart/internal/database"
	"github.com/glowskin/glowcart/internal/logging"
	"github.com/glowskin/glowcart/internal/notifier"
	"github.com/glowskin/glowcart/internal/payment"
	"github.com/glowskin/glowcart/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Str("session_store", cfg.Security.SessionStore).
		Msg("Starting Glowcart")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	sessions, err := auth.NewSessionStore(cfg.Security.SessionStore, cfg.Security.SessionStorePath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()

	cleanupDone := auth.StartCleanupRoutine(sessions, cfg.Security.SessionTimeout)
	defer close(cleanupDone)

	jwtManager := auth.NewJWTManager(cfg.Security.SessionSecret, cfg.Security.SessionTimeout)
	gate := auth.NewGate(db, sessions, jwtManager, cfg.Security.SessionTimeout)
	authMW := auth.NewMiddleware(sessions, jwtManager,
		cfg.Security.CookieName, cfg.Security.CookieSecure, cfg.Security.SessionTimeout)

	recommender := ai.NewGateway(ai.NewClient(cfg.AI))

	outbox := notifier.NewOutbox()
	defer func() {
		if err := outbox.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing outbox")
		}
	}()

	orders := checkout.New(db, payment.NewClient(cfg.Payment), outbox, cfg.Server.ExternalURL)
	worker := notifier.NewWorker(outbox, notifier.NewSMTPMailer(cfg.Mail), cfg.Notifier)

	server, err := api.NewServer(cfg, db, gate, authMW, recommender, orders)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build HTTP server")
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{})
	tree.AddWebService(supervisor.NewHTTPServerService(httpServer, 0))
	tree.AddWorkerService(worker)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("Glowcart listening")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("Supervisor tree exited with error")
	}

	logging.Info().Msg("Glowcart stopped")
}
