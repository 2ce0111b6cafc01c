// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

// Package supervisor runs the storefront's long-lived services under a
// suture supervision tree so a crashed component restarts with backoff
// instead of taking the process down.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay in seconds.
	FailureDecay float64

	// FailureBackoff is the duration to wait when the threshold is exceeded.
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout time.Duration
}

// Tree is the two-layer supervision tree: the HTTP front end and the
// background workers restart independently, so a flapping mail relay never
// interrupts request serving.
type Tree struct {
	root    *suture.Supervisor
	web     *suture.Supervisor
	workers *suture.Supervisor
}

// NewTree creates the supervision tree. The slog logger receives suture's
// lifecycle events; bridge it from zerolog with logging.NewSlogLogger.
func NewTree(logger *slog.Logger, config TreeConfig) *Tree {
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5.0
	}
	if config.FailureDecay == 0 {
		config.FailureDecay = 30.0
	}
	if config.FailureBackoff == 0 {
		config.FailureBackoff = 15 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	// (&Handler{Logger: logger}).MustHook() is the sutureslog API;
	// MustHook has a pointer receiver.
	eventHook := (&sutureslog.Handler{Logger: logger}).MustHook()

	rootSpec := suture.Spec{
		EventHook:        eventHook,
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}
	childSpec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	root := suture.New("glowcart", rootSpec)
	web := suture.New("web-layer", childSpec)
	workers := suture.New("worker-layer", childSpec)

	root.Add(web)
	root.Add(workers)

	return &Tree{root: root, web: web, workers: workers}
}

// AddWebService adds a service to the web layer (the HTTP server).
func (t *Tree) AddWebService(svc suture.Service) suture.ServiceToken {
	return t.web.Add(svc)
}

// AddWorkerService adds a service to the worker layer (outbox drain).
func (t *Tree) AddWorkerService(svc suture.Service) suture.ServiceToken {
	return t.workers.Add(svc)
}

// Serve starts the tree and blocks until the context is canceled.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}
