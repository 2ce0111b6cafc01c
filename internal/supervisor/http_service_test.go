// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// fakeHTTPServer blocks in ListenAndServe until Shutdown or a forced error.
type fakeHTTPServer struct {
	startErr  error
	stopped   chan struct{}
	shutdowns int
}

func newFakeHTTPServer() *fakeHTTPServer {
	return &fakeHTTPServer{stopped: make(chan struct{})}
}

func (f *fakeHTTPServer) ListenAndServe() error {
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stopped
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(ctx context.Context) error {
	f.shutdowns++
	close(f.stopped)
	return nil
}

func TestHTTPServiceStartErrorPropagates(t *testing.T) {
	t.Parallel()

	server := newFakeHTTPServer()
	server.startErr = errors.New("bind: address already in use")

	service := NewHTTPServerService(server, time.Second)

	err := service.Serve(context.Background())
	if err == nil || !errors.Is(err, server.startErr) {
		t.Errorf("Serve() error = %v, want wrapped start error", err)
	}
}

func TestHTTPServiceShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	server := newFakeHTTPServer()
	service := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- service.Serve(ctx) }()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop after cancel")
	}

	if server.shutdowns != 1 {
		t.Errorf("shutdowns = %d, want 1", server.shutdowns)
	}
}

func TestHTTPServiceString(t *testing.T) {
	t.Parallel()

	if got := NewHTTPServerService(newFakeHTTPServer(), 0).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}
