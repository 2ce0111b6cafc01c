// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

// Package metrics defines the Prometheus instrumentation for the storefront.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glowcart_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "glowcart_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// HTTPRequestsInFlight gauges currently executing requests.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "glowcart_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	// OrdersRecordedTotal counts orders recorded, labeled new or duplicate.
	OrdersRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glowcart_orders_recorded_total",
			Help: "Total order confirmation callbacks processed.",
		},
		[]string{"outcome"},
	)

	// ConfirmationEmailsTotal counts confirmation email deliveries by result.
	ConfirmationEmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glowcart_confirmation_emails_total",
			Help: "Total order confirmation email delivery attempts by final result.",
		},
		[]string{"result"},
	)

	// UpstreamRequestsTotal counts calls to external services by outcome.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glowcart_upstream_requests_total",
			Help: "Total requests to external services (payment, ai).",
		},
		[]string{"service", "outcome"},
	)
)

// Order recording outcomes.
const (
	OrderOutcomeCreated   = "created"
	OrderOutcomeDuplicate = "duplicate"
)

// Email delivery results.
const (
	EmailResultSent   = "sent"
	EmailResultFailed = "failed"
)
