// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package models

import "fmt"

// UpstreamError reports a failed call to an external service (payment
// provider or AI backend). The HTTP layer maps it to 502 so upstream faults
// are never presented as client errors.
type UpstreamError struct {
	// Service names the upstream ("payment", "ai").
	Service string

	// StatusCode is the upstream HTTP status, or 0 for transport failures.
	StatusCode int

	// Message is a short operator-facing description. It must not contain
	// upstream response bodies, which may carry sensitive detail.
	Message string

	// Err is the underlying error, if any.
	Err error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s upstream error (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s upstream error: %s", e.Service, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
