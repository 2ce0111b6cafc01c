// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package auth

import "context"

// Subject is the request-scoped identity of an authenticated user. Handlers
// read it from the request context; nothing consults ambient global state.
type Subject struct {
	UserID   string
	Username string
	Email    string

	// SessionID is set when the request authenticated via the session
	// cookie; empty for bearer-token requests.
	SessionID string
}

type subjectContextKey struct{}

// ContextWithSubject returns a context carrying the authenticated subject.
func ContextWithSubject(ctx context.Context, subject *Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, subject)
}

// SubjectFromContext extracts the authenticated subject from the context.
// Returns nil, false if the request is unauthenticated.
func SubjectFromContext(ctx context.Context) (*Subject, bool) {
	subject, ok := ctx.Value(subjectContextKey{}).(*Subject)
	if !ok || subject == nil {
		return nil, false
	}
	return subject, true
}
