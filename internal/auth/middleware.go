// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/glowskin/glowcart/internal/logging"
)

// Middleware authenticates incoming requests and places the resolved Subject
// in the request context. It accepts either the session cookie (browser
// clients) or an Authorization bearer token (API clients).
type Middleware struct {
	sessions     SessionStore
	jwt          *JWTManager
	cookieName   string
	cookieSecure bool
	sessionTTL   time.Duration
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(sessions SessionStore, jwt *JWTManager, cookieName string, cookieSecure bool, sessionTTL time.Duration) *Middleware {
	return &Middleware{
		sessions:     sessions,
		jwt:          jwt,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		sessionTTL:   sessionTTL,
	}
}

// Authenticate resolves the request's identity if credentials are present and
// continues either way. Use RequireAuth or RequirePage to actually gate
// access.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if subject := m.resolve(r); subject != nil {
			r = r.WithContext(ContextWithSubject(r.Context(), subject))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects unauthenticated requests with a 401 JSON error. Mount
// after Authenticate on API routes that need an identity.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SubjectFromContext(r.Context()); !ok {
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePage redirects unauthenticated browser requests to the login page.
func (m *Middleware) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SubjectFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// resolve tries the session cookie first, then the Authorization header.
func (m *Middleware) resolve(r *http.Request) *Subject {
	if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		session, err := m.sessions.Get(r.Context(), cookie.Value)
		if err == nil {
			return &Subject{
				UserID:    session.UserID,
				Username:  session.Username,
				Email:     session.Email,
				SessionID: session.ID,
			}
		}
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Session cookie rejected")
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		claims, err := m.jwt.Validate(token)
		if err == nil {
			return &Subject{
				UserID:   claims.Subject,
				Username: claims.Username,
				Email:    claims.Email,
			}
		}
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Bearer token rejected")
	}

	return nil
}

// SetSessionCookie writes the session cookie for a newly created session.
func (m *Middleware) SetSessionCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func (m *Middleware) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionIDFromRequest returns the raw session cookie value, if any.
func (m *Middleware) SessionIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	//nolint:errcheck // Best-effort error response
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error": map[string]string{
			"code":    "UNAUTHORIZED",
			"message": "authentication required",
		},
	})
}
