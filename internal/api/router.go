// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glowskin/glowcart/internal/middleware"
)

// Router assembles both front ends on one chi mux: the JSON API under
// /api/v1 and the server-rendered pages at the root.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(s.authMW.Authenticate)

	if len(s.cfg.Security.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Security.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	if !s.cfg.Security.RateLimitDisabled {
		r.Use(httprate.Limit(
			s.cfg.Security.RateLimitReqs,
			s.cfg.Security.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			// Tighter limit on login keeps credential stuffing slow.
			r.With(s.loginRateLimiter()).Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.With(s.authMW.RequireAuth).Get("/me", s.handleMe)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authMW.RequireAuth)
			r.Get("/products", s.handleListProducts)
			r.Get("/products/{id}", s.handleGetProduct)
			r.Post("/recommendations", s.handleRecommend)
			r.Post("/checkout/{productID}", s.handleCheckout)
			r.Get("/checkout/success", s.handleCheckoutSuccess)
		})
	})

	r.Get("/register", s.pageRegister)
	r.Post("/register", s.pageRegister)
	r.Get("/login", s.pageLogin)
	r.With(s.loginRateLimiter()).Post("/login", s.pageLogin)
	r.Get("/logout", s.pageLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.authMW.RequirePage)
		r.Get("/", s.pageProducts)
		r.Get("/ai", s.pageAI)
		r.Post("/ai", s.pageAI)
		r.Get("/buy/{productID}", s.pageBuy)
		r.Get("/success", s.pageSuccess)
	})

	return r
}

func (s *Server) loginRateLimiter() func(http.Handler) http.Handler {
	limit := s.cfg.Security.LoginRateLimit
	if limit <= 0 || s.cfg.Security.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(limit, time.Minute)
}
