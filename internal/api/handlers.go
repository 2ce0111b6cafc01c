// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/glowskin/glowcart/internal/ai"
	"github.com/glowskin/glowcart/internal/auth"
	"github.com/glowskin/glowcart/internal/checkout"
	"github.com/glowskin/glowcart/internal/config"
	"github.com/glowskin/glowcart/internal/database"
	"github.com/glowskin/glowcart/internal/models"
	"github.com/glowskin/glowcart/internal/validation"
)

// Server holds the service handles the HTTP handlers dispatch to. All
// dependencies are injected at construction; handlers keep no state of their
// own.
type Server struct {
	cfg         *config.Config
	db          *database.DB
	gate        *auth.Gate
	authMW      *auth.Middleware
	recommender *ai.Gateway
	orders      *checkout.Orchestrator
	pages       *PageRenderer
}

// NewServer constructs the HTTP server facade.
func NewServer(
	cfg *config.Config,
	db *database.DB,
	gate *auth.Gate,
	authMW *auth.Middleware,
	recommender *ai.Gateway,
	orders *checkout.Orchestrator,
) (*Server, error) {
	pages, err := NewPageRenderer()
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:         cfg,
		db:          db,
		gate:        gate,
		authMW:      authMW,
		recommender: recommender,
		orders:      orders,
		pages:       pages,
	}, nil
}

// RegisterRequest is the JSON body for account creation.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the JSON body for credential verification.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// handleRegister creates a new account.
// POST /api/v1/auth/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	user, err := s.gate.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeServiceError(rw, err)
		return
	}

	rw.Created(user)
}

// loginResponse carries both credentials a client may use: the session cookie
// is set on the response, the token is for Authorization headers.
type loginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// handleLogin verifies credentials and establishes a session.
// POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	user, session, token, err := s.gate.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(rw, err)
		return
	}

	s.authMW.SetSessionCookie(w, session)
	rw.Success(loginResponse{User: user, Token: token})
}

// handleLogout invalidates the caller's session.
// POST /api/v1/auth/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := s.gate.Logout(r.Context(), s.authMW.SessionIDFromRequest(r)); err != nil {
		rw.InternalError("Failed to end session")
		return
	}
	s.authMW.ClearSessionCookie(w)
	rw.NoContent()
}

// handleMe returns the authenticated user.
// GET /api/v1/auth/me
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	subject, _ := auth.SubjectFromContext(r.Context())
	user, err := s.gate.CurrentUser(r.Context(), subject)
	if err != nil {
		s.writeServiceError(rw, err)
		return
	}

	rw.Success(user)
}

// handleListProducts returns a page of the catalog, optionally filtered by a
// case-insensitive name substring.
// GET /api/v1/products?search=&page=
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			rw.BadRequest("page must be a positive integer")
			return
		}
		page = parsed
	}

	result, err := s.db.SearchProducts(r.Context(), r.URL.Query().Get("search"), page, s.cfg.Catalog.PageSize)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.SuccessWithPagination(result.Items, &PaginationMeta{
		Page:     result.Page,
		PageSize: result.PageSize,
		Total:    result.Total,
		HasNext:  result.HasNext,
		HasPrev:  result.HasPrev,
	})
}

// handleGetProduct returns a single product.
// GET /api/v1/products/{id}
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	product, err := s.db.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(rw, err)
		return
	}

	rw.Success(product)
}

// handleRecommend produces AI product suggestions for a skin profile.
// POST /api/v1/recommendations
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ai.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}

	recommendation, err := s.recommender.Recommend(r.Context(), req)
	if err != nil {
		s.writeServiceError(rw, err)
		return
	}

	rw.Success(recommendation)
}

// checkoutResponse carries the provider URL the client must redirect to.
type checkoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// handleCheckout creates a hosted checkout session for a product.
// POST /api/v1/checkout/{productID}
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	redirectURL, err := s.orders.Initiate(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		s.writeServiceError(rw, err)
		return
	}

	rw.Success(checkoutResponse{CheckoutURL: redirectURL})
}

// handleCheckoutSuccess records the paid order after the provider redirect.
// GET /api/v1/checkout/success?session_id=&product_id=
func (s *Server) handleCheckoutSuccess(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	sessionID := r.URL.Query().Get("session_id")
	productID := r.URL.Query().Get("product_id")
	if sessionID == "" || productID == "" {
		rw.BadRequest("session_id and product_id are required")
		return
	}

	subject, _ := auth.SubjectFromContext(r.Context())
	order, err := s.orders.Confirm(r.Context(), subject, productID, sessionID)
	if err != nil {
		s.writeServiceError(rw, err)
		return
	}

	rw.Success(order)
}

// handleHealthz reports liveness and database reachability.
// GET /healthz
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := s.db.Ping(r.Context()); err != nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeDatabaseError, "database unreachable")
		return
	}

	rw.Success(map[string]string{"status": "ok"})
}

// writeServiceError maps service-layer errors onto the HTTP error taxonomy:
// validation 400, bad credentials 401, missing resources 404, upstream
// faults 502, everything else 500.
func (s *Server) writeServiceError(rw *ResponseWriter, err error) {
	var verr *validation.RequestValidationError
	var uerr *models.UpstreamError

	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
	case errors.Is(err, auth.ErrEmailTaken):
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, "Email already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		rw.Unauthorized("Invalid email or password")
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound("Resource not found")
	case errors.As(err, &uerr):
		rw.ExternalServiceError(uerr.Service, err)
	default:
		rw.DatabaseError(err)
	}
}
