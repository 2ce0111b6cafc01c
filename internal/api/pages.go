// Glowcart - Skincare Storefront and Checkout Service
// Copyright 2026 Glowskin Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/glowskin/glowcart

package api

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/glowskin/glowcart/internal/ai"
	"github.com/glowskin/glowcart/internal/auth"
	"github.com/glowskin/glowcart/internal/database"
	"github.com/glowskin/glowcart/internal/logging"
	"github.com/glowskin/glowcart/internal/models"
	"github.com/glowskin/glowcart/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageNames are the content templates, each combined with the base layout.
var pageNames = []string{"register", "login", "products", "ai", "success"}

// PageRenderer renders the server-side HTML pages.
type PageRenderer struct {
	pages map[string]*template.Template
}

// NewPageRenderer parses the embedded templates.
func NewPageRenderer() (*PageRenderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &PageRenderer{pages: pages}, nil
}

// Render writes a page. Render failures after headers are sent are logged,
// not surfaced.
func (p *PageRenderer) Render(w http.ResponseWriter, name string, data interface{}) {
	tmpl, ok := p.pages[name]
	if !ok {
		http.Error(w, "page not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		logging.Error().Err(err).Str("page", name).Msg("Failed to render page")
	}
}

// pageData is the common payload every page template receives.
type pageData struct {
	Title    string
	Username string
	Flash    string

	// Products page
	Products []models.Product
	Search   string
	HasNext  bool
	HasPrev  bool
	NextPage int
	PrevPage int

	// AI page
	Suggestions []string

	// Success page
	ProductName string
}

func (s *Server) basePageData(r *http.Request, title string) pageData {
	data := pageData{Title: title}
	if subject, ok := auth.SubjectFromContext(r.Context()); ok {
		data.Username = subject.Username
	}
	return data
}

// pageRegister renders the registration form and handles its submission.
// GET/POST /register
func (s *Server) pageRegister(w http.ResponseWriter, r *http.Request) {
	data := s.basePageData(r, "Register")

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			data.Flash = "Invalid form submission"
			s.pages.Render(w, "register", data)
			return
		}

		req := RegisterRequest{
			Username: r.PostFormValue("username"),
			Email:    r.PostFormValue("email"),
			Password: r.PostFormValue("password"),
		}
		if verr := validation.ValidateStruct(&req); verr != nil {
			data.Flash = verr.Error()
			s.pages.Render(w, "register", data)
			return
		}

		_, err := s.gate.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			data.Flash = registerFlashMessage(err)
			s.pages.Render(w, "register", data)
			return
		}

		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	s.pages.Render(w, "register", data)
}

// pageLogin renders the login form and handles its submission.
// GET/POST /login
func (s *Server) pageLogin(w http.ResponseWriter, r *http.Request) {
	data := s.basePageData(r, "Login")

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			data.Flash = "Invalid form submission"
			s.pages.Render(w, "login", data)
			return
		}

		_, session, _, err := s.gate.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
		if err != nil {
			// Same message for unknown email and wrong password.
			data.Flash = "Invalid credentials"
			s.pages.Render(w, "login", data)
			return
		}

		s.authMW.SetSessionCookie(w, session)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.pages.Render(w, "login", data)
}

// pageLogout ends the session and sends the browser back to login.
// GET /logout
func (s *Server) pageLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.gate.Logout(r.Context(), s.authMW.SessionIDFromRequest(r)); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to end session")
	}
	s.authMW.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// pageProducts renders the paginated, searchable catalog.
// GET /
func (s *Server) pageProducts(w http.ResponseWriter, r *http.Request) {
	data := s.basePageData(r, "Products")
	data.Search = r.URL.Query().Get("search")

	page := parsePage(r.URL.Query().Get("page"))
	result, err := s.db.SearchProducts(r.Context(), data.Search, page, s.cfg.Catalog.PageSize)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Product search failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data.Products = result.Items
	data.HasNext = result.HasNext
	data.HasPrev = result.HasPrev
	data.NextPage = result.Page + 1
	data.PrevPage = result.Page - 1
	s.pages.Render(w, "products", data)
}

// pageAI renders the recommendation form and, on submit, the suggestions.
// GET/POST /ai
func (s *Server) pageAI(w http.ResponseWriter, r *http.Request) {
	data := s.basePageData(r, "AI Advisor")

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			data.Flash = "Invalid form submission"
			s.pages.Render(w, "ai", data)
			return
		}

		recommendation, err := s.recommender.Recommend(r.Context(), ai.RecommendationRequest{
			SkinType:    r.PostFormValue("skin_type"),
			Concerns:    r.PostFormValue("concerns"),
			Ingredients: r.PostFormValue("ingredients"),
		})
		if err != nil {
			data.Flash = recommendFlashMessage(err)
			s.pages.Render(w, "ai", data)
			return
		}
		data.Suggestions = recommendation.Suggestions
	}

	s.pages.Render(w, "ai", data)
}

// pageBuy creates a checkout session and redirects to the provider.
// GET /buy/{productID}
func (s *Server) pageBuy(w http.ResponseWriter, r *http.Request) {
	redirectURL, err := s.orders.Initiate(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writePageError(w, r, err)
		return
	}

	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// pageSuccess records the paid order and shows the confirmation page.
// GET /success?session_id=&product_id=
func (s *Server) pageSuccess(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	productID := r.URL.Query().Get("product_id")
	if sessionID == "" || productID == "" {
		http.Error(w, "session_id and product_id are required", http.StatusBadRequest)
		return
	}

	subject, _ := auth.SubjectFromContext(r.Context())
	order, err := s.orders.Confirm(r.Context(), subject, productID, sessionID)
	if err != nil {
		writePageError(w, r, err)
		return
	}

	data := s.basePageData(r, "Order Confirmed")
	if product, err := s.db.GetProduct(r.Context(), order.ProductID); err == nil {
		data.ProductName = product.Name
	}
	s.pages.Render(w, "success", data)
}

func parsePage(raw string) int {
	page := 1
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return page
}

func registerFlashMessage(err error) string {
	if errors.Is(err, auth.ErrEmailTaken) {
		return "Email already registered"
	}
	return "Registration failed, please try again"
}

func recommendFlashMessage(err error) string {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return "Suggestions are unavailable right now, please try again later"
}

// writePageError maps service errors onto plain HTTP error pages.
func writePageError(w http.ResponseWriter, r *http.Request, err error) {
	var uerr *models.UpstreamError

	switch {
	case errors.Is(err, database.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.As(err, &uerr):
		logging.Ctx(r.Context()).Error().Err(err).Msg("Upstream failure on page request")
		http.Error(w, "external service unavailable", http.StatusBadGateway)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Page request failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
