// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the REST API handlers for the blog backend.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogapi/internal/auth"
	"blogapi/internal/config"
	"blogapi/internal/middleware"
	"blogapi/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	cfg      *config.Config
	queries  *store.Queries
	tokens   *auth.TokenService
	resolver *auth.Resolver
}

// New creates an API handler wired to the given dependencies.
func New(cfg *config.Config, queries *store.Queries, tokens *auth.TokenService) *Handler {
	return &Handler{
		cfg:      cfg,
		queries:  queries,
		tokens:   tokens,
		resolver: auth.NewResolver(tokens, queries),
	}
}

// Resolver returns the identity resolver backing this handler. It is
// exposed so the server can share it with route middleware.
func (h *Handler) Resolver() *auth.Resolver {
	return h.resolver
}

// Routes returns the versioned API router. The rate limiter guards the
// unauthenticated write endpoints (register, login, contact form).
func (h *Handler) Routes(limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware())
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})
		r.Post("/logout", h.Logout)
		r.Put("/change-password", h.ChangePassword)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireActiveUser(h.resolver))
			r.Get("/me", h.Me)
			r.Put("/me", h.UpdateProfile)
		})
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Get("/slug/{slug}", h.GetPostBySlug)
		r.With(middleware.OptionalUser(h.resolver)).Get("/{id}", h.GetPost)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireActiveUser(h.resolver))
			r.Post("/", h.CreatePost)
			r.Get("/user/all-posts", h.MyPosts)
			r.Put("/{id}", h.UpdatePost)
			r.Delete("/{id}", h.DeletePost)
			r.Put("/{id}/toggle-visibility", h.TogglePostVisibility)
		})
	})

	r.Route("/contacts", func(r chi.Router) {
		r.With(limiter.Middleware()).Post("/", h.CreateContact)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireActiveUser(h.resolver), middleware.RequireAdmin())
			r.Get("/", h.ListContacts)
			r.Put("/{id}/mark-read", h.MarkContactRead)
		})
	})

	r.Get("/status", h.Status)

	return r
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:  "ok",
		Version: "v1",
	}, nil)
}
