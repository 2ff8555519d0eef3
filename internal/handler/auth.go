// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"blogapi/internal/auth"
	"blogapi/internal/middleware"
	"blogapi/internal/model"
	"blogapi/internal/store"
)

// minPasswordLength is the shortest password accepted at registration
// and password change.
const minPasswordLength = 6

// RegisterRequest represents the request body for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for a credentials login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token alongside the user.
type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        model.User `json:"user"`
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// MessageResponse is a bare acknowledgement payload.
type MessageResponse struct {
	Message string `json:"message"`
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// Register handles POST /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	fieldErrors := make(map[string]string)
	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if !validEmail(req.Email) {
		fieldErrors["email"] = "A valid email is required"
	}
	if len(req.Password) < minPasswordLength {
		fieldErrors["password"] = "Password must be at least 6 characters"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.BcryptCost)
	if err != nil {
		slog.Error("password hashing failed", "error", err)
		WriteInternalError(w, "Internal server error")
		return
	}

	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		writeStoreError(w, err, "User not found", "Email already registered")
		return
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	WriteCreated(w, user)
}

// Login handles POST /api/v1/auth/login
//
// Authentication failures are reported with a single generic message so
// the response does not reveal whether the email is registered.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.queries.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteUnauthorized(w, "Incorrect email or password")
			return
		}
		slog.Error("login lookup failed", "error", err)
		WriteInternalError(w, "Internal server error")
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		WriteUnauthorized(w, "Incorrect email or password")
		return
	}
	if !user.IsActive {
		WriteForbidden(w, auth.ErrInactiveUser.Error())
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		slog.Error("token issue failed", "error", err)
		WriteInternalError(w, "Internal server error")
		return
	}

	h.setSessionCookie(w, token)
	slog.Info("user logged in", "user_id", user.ID)
	WriteSuccess(w, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil)
}

// Logout handles POST /api/v1/auth/logout
//
// Tokens are stateless, so logout only clears the cookie transport. A
// token held by the client stays valid until it expires.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	WriteSuccess(w, MessageResponse{Message: "Logged out"}, nil)
}

// Me handles GET /api/v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, auth.ErrUnauthenticated.Error())
		return
	}
	WriteSuccess(w, user, nil)
}

// UpdateProfile handles PUT /api/v1/auth/me
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, auth.ErrUnauthenticated.Error())
		return
	}

	var upd model.UserUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}
	// Accounts cannot deactivate or reactivate themselves here.
	upd.IsActive = nil

	if upd.IsEmpty() {
		WriteSuccess(w, user, nil)
		return
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		WriteValidationError(w, map[string]string{"name": "Name cannot be empty"})
		return
	}
	if upd.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*upd.Email))
		if !validEmail(normalized) {
			WriteValidationError(w, map[string]string{"email": "A valid email is required"})
			return
		}
		upd.Email = &normalized
	}

	updated, err := h.queries.UpdateUser(r.Context(), user.ID, upd)
	if err != nil {
		writeStoreError(w, err, "User not found", "Email already registered")
		return
	}

	slog.Info("profile updated", "user_id", updated.ID)
	WriteSuccess(w, updated, nil)
}

// ChangePassword handles PUT /api/v1/auth/change-password
//
// The current hash is always read from the store here, never from the
// token, so a stale snapshot can not satisfy the current-password check.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r)
	if token == "" {
		WriteUnauthorized(w, auth.ErrUnauthenticated.Error())
		return
	}

	user, err := h.resolver.ResolveWithPassword(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrInactiveUser) {
			WriteForbidden(w, auth.ErrInactiveUser.Error())
			return
		}
		WriteUnauthorized(w, auth.ErrUnauthenticated.Error())
		return
	}

	var req ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		WriteValidationError(w, map[string]string{"new_password": "Password must be at least 6 characters"})
		return
	}
	if !auth.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		WriteBadRequest(w, "Current password is incorrect", nil)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword, h.cfg.BcryptCost)
	if err != nil {
		slog.Error("password hashing failed", "error", err)
		WriteInternalError(w, "Internal server error")
		return
	}
	if err := h.queries.UpdateUserPassword(r.Context(), user.ID, hash); err != nil {
		writeStoreError(w, err, "User not found", "")
		return
	}

	slog.Info("password changed", "user_id", user.ID)
	WriteSuccess(w, MessageResponse{Message: "Password updated"}, nil)
}

// setSessionCookie mirrors the issued token into an HTTP-only cookie so
// browser clients can authenticate without storing the token themselves.
func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokens.TTL()),
		HttpOnly: true,
		Secure:   !h.cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
}
