// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for bearer-token
// authentication, authorization and rate limiting.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"blogapi/internal/auth"
	"blogapi/internal/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser is the context key for the authenticated user.
const ContextKeyUser ContextKey = "user"

// AccessTokenCookie is the fallback cookie for token transport. The
// Authorization header always wins when both are present.
const AccessTokenCookie = "access_token"

// writeError writes a JSON error response in the same envelope the API
// handlers use, so clients see one error shape regardless of which layer
// rejected the request.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	code := "unauthorized"
	switch statusCode {
	case http.StatusForbidden:
		code = "forbidden"
	case http.StatusTooManyRequests:
		code = "rate_limited"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// TokenFromRequest extracts the raw session token from the request:
// `Authorization: Bearer <token>` is authoritative, the access_token cookie
// is the fallback. Returns "" when neither is present.
func TokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireUser creates middleware that authenticates the request and loads
// the resolved identity into the context. Active status is not checked.
func RequireUser(resolver *auth.Resolver) func(http.Handler) http.Handler {
	return requireResolved(resolver.Resolve)
}

// RequireActiveUser creates middleware that authenticates the request and
// rejects deactivated accounts.
func RequireActiveUser(resolver *auth.Resolver) func(http.Handler) http.Handler {
	return requireResolved(resolver.ResolveActive)
}

// requireResolved builds auth middleware around a resolution function.
func requireResolved(resolve func(context.Context, string) (model.User, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
				return
			}

			user, err := resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrInactiveUser) {
					writeError(w, http.StatusForbidden, auth.ErrInactiveUser.Error())
					return
				}
				// Any other failure collapses into the generic
				// credentials error.
				writeError(w, http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalUser creates middleware that loads the authenticated user into
// the context when a valid token is present, and passes the request through
// anonymously otherwise. Handlers decide what anonymous callers may see.
func OptionalUser(resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token != "" {
				if user, err := resolver.ResolveActive(r.Context(), token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), ContextKeyUser, user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin creates middleware that rejects non-admin users. It must run
// after RequireUser or RequireActiveUser.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				writeError(w, http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
				return
			}
			if !user.IsAdmin {
				writeError(w, http.StatusForbidden, "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser retrieves the authenticated user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}
