// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"blogapi/internal/auth"
	"blogapi/internal/config"
	"blogapi/internal/middleware"
	"blogapi/internal/store"
	"blogapi/internal/testutil"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

// newTestServer builds a handler over a migrated temp database and mounts
// it the way the real server does.
func newTestServer(t *testing.T) (*Handler, http.Handler) {
	t.Helper()

	slog.SetDefault(testutil.TestLogger())

	cfg := &config.Config{
		Env:          "development",
		BcryptCost:   4,
		PostsPerPage: 10,
	}

	db := testutil.TestDB(t)
	tokens, err := auth.NewTokenService(testSecret, "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	h := New(cfg, store.New(db), tokens)

	r := chi.NewRouter()
	r.Mount("/api/v1", h.Routes(middleware.NewRateLimiter(1000, 1000)))
	return h, r
}

// createAccount inserts a user directly and returns it with a valid token.
func createAccount(t *testing.T, h *Handler, name, email string, admin bool) (int64, string) {
	t.Helper()

	hash, err := auth.HashPassword("password123", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user, err := h.queries.CreateUser(context.Background(), store.CreateUserParams{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      admin,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	token, err := h.tokens.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return user.ID, token
}

// doRequest performs a JSON request against the test router.
func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// requestWithCookie builds a request carrying the token in the session
// cookie instead of the Authorization header.
func requestWithCookie(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: token})
	return req
}

// serve runs a prepared request through the router.
func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the data field of a response envelope into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) *Meta {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
		Meta *Meta           `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, rec.Body.String())
	}
	if dst != nil {
		if err := json.Unmarshal(envelope.Data, dst); err != nil {
			t.Fatalf("decode data: %v (body: %s)", err, rec.Body.String())
		}
	}
	return envelope.Meta
}

// requireStatus fails the test when the recorded status does not match.
func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}
