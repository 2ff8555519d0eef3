// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"blogapi/internal/model"
)

// TokenTypeAccess is the type tag carried by access tokens.
const TokenTypeAccess = "access"

// Token verification errors. Callers outside the package should treat both
// as a generic authentication failure; the split exists for logging and tests.
var (
	// ErrTokenInvalid means the token is malformed, carries a bad signature
	// or an unexpected signing method.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired means the token was well-formed but its expiry passed.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the decoded payload of a session token. It embeds a snapshot of
// the identity at issuance time: requests verified on the snapshot path never
// touch the store, trading staleness (bounded by the token TTL) for latency.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	IsAdmin  *bool  `json:"is_admin,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
	Type     string `json:"type"`
}

// HasSnapshot reports whether the claims carry a complete identity snapshot
// (user id, name and email all present).
func (c *Claims) HasSnapshot() bool {
	return c.UserID != 0 && c.Name != "" && c.Email != ""
}

// User synthesizes an identity from the snapshot claims. The password hash
// is never embedded in tokens and is left empty.
func (c *Claims) User() model.User {
	u := model.User{
		ID:    c.UserID,
		Name:  c.Name,
		Email: c.Email,
	}
	if c.IsAdmin != nil {
		u.IsAdmin = *c.IsAdmin
	}
	if c.IsActive != nil {
		u.IsActive = *c.IsActive
	}
	if c.IssuedAt != nil {
		u.CreatedAt = c.IssuedAt.Time
	}
	return u
}

// TokenService issues and verifies HMAC-signed session tokens.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service for the given symmetric secret and
// HMAC algorithm identifier (HS256, HS384 or HS512).
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if !strings.HasPrefix(algorithm, "HS") {
		return nil, fmt.Errorf("signing algorithm %q is not HMAC-based", algorithm)
	}
	return &TokenService{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL returns the configured access token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs an access token embedding a snapshot of the given identity.
func (s *TokenService) Issue(user model.User) (string, error) {
	now := s.now()
	isAdmin := user.IsAdmin
	isActive := user.IsActive

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
		UserID:   user.ID,
		Name:     user.Name,
		Email:    user.Email,
		IsAdmin:  &isAdmin,
		IsActive: &isActive,
		Type:     TokenTypeAccess,
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a raw token. It fails with ErrTokenExpired
// when the expiry has passed and ErrTokenInvalid for every other defect
// (bad signature, wrong algorithm, malformed structure, wrong type tag).
func (s *TokenService) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" || claims.Type != TokenTypeAccess {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
