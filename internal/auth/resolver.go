// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"errors"

	"blogapi/internal/model"
)

// Resolution errors.
var (
	// ErrUnauthenticated covers every authentication failure: missing,
	// invalid or expired token, or no matching identity. The reason is
	// deliberately not distinguishable so callers cannot probe which
	// emails are registered.
	ErrUnauthenticated = errors.New("could not validate credentials")
	// ErrInactiveUser means authentication succeeded but the account is
	// deactivated. Distinct from ErrUnauthenticated: the identity exists.
	ErrInactiveUser = errors.New("inactive user")
)

// UserSource is the subset of the store needed to resolve identities.
type UserSource interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}

// Resolver turns inbound raw tokens into authenticated identities.
type Resolver struct {
	tokens *TokenService
	users  UserSource
}

// NewResolver creates a resolver over the given token service and user store.
func NewResolver(tokens *TokenService, users UserSource) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// resolution is the explicit two-variant strategy for turning verified
// claims into an identity: either the embedded snapshot, or a store lookup
// keyed by email.
type resolution struct {
	snapshot *model.User
	email    string
}

// strategyFor picks the resolution strategy for the claims. Claims carrying
// a complete snapshot (user id, name, email) resolve without touching the
// store; anything less falls back to a lookup by the subject email.
func strategyFor(claims *Claims) resolution {
	if claims.HasSnapshot() {
		user := claims.User()
		return resolution{snapshot: &user}
	}
	return resolution{email: claims.Subject}
}

// Resolve verifies a raw token and returns the authenticated identity.
// Every failure surfaces as ErrUnauthenticated. The identity's active flag
// is not checked here; operations that require an active user go through
// ResolveActive.
func (r *Resolver) Resolve(ctx context.Context, rawToken string) (model.User, error) {
	claims, err := r.tokens.Verify(rawToken)
	if err != nil {
		return model.User{}, ErrUnauthenticated
	}

	res := strategyFor(claims)
	if res.snapshot != nil {
		return *res.snapshot, nil
	}

	user, err := r.users.GetUserByEmail(ctx, res.email)
	if err != nil {
		return model.User{}, ErrUnauthenticated
	}
	return user, nil
}

// ResolveActive resolves the identity and additionally rejects deactivated
// accounts with ErrInactiveUser.
func (r *Resolver) ResolveActive(ctx context.Context, rawToken string) (model.User, error) {
	user, err := r.Resolve(ctx, rawToken)
	if err != nil {
		return model.User{}, err
	}
	if !user.IsActive {
		return model.User{}, ErrInactiveUser
	}
	return user, nil
}

// ResolveWithPassword resolves the identity through the store path
// unconditionally, never from the snapshot: the password hash is not
// embedded in tokens, and password changes must verify against the stored
// hash. Deactivated accounts are rejected.
func (r *Resolver) ResolveWithPassword(ctx context.Context, rawToken string) (model.User, error) {
	claims, err := r.tokens.Verify(rawToken)
	if err != nil {
		return model.User{}, ErrUnauthenticated
	}

	user, err := r.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		return model.User{}, ErrUnauthenticated
	}
	if !user.IsActive {
		return model.User{}, ErrInactiveUser
	}
	return user, nil
}
