// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"blogapi/internal/auth"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// Seed creates the initial admin user if no account with the default admin
// email exists yet.
func Seed(ctx context.Context, db *sql.DB, bcryptCost int) error {
	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword, bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Name:         DefaultAdminName,
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		IsAdmin:      true,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
		"password", DefaultAdminPassword,
	)

	return nil
}
