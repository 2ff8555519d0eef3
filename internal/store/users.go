// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"blogapi/internal/model"
)

// Queries wraps a database handle and exposes typed query methods.
type Queries struct {
	db *sql.DB
}

// New creates a Queries instance over the given database.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// DB returns the underlying database handle.
func (q *Queries) DB() *sql.DB {
	return q.db
}

const userColumns = "id, name, email, password_hash, is_active, is_admin, created_at, updated_at"

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.IsActive, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, mapRowError(err)
	}
	return u, nil
}

// CreateUserParams holds the inputs for CreateUser.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
}

// CreateUser inserts a new user. Returns ErrConflict if the email is
// already registered.
func (q *Queries) CreateUser(ctx context.Context, p CreateUserParams) (model.User, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, is_active, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?, ?)
		RETURNING `+userColumns,
		p.Name, p.Email, p.PasswordHash, p.IsAdmin, now, now)

	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("creating user: %w", ErrConflict)
		}
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// GetUserByEmail returns the user with the given email, or ErrNotFound.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// GetUserByID returns the user with the given id, or ErrNotFound.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// UpdateUser applies a partial profile update. When the name changes, the
// denormalized author_name on the user's posts is resynced in the same
// transaction. Returns ErrConflict when the new email is taken.
func (q *Queries) UpdateUser(ctx context.Context, id int64, upd model.UserUpdate) (model.User, error) {
	if upd.IsEmpty() {
		return q.GetUserByID(ctx, id)
	}

	set := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if upd.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Email != nil {
		set = append(set, "email = ?")
		args = append(args, *upd.Email)
	}
	if upd.IsActive != nil {
		set = append(set, "is_active = ?")
		args = append(args, *upd.IsActive)
	}
	set = append(set, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		"UPDATE users SET "+strings.Join(set, ", ")+" WHERE id = ? RETURNING "+userColumns, args...)
	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("updating user: %w", ErrConflict)
		}
		return model.User{}, fmt.Errorf("updating user: %w", err)
	}

	if upd.Name != nil {
		if _, err := tx.ExecContext(ctx,
			"UPDATE posts SET author_name = ? WHERE author_id = ?", *upd.Name, id); err != nil {
			return model.User{}, fmt.Errorf("resyncing author name: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.User{}, fmt.Errorf("committing user update: %w", err)
	}
	return user, nil
}

// UpdateUserPassword replaces the user's password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
