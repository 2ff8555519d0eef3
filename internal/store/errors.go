// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"errors"
	"strings"
)

// Sentinel errors returned by the query layer. Handlers map these to HTTP
// statuses; raw driver errors never cross the package boundary.
var (
	// ErrNotFound is returned when no row matches the query.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on a uniqueness violation (slug, email).
	ErrConflict = errors.New("conflict")
)

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// violation. Racing writers can slip past an application-level pre-check, so
// the constraint is the real backstop and must map into the same taxonomy.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// mapRowError converts driver-level row errors into the package taxonomy.
func mapRowError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
