// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers.
package testutil

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"blogapi/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary database with migrations applied. The database
// file lives in the test's temp dir; the handle is closed automatically
// when the test finishes.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "blogapi-test.db")

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	return db
}
