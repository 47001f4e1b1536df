// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the shopnav project.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a quiet test logger (error level only).
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary test database with migrations applied.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "shopnav-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	}
}

// InsertEntry stores a minimal active link entry under parent and returns it.
// The slug is derived from the name, so names must be unique per test.
func InsertEntry(t *testing.T, db *sql.DB, name string, parent *string) model.Entry {
	t.Helper()

	e := model.Entry{
		Name:     name,
		Href:     "/" + name,
		Slug:     name,
		Type:     model.TypeLink,
		Parent:   parent,
		IsActive: true,
		Display:  model.DefaultDisplay(),
	}
	var out model.Entry
	err := store.ExecTx(context.Background(), db, func(q *store.Queries) error {
		var err error
		out, err = q.InsertNavigationItem(context.Background(), e, nil)
		return err
	})
	if err != nil {
		t.Fatalf("InsertNavigationItem(%q): %v", name, err)
	}
	return out
}
