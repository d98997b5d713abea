// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/wickedhost/wicked-site/internal/model"
)

// testDB creates an in-memory SQLite database with the real schema.
// In-memory databases live per connection, so the pool is pinned to a
// single connection.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func createTestUser(t *testing.T, users *UserStore, username, email string, role model.Role) model.User {
	t.Helper()
	u, err := users.Create(context.Background(), CreateUserParams{
		Username:     username,
		Email:        email,
		Phone:        "1234567890",
		PasswordHash: "$2a$12$fakehashfakehashfakehashfakehashfakehashfakehashfakeh",
		Role:         role,
		Status:       model.UserStatusActive,
	})
	if err != nil {
		t.Fatalf("failed to create test user %s: %v", username, err)
	}
	return u
}
