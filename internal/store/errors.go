// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"errors"
	"strings"
)

// Sentinel errors returned by repositories. Handlers map them to
// 404 and 409 respectively.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// translateErr maps driver-level errors to sentinel errors. Unique
// index violations become ErrConflict so concurrent duplicate creates
// surface as conflicts rather than application-level races.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if isUniqueViolation(err) || isForeignKeyViolation(err) {
		return ErrConflict
	}
	return err
}

// isForeignKeyViolation detects SQLite foreign key constraint
// failures, e.g. deleting a user that still authored rows elsewhere.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// isUniqueViolation detects SQLite unique constraint failures.
// modernc.org/sqlite surfaces them as "constraint failed: UNIQUE
// constraint failed: <table>.<column> (2067)".
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed (1555)") // rowid PK conflict
}
