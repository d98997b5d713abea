// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/wickedhost/wicked-site/internal/model"
)

// UserStore persists user accounts.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a UserStore.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, email, phone, password_hash, role, status, metadata, created_at, updated_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Role, &u.Status, &u.Metadata, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	return u, err
}

// CreateUserParams holds the fields for creating a user. The password
// must already be hashed; the store never sees plaintext.
type CreateUserParams struct {
	Username     string
	Email        string
	Phone        string
	PasswordHash string
	Role         model.Role
	Status       model.UserStatus
	Metadata     string
}

// Create inserts a new user. The email is normalized to lower case so
// address comparisons are case-insensitive. Returns ErrConflict when
// the username or email is already taken.
func (s *UserStore) Create(ctx context.Context, p CreateUserParams) (model.User, error) {
	if p.Metadata == "" {
		p.Metadata = "{}"
	}
	now := time.Now()
	email := strings.ToLower(strings.TrimSpace(p.Email))

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, phone, password_hash, role, status, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Username, email, p.Phone, p.PasswordHash, p.Role, p.Status, p.Metadata, now, now)
	if err != nil {
		return model.User{}, translateErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("reading insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the user with the given ID.
func (s *UserStore) GetByID(ctx context.Context, id int64) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return model.User{}, translateErr(err)
	}
	return u, nil
}

// GetByUsername returns the user with the given username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err != nil {
		return model.User{}, translateErr(err)
	}
	return u, nil
}

// GetByEmail returns the user with the given email address.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	u, err := scanUser(row)
	if err != nil {
		return model.User{}, translateErr(err)
	}
	return u, nil
}

// GetByLogin returns the user matching the identifier as either a
// username or an email address. Login accepts both.
func (s *UserStore) GetByLogin(ctx context.Context, login string) (model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? OR email = ?`,
		login, strings.ToLower(strings.TrimSpace(login)))
	u, err := scanUser(row)
	if err != nil {
		return model.User{}, translateErr(err)
	}
	return u, nil
}

// ListUsersParams filters and paginates the user listing.
type ListUsersParams struct {
	Search string
	Role   model.Role
	Status model.UserStatus
	// HideAdmins excludes OWNER and ADMIN rows; applied when the
	// acting administrator may not manage those accounts.
	HideAdmins bool
	Limit      int
	Offset     int
}

// List returns users matching the filter plus the total match count.
func (s *UserStore) List(ctx context.Context, p ListUsersParams) ([]model.User, int64, error) {
	if p.Limit <= 0 {
		p.Limit = 20
	}

	var conds []string
	var args []any

	if p.Search != "" {
		like := "%" + p.Search + "%"
		conds = append(conds, `(username LIKE ? OR email LIKE ? OR phone LIKE ?)`)
		args = append(args, like, like, like)
	}
	if p.Role != "" {
		conds = append(conds, `role = ?`)
		args = append(args, p.Role)
	}
	if p.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, p.Status)
	}
	if p.HideAdmins {
		conds = append(conds, `role NOT IN (?, ?)`)
		args = append(args, model.RoleOwner, model.RoleAdmin)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// UpdateProfileParams holds the self-service mutable fields.
type UpdateProfileParams struct {
	ID    int64
	Phone string
}

// UpdateProfile updates a user's self-service fields.
func (s *UserStore) UpdateProfile(ctx context.Context, p UpdateProfileParams) error {
	return s.exec(ctx, `UPDATE users SET phone = ?, updated_at = ? WHERE id = ?`,
		p.Phone, time.Now(), p.ID)
}

// UpdateStatus sets a user's account status.
func (s *UserStore) UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error {
	return s.exec(ctx, `UPDATE users SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id)
}

// UpdateRole sets a user's role.
func (s *UserStore) UpdateRole(ctx context.Context, id int64, role model.Role) error {
	return s.exec(ctx, `UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		role, time.Now(), id)
}

// UpdatePassword stores a new password hash.
func (s *UserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return s.exec(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now(), id)
}

// UpdateLastLogin stamps the last successful login time.
func (s *UserStore) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return s.exec(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, at, id)
}

// Delete removes a user row.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	return s.exec(ctx, `DELETE FROM users WHERE id = ?`, id)
}

// exec runs a statement that must affect exactly one row and maps
// zero affected rows to ErrNotFound.
func (s *UserStore) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translateErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UserStats aggregates dashboard counters.
type UserStats struct {
	Total     int64
	Active    int64
	Suspended int64
	ByRole    map[model.Role]int64
}

// Stats returns aggregate user counts for the admin dashboard.
func (s *UserStore) Stats(ctx context.Context) (UserStats, error) {
	stats := UserStats{ByRole: make(map[model.Role]int64)}

	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN status = 'ACTIVE' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = 'SUSPENDED' THEN 1 ELSE 0 END), 0)
		FROM users`)
	if err := row.Scan(&stats.Total, &stats.Active, &stats.Suspended); err != nil {
		return stats, fmt.Errorf("counting users: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return stats, fmt.Errorf("counting users by role: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var role model.Role
		var n int64
		if err := rows.Scan(&role, &n); err != nil {
			return stats, fmt.Errorf("scanning role count: %w", err)
		}
		stats.ByRole[role] = n
	}
	return stats, rows.Err()
}

// RecentLogins returns the most recently active users, newest first.
func (s *UserStore) RecentLogins(ctx context.Context, limit int) ([]model.User, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE last_login_at IS NOT NULL
		 ORDER BY last_login_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent logins: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Count returns the total number of user rows.
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
