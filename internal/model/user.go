// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and closed enum types used
// throughout the application including User, Bot, HostingCategory,
// HostingProduct, Page and AdminActionLog.
package model

import (
	"database/sql"
	"time"
)

// Role is a user permission level. The set is closed: adding a role
// means revisiting every switch over Role.
type Role string

// User roles, highest to lowest.
const (
	RoleOwner Role = "OWNER"
	RoleAdmin Role = "ADMIN"
	RoleUltra Role = "ULTRA"
	RolePro   Role = "PRO"
	RoleFree  Role = "FREE"
)

// Roles lists all valid roles.
var Roles = []Role{RoleOwner, RoleAdmin, RoleUltra, RolePro, RoleFree}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleUltra, RolePro, RoleFree:
		return true
	}
	return false
}

// Level returns the numeric position in the role hierarchy.
// OWNER > ADMIN > {ULTRA, PRO, FREE}; the three member tiers share a
// level because none of them carries management rights.
func (r Role) Level() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleAdmin:
		return 2
	case RoleUltra, RolePro, RoleFree:
		return 1
	default:
		return 0
	}
}

// UserStatus is a user account lifecycle state.
type UserStatus string

// User statuses.
const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusDeleted   UserStatus = "DELETED"
)

// Valid reports whether s is a known user status.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusDeleted:
		return true
	}
	return false
}

// User represents a site account.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	Role         Role         `json:"role"`
	Status       UserStatus   `json:"status"`
	Metadata     string       `json:"-"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login,omitempty"`
}

// IsAdmin returns true if the user holds an administrative role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleOwner || u.Role == RoleAdmin
}

// IsActive returns true if the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
