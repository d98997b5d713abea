// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// ActionType identifies an administrative action recorded in the
// audit log. The enum is closed; records carry it verbatim.
type ActionType string

// Audit log action types.
const (
	ActionUserCreate     ActionType = "USER_CREATE"
	ActionUserUpdate     ActionType = "USER_UPDATE"
	ActionUserDelete     ActionType = "USER_DELETE"
	ActionUserSuspend    ActionType = "USER_SUSPEND"
	ActionUserActivate   ActionType = "USER_ACTIVATE"
	ActionRoleChange     ActionType = "ROLE_CHANGE"
	ActionPasswordReset  ActionType = "PASSWORD_RESET"
	ActionForceLogout    ActionType = "FORCE_LOGOUT"
	ActionBotCreate      ActionType = "BOT_CREATE"
	ActionBotUpdate      ActionType = "BOT_UPDATE"
	ActionBotDelete      ActionType = "BOT_DELETE"
	ActionProductCreate  ActionType = "PRODUCT_CREATE"
	ActionProductUpdate  ActionType = "PRODUCT_UPDATE"
	ActionProductDelete  ActionType = "PRODUCT_DELETE"
	ActionCategoryCreate ActionType = "CATEGORY_CREATE"
	ActionCategoryUpdate ActionType = "CATEGORY_UPDATE"
	ActionCategoryDelete ActionType = "CATEGORY_DELETE"
	ActionPageCreate     ActionType = "PAGE_CREATE"
	ActionPageUpdate     ActionType = "PAGE_UPDATE"
	ActionPageDelete     ActionType = "PAGE_DELETE"
)

// Valid reports whether a is a known action type.
func (a ActionType) Valid() bool {
	switch a {
	case ActionUserCreate, ActionUserUpdate, ActionUserDelete,
		ActionUserSuspend, ActionUserActivate, ActionRoleChange,
		ActionPasswordReset, ActionForceLogout,
		ActionBotCreate, ActionBotUpdate, ActionBotDelete,
		ActionProductCreate, ActionProductUpdate, ActionProductDelete,
		ActionCategoryCreate, ActionCategoryUpdate, ActionCategoryDelete,
		ActionPageCreate, ActionPageUpdate, ActionPageDelete:
		return true
	}
	return false
}

// AdminActionLog is an append-only record of an administrative state
// change. Rows are never updated after creation; there is no updated
// timestamp by design of the schema.
type AdminActionLog struct {
	ID           int64         `json:"id"`
	ActorID      int64         `json:"actor_id"`
	TargetUserID sql.NullInt64 `json:"-"`
	Action       ActionType    `json:"action"`
	Payload      string        `json:"payload"` // JSON string
	IPAddress    string        `json:"ip_address,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}
