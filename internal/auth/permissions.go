// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "github.com/wickedhost/wicked-site/internal/model"

// Permission names every role-gated action in one place. Handlers and
// middleware consult the table below instead of checking roles inline,
// so the full gating policy is readable at a glance.
type Permission string

// Role-gated actions.
const (
	PermManageUsers     Permission = "manage_users"
	PermGrantOwnerRole  Permission = "grant_owner_role"
	PermManageBots      Permission = "manage_bots"
	PermManageHosting   Permission = "manage_hosting"
	PermManagePages     Permission = "manage_pages"
	PermViewAuditLogs   Permission = "view_audit_logs"
	PermDeleteAuditLogs Permission = "delete_audit_logs"
	PermViewDashboard   Permission = "view_dashboard"
)

// adminRoles is the role set for routine administrative work.
var adminRoles = []model.Role{model.RoleOwner, model.RoleAdmin}

// permissionTable is the single source of truth for which roles may
// perform which gated action.
var permissionTable = map[Permission][]model.Role{
	PermManageUsers:     adminRoles,
	PermGrantOwnerRole:  {model.RoleOwner},
	PermManageBots:      adminRoles,
	PermManageHosting:   adminRoles,
	PermManagePages:     adminRoles,
	PermViewAuditLogs:   adminRoles,
	PermDeleteAuditLogs: {model.RoleOwner},
	PermViewDashboard:   adminRoles,
}

// Allowed reports whether role may perform the gated action. Unknown
// permissions are denied.
func Allowed(role model.Role, perm Permission) bool {
	for _, r := range permissionTable[perm] {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether role is an administrative role.
func IsAdmin(role model.Role) bool {
	return role == model.RoleOwner || role == model.RoleAdmin
}

// CanManage reports whether actor may operate on target. OWNER manages
// everyone; ADMIN manages only non-administrative accounts; member
// tiers manage no one. The evaluator itself never errors — callers
// surface the forbidden condition.
func CanManage(actor, target *model.User) bool {
	switch actor.Role {
	case model.RoleOwner:
		return true
	case model.RoleAdmin:
		return target.Role != model.RoleOwner && target.Role != model.RoleAdmin
	case model.RoleUltra, model.RolePro, model.RoleFree:
		return false
	default:
		return false
	}
}
