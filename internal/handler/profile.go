// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/wickedhost/wicked-site/internal/auth"
	"github.com/wickedhost/wicked-site/internal/middleware"
	"github.com/wickedhost/wicked-site/internal/model"
	"github.com/wickedhost/wicked-site/internal/store"
)

// ProfileHandler handles self-service account endpoints.
type ProfileHandler struct {
	users *store.UserStore
	logs  *store.AuditStore
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(users *store.UserStore, logs *store.AuditStore) *ProfileHandler {
	return &ProfileHandler{users: users, logs: logs}
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfileRequest is the body for PUT /profile. Password changes
// require the current password.
type UpdateProfileRequest struct {
	Phone           *string `json:"phone,omitempty"`
	CurrentPassword string  `json:"current_password,omitempty"`
	NewPassword     string  `json:"new_password,omitempty"`
}

// Update handles PUT /profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.NewPassword != "" {
		if len(req.NewPassword) < MinPasswordLength {
			writeJSONError(w, http.StatusBadRequest, "password must be at least 8 characters")
			return
		}
		if !auth.CheckPassword(req.CurrentPassword, user.PasswordHash) {
			writeJSONError(w, http.StatusForbidden, "current password is incorrect")
			return
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if err := h.users.UpdatePassword(r.Context(), user.ID, hash); err != nil {
			writeStoreError(w, err, "user not found", "")
			return
		}
	}

	if req.Phone != nil {
		if err := h.users.UpdateProfile(r.Context(), store.UpdateProfileParams{
			ID:    user.ID,
			Phone: *req.Phone,
		}); err != nil {
			writeStoreError(w, err, "user not found", "")
			return
		}
	}

	updated, err := h.users.GetByID(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, err, "user not found", "")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ProfileStats is the body for GET /profile/stats. RecentActions lists
// administrative actions taken against the account, so users can see
// why a role or status changed.
type ProfileStats struct {
	MemberSince   string                 `json:"member_since"`
	LastLogin     string                 `json:"last_login,omitempty"`
	Role          string                 `json:"role"`
	RoleLevel     int                    `json:"role_level"`
	RecentActions []model.AdminActionLog `json:"recent_actions"`
}

// Stats handles GET /profile/stats.
func (h *ProfileHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	stats := ProfileStats{
		MemberSince: user.CreatedAt.Format("2006-01-02"),
		Role:        string(user.Role),
		RoleLevel:   user.Role.Level(),
	}
	if user.LastLoginAt.Valid {
		stats.LastLogin = user.LastLoginAt.Time.Format("2006-01-02 15:04:05")
	}

	actions, err := h.logs.ListByTarget(r.Context(), user.ID, 5)
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	if actions == nil {
		actions = []model.AdminActionLog{}
	}
	stats.RecentActions = actions

	writeJSON(w, http.StatusOK, stats)
}
