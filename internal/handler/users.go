// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/wickedhost/wicked-site/internal/auth"
	"github.com/wickedhost/wicked-site/internal/middleware"
	"github.com/wickedhost/wicked-site/internal/model"
	"github.com/wickedhost/wicked-site/internal/service"
	"github.com/wickedhost/wicked-site/internal/store"
)

// UserAdminHandler handles the admin user management endpoints. Every
// mutation checks the actor against the target with auth.CanManage and
// records an audit entry.
type UserAdminHandler struct {
	users *store.UserStore
	logs  *store.AuditStore
	audit *service.AuditService
}

// NewUserAdminHandler creates a UserAdminHandler.
func NewUserAdminHandler(users *store.UserStore, logs *store.AuditStore, audit *service.AuditService) *UserAdminHandler {
	return &UserAdminHandler{users: users, logs: logs, audit: audit}
}

// UserListResponse is the body for GET /admin/users.
type UserListResponse struct {
	Users  []model.User `json:"users"`
	Total  int64        `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// List handles GET /admin/users. ADMIN actors never see OWNER or ADMIN
// rows; accounts they cannot manage stay out of their listing.
func (h *UserAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)
	limit, offset := parsePagination(r, 20, 100)

	q := r.URL.Query()
	params := store.ListUsersParams{
		Search:     q.Get("search"),
		Role:       model.Role(q.Get("role")),
		Status:     model.UserStatus(q.Get("status")),
		HideAdmins: actor.Role == model.RoleAdmin,
		Limit:      limit,
		Offset:     offset,
	}
	if params.Role != "" && !params.Role.Valid() {
		writeJSONError(w, http.StatusBadRequest, "invalid role filter")
		return
	}
	if params.Status != "" && !params.Status.Valid() {
		writeJSONError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	users, total, err := h.users.List(r.Context(), params)
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, UserListResponse{Users: users, Total: total, Limit: limit, Offset: offset})
}

// UserDetailResponse is the body for GET /admin/users/{id}.
type UserDetailResponse struct {
	User       model.User             `json:"user"`
	RecentLogs []model.AdminActionLog `json:"recent_logs"`
}

// Get handles GET /admin/users/{id}.
func (h *UserAdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	target, ok := h.manageableTarget(w, r)
	if !ok {
		return
	}

	recent, err := h.logs.ListByTarget(r.Context(), target.ID, 10)
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	if recent == nil {
		recent = []model.AdminActionLog{}
	}
	writeJSON(w, http.StatusOK, UserDetailResponse{User: target, RecentLogs: recent})
}

// AdminUpdateUserRequest is the body for PUT /admin/users/{id}.
type AdminUpdateUserRequest struct {
	Phone *string `json:"phone,omitempty"`
}

// Update handles PUT /admin/users/{id}.
func (h *UserAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)
	target, ok := h.manageableTarget(w, r)
	if !ok {
		return
	}

	var req AdminUpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Phone != nil {
		if err := h.users.UpdateProfile(r.Context(), store.UpdateProfileParams{
			ID:    target.ID,
			Phone: *req.Phone,
		}); err != nil {
			writeStoreError(w, err, "user not found", "")
			return
		}
	}

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:      actor.ID,
		TargetUserID: &target.ID,
		Action:       model.ActionUserUpdate,
		Payload:      map[string]any{"username": target.Username},
		IPAddress:    middleware.ClientIP(r),
	})

	updated, err := h.users.GetByID(r.Context(), target.ID)
	if err != nil {
		writeStoreError(w, err, "user not found", "")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /admin/users/{id}.
func (h *UserAdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)
	target, ok := h.manageableTarget(w, r)
	if !ok {
		return
	}
	if target.ID == actor.ID {
		writeJSONError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	if err := h.users.Delete(r.Context(), target.ID); err != nil {
		writeStoreError(w, err, "user not found", "user still owns records and cannot be deleted")
		return
	}

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:   actor.ID,
		Action:    model.ActionUserDelete,
		Payload:   map[string]any{"username": target.Username, "user_id": target.ID},
		IPAddress: middleware.ClientIP(r),
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// UpdateStatusRequest is the body for PUT /admin/users/{id}/status.
type UpdateStatusRequest struct {
	Status model.UserStatus `json:"status"`
}

// UpdateStatus handles PUT /admin/users/{id}/status.
func (h *UserAdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)
	target, ok := h.manageableTarget(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		writeJSONError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if target.ID == actor.ID && req.Status != model.UserStatusActive {
		writeJSONError(w, http.StatusBadRequest, "cannot suspend your own account")
		return
	}

	if err := h.users.UpdateStatus(r.Context(), target.ID, req.Status); err != nil {
		writeStoreError(w, err, "user not found", "")
		return
	}

	action := model.ActionUserActivate
	if req.Status != model.UserStatusActive {
		action = model.ActionUserSuspend
	}
	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:      actor.ID,
		TargetUserID: &target.ID,
		Action:       action,
		Payload:      map[string]any{"old_status": target.Status, "new_status": req.Status},
		IPAddress:    middleware.ClientIP(r),
	})

	updated, err := h.users.GetByID(r.Context(), target.ID)
	if err != nil {
		writeStoreError(w, err, "user not found", "")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// UpdateRoleRequest is the body for PUT /admin/users/{id}/role.
type UpdateRoleRequest struct {
	Role model.Role `json:"role"`
}

// UpdateRole handles PUT /admin/users/{id}/role. Granting OWNER is
// reserved for OWNER actors.
func (h *UserAdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)
	target, ok := h.manageableTarget(w, r)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Role.Valid() {
		writeJSONError(w, http.StatusBadRequest, "invalid role")
		return
	}
	if req.Role == model.RoleOwner && !auth.Allowed(actor.Role, auth.PermGrantOwnerRole) {
		writeJSONError(w, http.StatusForbidden, "only an owner can grant the owner role")
		return
	}
	if target.ID == actor.ID {
		writeJSONError(w, http.StatusBadRequest, "cannot change your own role")
		return
	}

	if err := h.users.UpdateRole(r.Context(), target.ID, req.Role); err != nil {
		writeStoreError(w, err, "user not found", "")
		return
	}

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:      actor.ID,
		TargetUserID: &target.ID,
		Action:       model.ActionRoleChange,
		Payload:      map[string]any{"old_role": target.Role, "new_role": req.Role},
		IPAddress:    middleware.ClientIP(r),
	})

	updated, err := h.users.GetByID(r.Context(), target.ID)
	if err != nil {
		writeStoreError(w, err, "user not found", "")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ResetPassword handles POST /admin/users/{id}/reset-password. The
// temporary plaintext appears in this one response and nowhere else;
// only the hash is stored and the audit payload omits it.
func (h *UserAdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)
	target, ok := h.manageableTarget(w, r)
	if !ok {
		return
	}

	temp, err := auth.TempPassword(auth.TempPasswordLength)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	hash, err := auth.HashPassword(temp)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := h.users.UpdatePassword(r.Context(), target.ID, hash); err != nil {
		writeStoreError(w, err, "user not found", "")
		return
	}

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:      actor.ID,
		TargetUserID: &target.ID,
		Action:       model.ActionPasswordReset,
		Payload:      map[string]any{"username": target.Username},
		IPAddress:    middleware.ClientIP(r),
	})

	writeJSON(w, http.StatusOK, map[string]string{"temp_password": temp})
}

// manageableTarget loads the {id} user and enforces CanManage. Writes
// the error response and returns ok=false on failure.
func (h *UserAdminHandler) manageableTarget(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	actor := middleware.GetUser(r)

	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid user id")
		return model.User{}, false
	}

	target, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "user not found", "")
		return model.User{}, false
	}
	if !auth.CanManage(actor, &target) {
		writeJSONError(w, http.StatusForbidden, "insufficient permissions to manage this user")
		return model.User{}, false
	}
	return target, true
}
