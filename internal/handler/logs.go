// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"

	"github.com/wickedhost/wicked-site/internal/model"
	"github.com/wickedhost/wicked-site/internal/store"
)

// LogHandler handles the admin audit trail endpoints. Listing is open
// to any administrative role; deleting a record is OWNER only, gated
// by the router.
type LogHandler struct {
	logs *store.AuditStore
}

// NewLogHandler creates a LogHandler.
func NewLogHandler(logs *store.AuditStore) *LogHandler {
	return &LogHandler{logs: logs}
}

// LogListResponse is the body for GET /admin/logs.
type LogListResponse struct {
	Logs   []model.AdminActionLog `json:"logs"`
	Total  int64                  `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// List handles GET /admin/logs.
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 50, 200)

	q := r.URL.Query()
	params := store.ListLogsParams{
		Action: model.ActionType(q.Get("action")),
		Limit:  limit,
		Offset: offset,
	}
	if v := q.Get("actor_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid actor_id")
			return
		}
		params.ActorID = id
	}
	if v := q.Get("target_user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid target_user_id")
			return
		}
		params.TargetUserID = id
	}
	if params.Action != "" && !params.Action.Valid() {
		writeJSONError(w, http.StatusBadRequest, "invalid action filter")
		return
	}

	logs, total, err := h.logs.List(r.Context(), params)
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	if logs == nil {
		logs = []model.AdminActionLog{}
	}
	writeJSON(w, http.StatusOK, LogListResponse{Logs: logs, Total: total, Limit: limit, Offset: offset})
}

// Delete handles DELETE /admin/logs/{id}. The audit trail is
// append-only for everyone below OWNER; this is the only removal path.
func (h *LogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid log id")
		return
	}

	if err := h.logs.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "log entry not found", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "log entry deleted"})
}
