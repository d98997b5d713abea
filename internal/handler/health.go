// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/wickedhost/wicked-site/internal/version"
)

// HealthHandler serves the liveness probe.
type HealthHandler struct {
	db      *sql.DB
	version version.Info
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db *sql.DB, v version.Info) *HealthHandler {
	return &HealthHandler{db: db, version: v}
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version.String(),
	})
}
