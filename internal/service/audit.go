// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic on top of the store layer,
// including the admin audit trail and upload handling.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/wickedhost/wicked-site/internal/model"
	"github.com/wickedhost/wicked-site/internal/store"
)

// AuditService records admin actions. Recording is best-effort: a
// failed write must never fail the action it describes.
type AuditService struct {
	logs *store.AuditStore
	log  *slog.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(logs *store.AuditStore, log *slog.Logger) *AuditService {
	return &AuditService{logs: logs, log: log}
}

// RecordParams describes one admin action.
type RecordParams struct {
	ActorID      int64
	TargetUserID *int64
	Action       model.ActionType
	Payload      map[string]any
	IPAddress    string
}

// Record writes an audit log entry. Errors are logged and swallowed.
func (s *AuditService) Record(ctx context.Context, p RecordParams) {
	var target sql.NullInt64
	if p.TargetUserID != nil {
		target = sql.NullInt64{Int64: *p.TargetUserID, Valid: true}
	}

	payloadJSON := "{}"
	if p.Payload != nil {
		if b, err := json.Marshal(p.Payload); err == nil {
			payloadJSON = string(b)
		}
	}

	_, err := s.logs.Create(ctx, store.CreateLogParams{
		ActorID:      p.ActorID,
		TargetUserID: target,
		Action:       p.Action,
		Payload:      payloadJSON,
		IPAddress:    p.IPAddress,
	})
	if err != nil {
		s.log.Warn("failed to record audit log",
			"action", p.Action,
			"actor_id", p.ActorID,
			"error", err)
	}
}
