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

// AuditStore persists admin action log records. Records are
// append-only: there is no update path, only Create, reads and an
// explicit OWNER-gated Delete.
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore creates an AuditStore.
func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

const auditColumns = `id, actor_id, target_user_id, action, payload, ip_address, created_at`

func scanAuditLog(row interface{ Scan(...any) error }) (model.AdminActionLog, error) {
	var l model.AdminActionLog
	err := row.Scan(&l.ID, &l.ActorID, &l.TargetUserID, &l.Action, &l.Payload, &l.IPAddress, &l.CreatedAt)
	return l, err
}

// CreateLogParams holds the fields for one audit record.
type CreateLogParams struct {
	ActorID      int64
	TargetUserID sql.NullInt64
	Action       model.ActionType
	Payload      string // JSON
	IPAddress    string
}

// Create appends an audit record.
func (s *AuditStore) Create(ctx context.Context, p CreateLogParams) (model.AdminActionLog, error) {
	if p.Payload == "" {
		p.Payload = "{}"
	}
	now := time.Now()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_action_logs (actor_id, target_user_id, action, payload, ip_address, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ActorID, p.TargetUserID, p.Action, p.Payload, p.IPAddress, now)
	if err != nil {
		return model.AdminActionLog{}, translateErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.AdminActionLog{}, fmt.Errorf("reading insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns a single audit record.
func (s *AuditStore) GetByID(ctx context.Context, id int64) (model.AdminActionLog, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+auditColumns+` FROM admin_action_logs WHERE id = ?`, id)
	l, err := scanAuditLog(row)
	if err != nil {
		return model.AdminActionLog{}, translateErr(err)
	}
	return l, nil
}

// ListLogsParams filters and paginates the audit trail.
type ListLogsParams struct {
	ActorID      int64
	TargetUserID int64
	Action       model.ActionType
	Limit        int
	Offset       int
}

// List returns audit records newest first plus the total match count.
func (s *AuditStore) List(ctx context.Context, p ListLogsParams) ([]model.AdminActionLog, int64, error) {
	if p.Limit <= 0 {
		p.Limit = 50
	}

	var conds []string
	var args []any

	if p.ActorID != 0 {
		conds = append(conds, `actor_id = ?`)
		args = append(args, p.ActorID)
	}
	if p.TargetUserID != 0 {
		conds = append(conds, `target_user_id = ?`)
		args = append(args, p.TargetUserID)
	}
	if p.Action != "" {
		conds = append(conds, `action = ?`)
		args = append(args, p.Action)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_action_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting logs: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+auditColumns+` FROM admin_action_logs`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var logs []model.AdminActionLog
	for rows.Next() {
		l, err := scanAuditLog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, total, rows.Err()
}

// ListByTarget returns the most recent records targeting a user.
func (s *AuditStore) ListByTarget(ctx context.Context, targetUserID int64, limit int) ([]model.AdminActionLog, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+auditColumns+` FROM admin_action_logs WHERE target_user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`, targetUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing logs by target: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var logs []model.AdminActionLog
	for rows.Next() {
		l, err := scanAuditLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Delete removes a single audit record. Authorization (OWNER only) is
// enforced by the caller.
func (s *AuditStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM admin_action_logs WHERE id = ?`, id)
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
