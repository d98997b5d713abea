// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wickedhost/wicked-site/internal/model"
)

// BotStore persists Discord bot listings.
type BotStore struct {
	db *sql.DB
}

// NewBotStore creates a BotStore.
func NewBotStore(db *sql.DB) *BotStore {
	return &BotStore{db: db}
}

const botColumns = `id, name, slug, short_description, description, invite_link, image_path, status, created_by, updated_by, created_at, updated_at`

func scanBot(row interface{ Scan(...any) error }) (model.Bot, error) {
	var b model.Bot
	err := row.Scan(&b.ID, &b.Name, &b.Slug, &b.ShortDescription, &b.Description,
		&b.InviteLink, &b.ImagePath, &b.Status, &b.CreatedBy, &b.UpdatedBy,
		&b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// CreateBotParams holds the fields for creating a bot listing. Slug
// must already be derived; slug filling is an explicit pre-commit
// step at the call site, not a store hook.
type CreateBotParams struct {
	Name             string
	Slug             string
	ShortDescription string
	Description      string
	InviteLink       string
	ImagePath        string
	Status           model.BotStatus
	CreatedBy        int64
}

// Create inserts a bot listing. Returns ErrConflict on a duplicate slug.
func (s *BotStore) Create(ctx context.Context, p CreateBotParams) (model.Bot, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bots (name, slug, short_description, description, invite_link, image_path, status, created_by, updated_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Slug, p.ShortDescription, p.Description, p.InviteLink, p.ImagePath,
		p.Status, p.CreatedBy, p.CreatedBy, now, now)
	if err != nil {
		return model.Bot{}, translateErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Bot{}, fmt.Errorf("reading insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the bot with the given ID.
func (s *BotStore) GetByID(ctx context.Context, id int64) (model.Bot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+botColumns+` FROM bots WHERE id = ?`, id)
	b, err := scanBot(row)
	if err != nil {
		return model.Bot{}, translateErr(err)
	}
	return b, nil
}

// GetBySlug returns the bot with the given slug.
func (s *BotStore) GetBySlug(ctx context.Context, slug string) (model.Bot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+botColumns+` FROM bots WHERE slug = ?`, slug)
	b, err := scanBot(row)
	if err != nil {
		return model.Bot{}, translateErr(err)
	}
	return b, nil
}

// List returns all bots, newest first.
func (s *BotStore) List(ctx context.Context) ([]model.Bot, error) {
	return s.list(ctx, `SELECT `+botColumns+` FROM bots ORDER BY created_at DESC`)
}

// ListActive returns active bots only, for the public catalog.
func (s *BotStore) ListActive(ctx context.Context) ([]model.Bot, error) {
	return s.list(ctx, `SELECT `+botColumns+` FROM bots WHERE status = ? ORDER BY created_at DESC`,
		model.BotStatusActive)
}

func (s *BotStore) list(ctx context.Context, query string, args ...any) ([]model.Bot, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var bots []model.Bot
	for rows.Next() {
		b, err := scanBot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bot: %w", err)
		}
		bots = append(bots, b)
	}
	return bots, rows.Err()
}

// UpdateBotParams holds the fields for updating a bot listing.
type UpdateBotParams struct {
	ID               int64
	Name             string
	Slug             string
	ShortDescription string
	Description      string
	InviteLink       string
	ImagePath        string
	Status           model.BotStatus
	UpdatedBy        int64
}

// Update rewrites a bot listing.
func (s *BotStore) Update(ctx context.Context, p UpdateBotParams) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bots SET name = ?, slug = ?, short_description = ?, description = ?,
		 invite_link = ?, image_path = ?, status = ?, updated_by = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Slug, p.ShortDescription, p.Description, p.InviteLink, p.ImagePath,
		p.Status, p.UpdatedBy, time.Now(), p.ID)
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

// Delete removes a bot listing.
func (s *BotStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bots WHERE id = ?`, id)
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

// Count returns the total number of bot listings.
func (s *BotStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bots`).Scan(&n)
	return n, err
}
