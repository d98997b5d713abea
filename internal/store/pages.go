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

// PageStore persists markdown content pages.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a PageStore.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

const pageColumns = `id, title, slug, body, category, meta_description, author_id, status, created_at, updated_at, published_at`

func scanPage(row interface{ Scan(...any) error }) (model.Page, error) {
	var p model.Page
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Category, &p.MetaDescription,
		&p.AuthorID, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt)
	return p, err
}

// CreatePageParams holds the fields for creating a page.
type CreatePageParams struct {
	Title           string
	Slug            string
	Body            string
	Category        string
	MetaDescription string
	AuthorID        int64
	Status          model.PageStatus
}

// Create inserts a page. A page created directly as published gets its
// publish timestamp immediately.
func (s *PageStore) Create(ctx context.Context, p CreatePageParams) (model.Page, error) {
	now := time.Now()
	var publishedAt sql.NullTime
	if p.Status == model.PageStatusPublished {
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (title, slug, body, category, meta_description, author_id, status, created_at, updated_at, published_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Slug, p.Body, p.Category, p.MetaDescription, p.AuthorID, p.Status,
		now, now, publishedAt)
	if err != nil {
		return model.Page{}, translateErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Page{}, fmt.Errorf("reading insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the page with the given ID.
func (s *PageStore) GetByID(ctx context.Context, id int64) (model.Page, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	p, err := scanPage(row)
	if err != nil {
		return model.Page{}, translateErr(err)
	}
	return p, nil
}

// GetBySlug returns the page with the given slug.
func (s *PageStore) GetBySlug(ctx context.Context, slug string) (model.Page, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = ?`, slug)
	p, err := scanPage(row)
	if err != nil {
		return model.Page{}, translateErr(err)
	}
	return p, nil
}

// GetPublishedBySlug returns a published page by slug, for the public
// read path.
func (s *PageStore) GetPublishedBySlug(ctx context.Context, slug string) (model.Page, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE slug = ? AND status = ?`,
		slug, model.PageStatusPublished)
	p, err := scanPage(row)
	if err != nil {
		return model.Page{}, translateErr(err)
	}
	return p, nil
}

// List returns all pages, newest first.
func (s *PageStore) List(ctx context.Context) ([]model.Page, error) {
	return s.list(ctx, `SELECT `+pageColumns+` FROM pages ORDER BY created_at DESC`)
}

// ListPublished returns published pages only.
func (s *PageStore) ListPublished(ctx context.Context) ([]model.Page, error) {
	return s.list(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE status = ? ORDER BY published_at DESC`,
		model.PageStatusPublished)
}

func (s *PageStore) list(ctx context.Context, query string, args ...any) ([]model.Page, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// UpdatePageParams holds the fields for updating a page.
type UpdatePageParams struct {
	ID              int64
	Title           string
	Slug            string
	Body            string
	Category        string
	MetaDescription string
	Status          model.PageStatus
}

// Update rewrites a page. The publish timestamp is set on the first
// draft→published transition and never touched again.
func (s *PageStore) Update(ctx context.Context, p UpdatePageParams) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pages SET title = ?, slug = ?, body = ?, category = ?, meta_description = ?,
		 status = ?, updated_at = ?,
		 published_at = CASE WHEN ? = 'published' AND published_at IS NULL THEN ? ELSE published_at END
		 WHERE id = ?`,
		p.Title, p.Slug, p.Body, p.Category, p.MetaDescription, p.Status, time.Now(),
		p.Status, time.Now(), p.ID)
	if err != nil {
		return translateErr(err)
	}
	return oneRow(res)
}

// Delete removes a page.
func (s *PageStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return translateErr(err)
	}
	return oneRow(res)
}
