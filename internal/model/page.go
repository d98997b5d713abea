// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// PageStatus is a content page publication state.
type PageStatus string

// Page statuses.
const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusPublished PageStatus = "published"
)

// Valid reports whether s is a known page status.
func (s PageStatus) Valid() bool {
	return s == PageStatusDraft || s == PageStatusPublished
}

// Page represents a markdown content page. PublishedAt is set once,
// on the first transition to published.
type Page struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	Slug            string       `json:"slug"`
	Body            string       `json:"body"` // Markdown source
	Category        string       `json:"category"`
	MetaDescription string       `json:"meta_description,omitempty"`
	AuthorID        int64        `json:"author_id"`
	Status          PageStatus   `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	PublishedAt     sql.NullTime `json:"published_at,omitempty"`
}

// IsPublished returns true if the page is published.
func (p *Page) IsPublished() bool {
	return p.Status == PageStatusPublished
}
