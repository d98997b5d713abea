// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wickedhost/wicked-site/internal/model"
)

func createTestPage(t *testing.T, pages *PageStore, title, slug string, authorID int64, status model.PageStatus) model.Page {
	t.Helper()
	p, err := pages.Create(context.Background(), CreatePageParams{
		Title:    title,
		Slug:     slug,
		Body:     "# Hello\n\nSome **markdown** body.",
		AuthorID: authorID,
		Status:   status,
	})
	if err != nil {
		t.Fatalf("failed to create test page %s: %v", title, err)
	}
	return p
}

func TestPageStoreCreateDraft(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	pages := NewPageStore(db)

	admin := createTestUser(t, users, "admin", "admin@x.com", model.RoleAdmin)
	p := createTestPage(t, pages, "Terms", "terms", admin.ID, model.PageStatusDraft)

	assert.Equal(t, model.PageStatusDraft, p.Status)
	assert.False(t, p.PublishedAt.Valid, "drafts must not carry a publish timestamp")
}

func TestPageStoreCreatePublished(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	pages := NewPageStore(db)

	admin := createTestUser(t, users, "admin", "admin@x.com", model.RoleAdmin)
	p := createTestPage(t, pages, "Terms", "terms", admin.ID, model.PageStatusPublished)

	assert.True(t, p.PublishedAt.Valid)
}

func TestPageStorePublishTimestampSetOnce(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	pages := NewPageStore(db)
	ctx := context.Background()

	admin := createTestUser(t, users, "admin", "admin@x.com", model.RoleAdmin)
	p := createTestPage(t, pages, "Terms", "terms", admin.ID, model.PageStatusDraft)

	update := UpdatePageParams{
		ID:     p.ID,
		Title:  p.Title,
		Slug:   p.Slug,
		Body:   p.Body,
		Status: model.PageStatusPublished,
	}
	require.NoError(t, pages.Update(ctx, update))

	published, err := pages.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, published.PublishedAt.Valid)
	firstPublish := published.PublishedAt.Time

	// Unpublish then republish. The original timestamp survives.
	update.Status = model.PageStatusDraft
	require.NoError(t, pages.Update(ctx, update))
	update.Status = model.PageStatusPublished
	require.NoError(t, pages.Update(ctx, update))

	again, err := pages.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, again.PublishedAt.Valid)
	assert.True(t, again.PublishedAt.Time.Equal(firstPublish))
}

func TestPageStoreSlugConflict(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	pages := NewPageStore(db)

	admin := createTestUser(t, users, "admin", "admin@x.com", model.RoleAdmin)
	createTestPage(t, pages, "Terms", "terms", admin.ID, model.PageStatusDraft)

	_, err := pages.Create(context.Background(), CreatePageParams{
		Title:    "Other",
		Slug:     "terms",
		AuthorID: admin.ID,
		Status:   model.PageStatusDraft,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestPageStorePublicReads(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	pages := NewPageStore(db)
	ctx := context.Background()

	admin := createTestUser(t, users, "admin", "admin@x.com", model.RoleAdmin)
	createTestPage(t, pages, "Terms", "terms", admin.ID, model.PageStatusPublished)
	createTestPage(t, pages, "Secret", "secret", admin.ID, model.PageStatusDraft)

	got, err := pages.GetPublishedBySlug(ctx, "terms")
	require.NoError(t, err)
	assert.Equal(t, "Terms", got.Title)

	_, err = pages.GetPublishedBySlug(ctx, "secret")
	assert.ErrorIs(t, err, ErrNotFound, "drafts are invisible on the public path")

	published, err := pages.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "terms", published[0].Slug)

	all, err := pages.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPageStoreDelete(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	pages := NewPageStore(db)
	ctx := context.Background()

	admin := createTestUser(t, users, "admin", "admin@x.com", model.RoleAdmin)
	p := createTestPage(t, pages, "Terms", "terms", admin.ID, model.PageStatusDraft)

	require.NoError(t, pages.Delete(ctx, p.ID))
	_, err := pages.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, pages.Delete(ctx, p.ID), ErrNotFound)
}
