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

func createTestCategory(t *testing.T, hosting *HostingStore, name, slug string) model.HostingCategory {
	t.Helper()
	c, err := hosting.CreateCategory(context.Background(), CreateCategoryParams{
		Name:   name,
		Slug:   slug,
		Status: model.CategoryStatusActive,
	})
	if err != nil {
		t.Fatalf("failed to create test category %s: %v", name, err)
	}
	return c
}

func createTestProduct(t *testing.T, hosting *HostingStore, categoryID int64, name, slug string, status model.ProductStatus) model.HostingProduct {
	t.Helper()
	p, err := hosting.CreateProduct(context.Background(), CreateProductParams{
		CategoryID: categoryID,
		Name:       name,
		Slug:       slug,
		Price:      9.99,
		Status:     status,
	})
	if err != nil {
		t.Fatalf("failed to create test product %s: %v", name, err)
	}
	return p
}

func TestHostingStoreCategoryCRUD(t *testing.T) {
	db := testDB(t)
	hosting := NewHostingStore(db)
	ctx := context.Background()

	c := createTestCategory(t, hosting, "Game Servers", "game-servers")
	assert.Equal(t, model.CategoryStatusActive, c.Status)

	bySlug, err := hosting.GetCategoryBySlug(ctx, "game-servers")
	require.NoError(t, err)
	assert.Equal(t, c.ID, bySlug.ID)

	require.NoError(t, hosting.UpdateCategory(ctx, UpdateCategoryParams{
		ID:       c.ID,
		Name:     "Game Hosting",
		Slug:     "game-servers",
		Position: 5,
		Status:   model.CategoryStatusInactive,
	}))

	got, err := hosting.GetCategoryByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Game Hosting", got.Name)
	assert.Equal(t, int64(5), got.Position)
	assert.Equal(t, model.CategoryStatusInactive, got.Status)
}

func TestHostingStoreCategorySlugConflict(t *testing.T) {
	db := testDB(t)
	hosting := NewHostingStore(db)

	createTestCategory(t, hosting, "Game Servers", "game-servers")

	_, err := hosting.CreateCategory(context.Background(), CreateCategoryParams{
		Name:   "Other",
		Slug:   "game-servers",
		Status: model.CategoryStatusActive,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestHostingStoreProductSlugConflict(t *testing.T) {
	db := testDB(t)
	hosting := NewHostingStore(db)

	c := createTestCategory(t, hosting, "VPS", "vps")
	createTestProduct(t, hosting, c.ID, "VPS Small", "vps-small", model.ProductStatusAvailable)

	_, err := hosting.CreateProduct(context.Background(), CreateProductParams{
		CategoryID: c.ID,
		Name:       "Other",
		Slug:       "vps-small",
		Price:      1.99,
		Status:     model.ProductStatusAvailable,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestHostingStoreDeleteCategoryCascades(t *testing.T) {
	db := testDB(t)
	hosting := NewHostingStore(db)
	ctx := context.Background()

	c := createTestCategory(t, hosting, "VPS", "vps")
	p1 := createTestProduct(t, hosting, c.ID, "VPS Small", "vps-small", model.ProductStatusAvailable)
	p2 := createTestProduct(t, hosting, c.ID, "VPS Large", "vps-large", model.ProductStatusAvailable)

	require.NoError(t, hosting.DeleteCategory(ctx, c.ID))

	_, err := hosting.GetCategoryByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = hosting.GetProductByID(ctx, p1.ID)
	assert.ErrorIs(t, err, ErrNotFound, "products must cascade with their category")
	_, err = hosting.GetProductByID(ctx, p2.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHostingStoreProductCRUD(t *testing.T) {
	db := testDB(t)
	hosting := NewHostingStore(db)
	ctx := context.Background()

	c := createTestCategory(t, hosting, "VPS", "vps")
	p := createTestProduct(t, hosting, c.ID, "VPS Small", "vps-small", model.ProductStatusAvailable)
	assert.Equal(t, "[]", p.Features)

	require.NoError(t, hosting.UpdateProduct(ctx, UpdateProductParams{
		ID:         p.ID,
		CategoryID: c.ID,
		Name:       "VPS Small v2",
		Slug:       "vps-small",
		Price:      19.99,
		Status:     model.ProductStatusOutOfStock,
		Features:   `["2 vCPU","4GB RAM"]`,
	}))

	got, err := hosting.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "VPS Small v2", got.Name)
	assert.Equal(t, 19.99, got.Price)
	assert.Equal(t, model.ProductStatusOutOfStock, got.Status)
	assert.Equal(t, `["2 vCPU","4GB RAM"]`, got.Features)

	require.NoError(t, hosting.DeleteProduct(ctx, p.ID))
	_, err = hosting.GetProductByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHostingStoreListProductsByCategoryStatusFilter(t *testing.T) {
	db := testDB(t)
	hosting := NewHostingStore(db)
	ctx := context.Background()

	c := createTestCategory(t, hosting, "VPS", "vps")
	createTestProduct(t, hosting, c.ID, "A", "a", model.ProductStatusAvailable)
	createTestProduct(t, hosting, c.ID, "B", "b", model.ProductStatusOutOfStock)
	createTestProduct(t, hosting, c.ID, "C", "c", model.ProductStatusHidden)

	visible, err := hosting.ListProductsByCategory(ctx, c.ID,
		model.ProductStatusAvailable, model.ProductStatusOutOfStock)
	require.NoError(t, err)
	assert.Len(t, visible, 2)
	for _, p := range visible {
		assert.NotEqual(t, model.ProductStatusHidden, p.Status)
	}

	all, err := hosting.ListProductsByCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestHostingStoreListActiveCategories(t *testing.T) {
	db := testDB(t)
	hosting := NewHostingStore(db)
	ctx := context.Background()

	createTestCategory(t, hosting, "Active", "active")
	inactive := createTestCategory(t, hosting, "Hidden", "hidden")
	require.NoError(t, hosting.UpdateCategory(ctx, UpdateCategoryParams{
		ID:     inactive.ID,
		Name:   inactive.Name,
		Slug:   inactive.Slug,
		Status: model.CategoryStatusInactive,
	}))

	active, err := hosting.ListActiveCategories(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "active", active[0].Slug)
}
