// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wickedhost/wicked-site/internal/model"
	"github.com/wickedhost/wicked-site/internal/store"
)

func createCategoryViaAPI(t *testing.T, ts *testServer, token, name string) model.HostingCategory {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/admin/hosting/categories/", token, CategoryRequest{Name: name})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody[model.HostingCategory](t, rec)
}

func TestCategoryCreateUpdateDelete(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.createUser(t, "admin", model.RoleAdmin)

	cat := createCategoryViaAPI(t, ts, adminToken, "Game Servers")
	assert.Equal(t, "game-servers", cat.Slug)
	assert.Equal(t, model.CategoryStatusActive, cat.Status)

	rec := ts.do(t, http.MethodPut, fmt.Sprintf("/admin/hosting/categories/%d", cat.ID), adminToken,
		CategoryRequest{Name: "Game Servers", Slug: "game-servers", Status: model.CategoryStatusInactive, Position: 5})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[model.HostingCategory](t, rec)
	assert.Equal(t, model.CategoryStatusInactive, updated.Status)
	assert.Equal(t, int64(5), updated.Position)

	rec = ts.do(t, http.MethodDelete, fmt.Sprintf("/admin/hosting/categories/%d", cat.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	logs, _, err := ts.stores.Logs.List(context.Background(), store.ListLogsParams{Action: model.ActionCategoryDelete})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestCategoryDeleteCascadesToProducts(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.createUser(t, "admin", model.RoleAdmin)

	cat := createCategoryViaAPI(t, ts, adminToken, "VPS")

	rec := ts.do(t, http.MethodPost, "/admin/hosting/products/", adminToken, map[string]any{
		"category_id": cat.ID,
		"name":        "VPS Small",
		"price":       4.99,
		"features":    []string{"1 vCPU", "2 GB RAM"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	product := decodeBody[model.HostingProduct](t, rec)

	rec = ts.do(t, http.MethodDelete, fmt.Sprintf("/admin/hosting/categories/%d", cat.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := ts.stores.Hosting.GetProductByID(context.Background(), product.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProductValidation(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.createUser(t, "admin", model.RoleAdmin)
	cat := createCategoryViaAPI(t, ts, adminToken, "Web")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"category_id": cat.ID, "price": 1.0}},
		{"missing category", map[string]any{"name": "Plan", "price": 1.0}},
		{"negative price", map[string]any{"category_id": cat.ID, "name": "Plan", "price": -1.0}},
		{"unknown category", map[string]any{"category_id": 9999, "name": "Plan", "price": 1.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/admin/hosting/products/", adminToken, tt.body)
			assert.Contains(t, []int{http.StatusBadRequest, http.StatusNotFound}, rec.Code)
		})
	}
}

func TestProductSlugConflict(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.createUser(t, "admin", model.RoleAdmin)
	cat := createCategoryViaAPI(t, ts, adminToken, "Minecraft")
	other := createCategoryViaAPI(t, ts, adminToken, "Rust")

	body := map[string]any{"category_id": cat.ID, "name": "Budget Plan", "price": 1.99}
	rec := ts.do(t, http.MethodPost, "/admin/hosting/products/", adminToken, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/admin/hosting/products/", adminToken, body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Slugs are unique across the whole catalog, not per category.
	rec = ts.do(t, http.MethodPost, "/admin/hosting/products/", adminToken, map[string]any{
		"category_id": other.ID, "name": "Budget Plan", "price": 2.99,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCategoryDeleteRemovesProductImages(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.createUser(t, "admin", model.RoleAdmin)
	cat := createCategoryViaAPI(t, ts, adminToken, "Imaged Plans")

	var files []string
	for _, name := range []string{"Plan Alpha", "Plan Beta"} {
		rec := ts.doMultipart(t, http.MethodPost, "/admin/hosting/products/", adminToken, map[string]string{
			"category_id": strconv.FormatInt(cat.ID, 10),
			"name":        name,
			"price":       "9.99",
		}, true)
		require.Equal(t, http.StatusCreated, rec.Code)
		product := decodeBody[model.HostingProduct](t, rec)
		require.NotEmpty(t, product.ImagePath)
		files = append(files, filepath.Join(ts.uploadsDir, product.ImagePath))
	}
	for _, f := range files {
		_, err := os.Stat(f)
		require.NoError(t, err)
	}

	// One file already being gone must not stop the remaining cleanup.
	require.NoError(t, os.Remove(files[0]))

	rec := ts.do(t, http.MethodDelete, fmt.Sprintf("/admin/hosting/categories/%d", cat.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, f := range files {
		_, err := os.Stat(f)
		assert.True(t, os.IsNotExist(err), f)
	}
}

func TestPublicHostingHidesInactiveAndHidden(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.createUser(t, "admin", model.RoleAdmin)

	active := createCategoryViaAPI(t, ts, adminToken, "Active Category")
	inactive := createCategoryViaAPI(t, ts, adminToken, "Inactive Category")
	rec := ts.do(t, http.MethodPut, fmt.Sprintf("/admin/hosting/categories/%d", inactive.ID), adminToken,
		CategoryRequest{Name: inactive.Name, Slug: inactive.Slug, Status: model.CategoryStatusInactive})
	require.Equal(t, http.StatusOK, rec.Code)

	for _, p := range []map[string]any{
		{"category_id": active.ID, "name": "Shown Plan", "price": 9.99},
		{"category_id": active.ID, "name": "Sold Out Plan", "price": 9.99, "status": "OUT_OF_STOCK"},
		{"category_id": active.ID, "name": "Secret Plan", "price": 9.99, "status": "HIDDEN"},
	} {
		rec = ts.do(t, http.MethodPost, "/admin/hosting/products/", adminToken, p)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/public/hosting", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	public := decodeBody[map[string][]PublicCategory](t, rec)
	require.Len(t, public["categories"], 1)
	got := public["categories"][0]
	assert.Equal(t, active.Slug, got.Slug)
	require.Len(t, got.Products, 2)
	for _, p := range got.Products {
		assert.NotEqual(t, model.ProductStatusHidden, p.Status)
	}

	rec = ts.do(t, http.MethodGet, "/public/hosting/"+inactive.Slug, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/public/hosting/"+active.Slug, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	one := decodeBody[PublicCategory](t, rec)
	assert.Len(t, one.Products, 2)
}

func TestProductUpdateAndDeleteAudited(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.createUser(t, "admin", model.RoleAdmin)
	cat := createCategoryViaAPI(t, ts, adminToken, "Dedicated")

	rec := ts.do(t, http.MethodPost, "/admin/hosting/products/", adminToken, map[string]any{
		"category_id": cat.ID, "name": "Box One", "price": 49.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	product := decodeBody[model.HostingProduct](t, rec)

	rec = ts.do(t, http.MethodPut, fmt.Sprintf("/admin/hosting/products/%d", product.ID), adminToken, map[string]any{
		"category_id": cat.ID, "name": "Box One", "slug": product.Slug, "price": 59.0, "status": "OUT_OF_STOCK",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[model.HostingProduct](t, rec)
	assert.Equal(t, 59.0, updated.Price)
	assert.Equal(t, model.ProductStatusOutOfStock, updated.Status)

	rec = ts.do(t, http.MethodDelete, fmt.Sprintf("/admin/hosting/products/%d", product.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, action := range []model.ActionType{model.ActionProductCreate, model.ActionProductUpdate, model.ActionProductDelete} {
		logs, _, err := ts.stores.Logs.List(context.Background(), store.ListLogsParams{Action: action})
		require.NoError(t, err)
		assert.Len(t, logs, 1, string(action))
	}
}
