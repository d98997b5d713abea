// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wickedhost/wicked-site/internal/model"
	"github.com/wickedhost/wicked-site/internal/store"
)

func TestBotCreateSlugDerived(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.createUser(t, "admin", model.RoleAdmin)

	rec := ts.do(t, http.MethodPost, "/admin/bots/", adminToken, map[string]any{
		"name":              "Café Mod Bot",
		"short_description": "Keeps things tidy",
		"invite_link":       "https://discord.com/oauth2/authorize?client_id=1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	bot := decodeBody[model.Bot](t, rec)
	assert.Equal(t, "cafe-mod-bot", bot.Slug)
	assert.Equal(t, model.BotStatusActive, bot.Status)

	logs, _, err := ts.stores.Logs.List(context.Background(), store.ListLogsParams{Action: model.ActionBotCreate})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestBotSlugConflict(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.createUser(t, "admin", model.RoleAdmin)

	body := map[string]any{"name": "Mod Bot", "short_description": "x"}
	rec := ts.do(t, http.MethodPost, "/admin/bots/", adminToken, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/admin/bots/", adminToken, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBotPublicMirrorHidesInactive(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.createUser(t, "admin", model.RoleAdmin)

	rec := ts.do(t, http.MethodPost, "/admin/bots/", adminToken, map[string]any{
		"name": "Visible Bot", "short_description": "x",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/admin/bots/", adminToken, map[string]any{
		"name": "Hidden Bot", "short_description": "x", "status": "INACTIVE",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	hidden := decodeBody[model.Bot](t, rec)

	rec = ts.do(t, http.MethodGet, "/public/bots", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	public := decodeBody[map[string][]model.Bot](t, rec)
	require.Len(t, public["bots"], 1)
	assert.Equal(t, "visible-bot", public["bots"][0].Slug)

	rec = ts.do(t, http.MethodGet, "/public/bots/"+hidden.Slug, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/public/bots/visible-bot", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Admin listing still shows both.
	rec = ts.do(t, http.MethodGet, "/admin/bots/", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeBody[map[string][]model.Bot](t, rec)
	assert.Len(t, all["bots"], 2)
}

func TestBotAdminRoutesRequireAdmin(t *testing.T) {
	ts := newTestServer(t)
	_, memberToken := ts.createUser(t, "member", model.RoleFree)

	rec := ts.do(t, http.MethodPost, "/admin/bots/", memberToken, map[string]any{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// doMultipart posts a multipart form with the given fields and one PNG
// image part.
func (ts *testServer) doMultipart(t *testing.T, method, path, token string, fields map[string]string, withImage bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withImage {
		part, err := mw.CreateFormFile("image", "upload.png")
		require.NoError(t, err)

		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		for y := range 8 {
			for x := range 8 {
				img.Set(x, y, color.RGBA{R: 200, A: 255})
			}
		}
		require.NoError(t, png.Encode(part, img))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func TestBotMultipartCreateWithImage(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.createUser(t, "admin", model.RoleAdmin)

	rec := ts.doMultipart(t, http.MethodPost, "/admin/bots/", adminToken, map[string]string{
		"name":              "Image Bot",
		"short_description": "Has a logo",
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	bot := decodeBody[model.Bot](t, rec)
	assert.NotEmpty(t, bot.ImagePath)
	assert.Equal(t, filepath.Join("images", "bots"), filepath.Dir(bot.ImagePath))
}

func TestBotDeleteRemovesImage(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.createUser(t, "admin", model.RoleAdmin)

	rec := ts.doMultipart(t, http.MethodPost, "/admin/bots/", adminToken, map[string]string{
		"name":              "Doomed Bot",
		"short_description": "x",
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	bot := decodeBody[model.Bot](t, rec)
	require.NotEmpty(t, bot.ImagePath)

	rec = ts.do(t, http.MethodDelete, fmt.Sprintf("/admin/bots/%d", bot.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/admin/bots/%d", bot.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
