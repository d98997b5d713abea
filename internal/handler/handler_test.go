// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wickedhost/wicked-site/internal/auth"
	"github.com/wickedhost/wicked-site/internal/config"
	"github.com/wickedhost/wicked-site/internal/model"
	"github.com/wickedhost/wicked-site/internal/store"
	"github.com/wickedhost/wicked-site/internal/version"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

type testServer struct {
	router     http.Handler
	stores     *Stores
	tokens     *auth.TokenService
	uploadsDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := store.NewDB(":memory:")
	require.NoError(t, err)
	// A :memory: database exists per connection; the pool must not
	// open a second one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))

	stores := NewStores(db)
	tokens := auth.NewTokenService(testSecret, time.Hour)

	cfg := &config.Config{
		UploadsDir:     t.TempDir(),
		TokenTTL:       time.Hour,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
	log := slog.New(slog.DiscardHandler)

	return &testServer{
		router:     NewRouter(cfg, stores, tokens, version.Info{Version: "test"}, log),
		stores:     stores,
		tokens:     tokens,
		uploadsDir: cfg.UploadsDir,
	}
}

// createUser inserts a user directly and returns it with a bearer
// token for request helpers.
func (ts *testServer) createUser(t *testing.T, username string, role model.Role) (model.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user, err := ts.stores.Users.Create(context.Background(), store.CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
		Status:       model.UserStatusActive,
	})
	require.NoError(t, err)

	token, err := ts.tokens.Issue(&user, time.Hour)
	require.NoError(t, err)
	return user, token
}

// do runs one request through the router. A non-empty token is sent
// as a bearer header; body may be nil or any JSON-marshalable value.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
