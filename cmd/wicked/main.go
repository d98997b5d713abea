// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wickedhost/wicked-site/internal/auth"
	"github.com/wickedhost/wicked-site/internal/config"
	"github.com/wickedhost/wicked-site/internal/handler"
	"github.com/wickedhost/wicked-site/internal/model"
	"github.com/wickedhost/wicked-site/internal/store"
	"github.com/wickedhost/wicked-site/internal/version"
)

// Version information injected at build time via ldflags.
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data and uploads directories exist
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	stores := handler.NewStores(db)

	if err := seedOwner(context.Background(), cfg, stores.Users); err != nil {
		return fmt.Errorf("seeding owner account: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	router := handler.NewRouter(cfg, stores, tokens, versionInfo, logger)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Allow for image uploads on slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// seedOwner creates the initial OWNER account on an empty database.
// When no seed password is configured a temporary one is generated and
// printed once to the log; it exists nowhere else.
func seedOwner(ctx context.Context, cfg *config.Config, users *store.UserStore) error {
	n, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if n > 0 {
		return nil
	}

	password := cfg.SeedOwnerPassword
	generated := false
	if password == "" {
		password, err = auth.TempPassword(auth.TempPasswordLength)
		if err != nil {
			return fmt.Errorf("generating owner password: %w", err)
		}
		generated = true
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	owner, err := users.Create(ctx, store.CreateUserParams{
		Username:     cfg.SeedOwnerUsername,
		Email:        cfg.SeedOwnerEmail,
		PasswordHash: hash,
		Role:         model.RoleOwner,
		Status:       model.UserStatusActive,
	})
	if err != nil {
		return fmt.Errorf("creating owner: %w", err)
	}

	if generated {
		slog.Info("seeded initial owner account",
			"username", owner.Username,
			"temp_password", password,
			"note", "change this password after first login")
	} else {
		slog.Info("seeded initial owner account", "username", owner.Username)
	}
	return nil
}
