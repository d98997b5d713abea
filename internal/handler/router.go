// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wickedhost/wicked-site/internal/auth"
	"github.com/wickedhost/wicked-site/internal/config"
	"github.com/wickedhost/wicked-site/internal/middleware"
	"github.com/wickedhost/wicked-site/internal/service"
	"github.com/wickedhost/wicked-site/internal/store"
	"github.com/wickedhost/wicked-site/internal/version"
)

// Stores bundles the repositories the router wires into handlers.
type Stores struct {
	DB      *sql.DB
	Users   *store.UserStore
	Logs    *store.AuditStore
	Bots    *store.BotStore
	Hosting *store.HostingStore
	Pages   *store.PageStore
}

// NewStores creates all repositories over one database handle.
func NewStores(db *sql.DB) *Stores {
	return &Stores{
		DB:      db,
		Users:   store.NewUserStore(db),
		Logs:    store.NewAuditStore(db),
		Bots:    store.NewBotStore(db),
		Hosting: store.NewHostingStore(db),
		Pages:   store.NewPageStore(db),
	}
}

// NewRouter assembles the full route tree. Public reads are open,
// auth endpoints are rate limited per IP, and the admin subtree is
// gated by Authenticate plus RequireAdmin with per-route permission
// checks where the permission table is stricter.
func NewRouter(cfg *config.Config, stores *Stores, tokens *auth.TokenService, v version.Info, log *slog.Logger) http.Handler {
	audit := service.NewAuditService(stores.Logs, log)
	uploads := service.NewUploadService(cfg.UploadsDir, log)

	authH := NewAuthHandler(stores.Users, tokens, cfg.TokenTTL, cfg.RefreshTTL)
	profileH := NewProfileHandler(stores.Users, stores.Logs)
	usersH := NewUserAdminHandler(stores.Users, stores.Logs, audit)
	logsH := NewLogHandler(stores.Logs)
	botsH := NewBotHandler(stores.Bots, uploads, audit)
	hostingH := NewHostingHandler(stores.Hosting, uploads, audit)
	pagesH := NewPageHandler(stores.Pages, audit)
	dashH := NewDashboardHandler(stores.Users, stores.Bots, stores.Hosting, stores.Pages)
	healthH := NewHealthHandler(stores.DB, v)

	authLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", healthH.Check)

	// Public read-only mirrors, no authentication.
	r.Route("/public", func(r chi.Router) {
		r.Get("/bots", botsH.ListPublic)
		r.Get("/bots/{slug}", botsH.GetPublic)
		r.Get("/hosting", hostingH.ListPublic)
		r.Get("/hosting/{slug}", hostingH.GetPublicCategory)
		r.Get("/pages", pagesH.ListPublic)
		r.Get("/pages/{slug}", pagesH.GetPublic)
	})

	// Uploaded images.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.UploadsDir))))

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware())
			r.Post("/register", authH.Register)
			r.Post("/login", authH.Login)
			r.Get("/check-username/{username}", authH.CheckUsername)
			r.Get("/check-email/{email}", authH.CheckEmail)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens, stores.Users))
			r.Post("/logout", authH.Logout)
			r.Get("/me", authH.Me)
		})
	})

	r.Route("/profile", func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, stores.Users))
		r.Get("/", profileH.Get)
		r.Put("/", profileH.Update)
		r.Get("/stats", profileH.Stats)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, stores.Users))
		r.Use(middleware.RequireAdmin())

		r.Get("/dashboard", dashH.Overview)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", usersH.List)
			r.Get("/{id}", usersH.Get)
			r.Put("/{id}", usersH.Update)
			r.Delete("/{id}", usersH.Delete)
			r.Put("/{id}/status", usersH.UpdateStatus)
			r.Put("/{id}/role", usersH.UpdateRole)
			r.Post("/{id}/reset-password", usersH.ResetPassword)
		})

		r.Route("/logs", func(r chi.Router) {
			r.Get("/", logsH.List)
			r.With(middleware.RequirePermission(auth.PermDeleteAuditLogs)).
				Delete("/{id}", logsH.Delete)
		})

		r.Route("/bots", func(r chi.Router) {
			r.Get("/", botsH.List)
			r.Post("/", botsH.Create)
			r.Get("/{id}", botsH.Get)
			r.Put("/{id}", botsH.Update)
			r.Delete("/{id}", botsH.Delete)
		})

		r.Route("/hosting", func(r chi.Router) {
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", hostingH.ListCategories)
				r.Post("/", hostingH.CreateCategory)
				r.Put("/{id}", hostingH.UpdateCategory)
				r.Delete("/{id}", hostingH.DeleteCategory)
			})
			r.Route("/products", func(r chi.Router) {
				r.Get("/", hostingH.ListProducts)
				r.Post("/", hostingH.CreateProduct)
				r.Put("/{id}", hostingH.UpdateProduct)
				r.Delete("/{id}", hostingH.DeleteProduct)
			})
		})

		r.Route("/pages", func(r chi.Router) {
			r.Get("/", pagesH.List)
			r.Post("/", pagesH.Create)
			r.Get("/{id}", pagesH.Get)
			r.Put("/{id}", pagesH.Update)
			r.Delete("/{id}", pagesH.Delete)
		})
	})

	return r
}
