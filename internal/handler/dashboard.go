// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/wickedhost/wicked-site/internal/model"
	"github.com/wickedhost/wicked-site/internal/store"
)

// DashboardHandler serves the admin overview counters.
type DashboardHandler struct {
	users   *store.UserStore
	bots    *store.BotStore
	hosting *store.HostingStore
	pages   *store.PageStore
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(users *store.UserStore, bots *store.BotStore, hosting *store.HostingStore, pages *store.PageStore) *DashboardHandler {
	return &DashboardHandler{users: users, bots: bots, hosting: hosting, pages: pages}
}

// DashboardResponse is the body for GET /admin/dashboard.
type DashboardResponse struct {
	Users struct {
		Total     int64                `json:"total"`
		Active    int64                `json:"active"`
		Suspended int64                `json:"suspended"`
		ByRole    map[model.Role]int64 `json:"by_role"`
	} `json:"users"`
	Bots struct {
		Total int64 `json:"total"`
	} `json:"bots"`
	Hosting struct {
		Categories int64 `json:"categories"`
		Products   int64 `json:"products"`
	} `json:"hosting"`
	Pages struct {
		Total int64 `json:"total"`
	} `json:"pages"`
	RecentLogins []model.User `json:"recent_logins"`
}

// Overview handles GET /admin/dashboard.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var resp DashboardResponse

	stats, err := h.users.Stats(ctx)
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	resp.Users.Total = stats.Total
	resp.Users.Active = stats.Active
	resp.Users.Suspended = stats.Suspended
	resp.Users.ByRole = stats.ByRole

	if resp.Bots.Total, err = h.bots.Count(ctx); err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	if resp.Hosting.Categories, err = h.hosting.CountCategories(ctx); err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	if resp.Hosting.Products, err = h.hosting.CountProducts(ctx); err != nil {
		writeStoreError(w, err, "", "")
		return
	}

	pages, err := h.pages.List(ctx)
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	resp.Pages.Total = int64(len(pages))

	recent, err := h.users.RecentLogins(ctx, 10)
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	if recent == nil {
		recent = []model.User{}
	}
	resp.RecentLogins = recent

	writeJSON(w, http.StatusOK, resp)
}
