// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wickedhost/wicked-site/internal/middleware"
	"github.com/wickedhost/wicked-site/internal/model"
	"github.com/wickedhost/wicked-site/internal/render"
	"github.com/wickedhost/wicked-site/internal/service"
	"github.com/wickedhost/wicked-site/internal/store"
	"github.com/wickedhost/wicked-site/internal/util"
)

// PageHandler handles markdown content pages. Admins read and write
// raw markdown; public reads get sanitized HTML.
type PageHandler struct {
	pages *store.PageStore
	audit *service.AuditService
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(pages *store.PageStore, audit *service.AuditService) *PageHandler {
	return &PageHandler{pages: pages, audit: audit}
}

// PublicPage is the public rendering of a published page. The body is
// converted from markdown and sanitized; raw markdown never leaves the
// admin surface.
type PublicPage struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Category        string `json:"category"`
	MetaDescription string `json:"meta_description,omitempty"`
	HTML            string `json:"html"`
	PublishedAt     string `json:"published_at,omitempty"`
}

// ListPublic handles GET /public/pages. Drafts never appear.
func (h *PageHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pages.ListPublished(r.Context())
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}

	type summary struct {
		Title           string `json:"title"`
		Slug            string `json:"slug"`
		Category        string `json:"category"`
		MetaDescription string `json:"meta_description,omitempty"`
		PublishedAt     string `json:"published_at,omitempty"`
	}
	out := make([]summary, 0, len(pages))
	for _, p := range pages {
		s := summary{
			Title:           p.Title,
			Slug:            p.Slug,
			Category:        p.Category,
			MetaDescription: p.MetaDescription,
		}
		if p.PublishedAt.Valid {
			s.PublishedAt = p.PublishedAt.Time.Format("2006-01-02")
		}
		out = append(out, s)
	}
	writeJSON(w, http.StatusOK, map[string]any{"pages": out})
}

// GetPublic handles GET /public/pages/{slug}.
func (h *PageHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	page, err := h.pages.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		writeStoreError(w, err, "page not found", "")
		return
	}

	html, err := render.Markdown(page.Body)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to render page")
		return
	}

	out := PublicPage{
		Title:           page.Title,
		Slug:            page.Slug,
		Category:        page.Category,
		MetaDescription: page.MetaDescription,
		HTML:            html,
	}
	if page.PublishedAt.Valid {
		out.PublishedAt = page.PublishedAt.Time.Format("2006-01-02")
	}
	writeJSON(w, http.StatusOK, out)
}

// PageRequest is the body for page create and update.
type PageRequest struct {
	Title           string           `json:"title"`
	Slug            string           `json:"slug"`
	Body            string           `json:"body"`
	Category        string           `json:"category"`
	MetaDescription string           `json:"meta_description"`
	Status          model.PageStatus `json:"status"`
}

func (req *PageRequest) validate(w http.ResponseWriter) bool {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSONError(w, http.StatusBadRequest, "title is required")
		return false
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Title)
	}
	if !util.IsValidSlug(req.Slug) {
		writeJSONError(w, http.StatusBadRequest, "invalid slug")
		return false
	}
	if req.Category == "" {
		req.Category = "general"
	}
	if req.Status == "" {
		req.Status = model.PageStatusDraft
	}
	if !req.Status.Valid() {
		writeJSONError(w, http.StatusBadRequest, "invalid status")
		return false
	}
	return true
}

// List handles GET /admin/pages. Drafts included.
func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pages.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	if pages == nil {
		pages = []model.Page{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"pages": pages})
}

// Get handles GET /admin/pages/{id}. Returns raw markdown.
func (h *PageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid page id")
		return
	}
	page, err := h.pages.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "page not found", "")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Create handles POST /admin/pages.
func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)

	var req PageRequest
	if !decodeJSON(w, r, &req) || !req.validate(w) {
		return
	}

	page, err := h.pages.Create(r.Context(), store.CreatePageParams{
		Title:           req.Title,
		Slug:            req.Slug,
		Body:            req.Body,
		Category:        req.Category,
		MetaDescription: req.MetaDescription,
		AuthorID:        actor.ID,
		Status:          req.Status,
	})
	if err != nil {
		writeStoreError(w, err, "page not found", "a page with this slug already exists")
		return
	}

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:   actor.ID,
		Action:    model.ActionPageCreate,
		Payload:   map[string]any{"page_id": page.ID, "slug": page.Slug, "status": page.Status},
		IPAddress: middleware.ClientIP(r),
	})

	writeJSON(w, http.StatusCreated, page)
}

// Update handles PUT /admin/pages/{id}. The publish timestamp is set
// on the first transition to published and never moves afterwards.
func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)

	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid page id")
		return
	}

	var req PageRequest
	if !decodeJSON(w, r, &req) || !req.validate(w) {
		return
	}

	if err := h.pages.Update(r.Context(), store.UpdatePageParams{
		ID:              id,
		Title:           req.Title,
		Slug:            req.Slug,
		Body:            req.Body,
		Category:        req.Category,
		MetaDescription: req.MetaDescription,
		Status:          req.Status,
	}); err != nil {
		writeStoreError(w, err, "page not found", "a page with this slug already exists")
		return
	}

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:   actor.ID,
		Action:    model.ActionPageUpdate,
		Payload:   map[string]any{"page_id": id, "slug": req.Slug, "status": req.Status},
		IPAddress: middleware.ClientIP(r),
	})

	page, err := h.pages.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "page not found", "")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Delete handles DELETE /admin/pages/{id}.
func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)

	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid page id")
		return
	}
	page, err := h.pages.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "page not found", "")
		return
	}

	if err := h.pages.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "page not found", "")
		return
	}

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:   actor.ID,
		Action:    model.ActionPageDelete,
		Payload:   map[string]any{"page_id": id, "slug": page.Slug},
		IPAddress: middleware.ClientIP(r),
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "page deleted"})
}
