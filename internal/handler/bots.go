// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wickedhost/wicked-site/internal/middleware"
	"github.com/wickedhost/wicked-site/internal/model"
	"github.com/wickedhost/wicked-site/internal/service"
	"github.com/wickedhost/wicked-site/internal/store"
	"github.com/wickedhost/wicked-site/internal/util"
)

// BotHandler handles the Discord bot catalog. Admin mutations accept
// multipart forms so a listing and its image land in one request;
// JSON bodies work too when no image is attached.
type BotHandler struct {
	bots    *store.BotStore
	uploads *service.UploadService
	audit   *service.AuditService
}

// NewBotHandler creates a BotHandler.
func NewBotHandler(bots *store.BotStore, uploads *service.UploadService, audit *service.AuditService) *BotHandler {
	return &BotHandler{bots: bots, uploads: uploads, audit: audit}
}

// botForm carries the mutable fields of a bot listing plus an optional
// uploaded image path.
type botForm struct {
	Name             string          `json:"name"`
	Slug             string          `json:"slug"`
	ShortDescription string          `json:"short_description"`
	Description      string          `json:"description"`
	InviteLink       string          `json:"invite_link"`
	Status           model.BotStatus `json:"status"`

	imagePath string
}

// parseBotForm reads a multipart or JSON request body. A multipart
// "image" part is validated and stored immediately; on any later
// validation failure the caller must release form.imagePath.
func (h *BotHandler) parseBotForm(w http.ResponseWriter, r *http.Request) (botForm, bool) {
	var form botForm

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid multipart form")
			return form, false
		}
		form.Name = r.FormValue("name")
		form.Slug = r.FormValue("slug")
		form.ShortDescription = r.FormValue("short_description")
		form.Description = r.FormValue("description")
		form.InviteLink = r.FormValue("invite_link")
		form.Status = model.BotStatus(r.FormValue("status"))

		file, header, err := r.FormFile("image")
		switch {
		case err == nil:
			defer func() { _ = file.Close() }()
			rel, err := h.uploads.SaveImage(file, header, service.UploadKindBots)
			if err != nil {
				writeUploadError(w, err)
				return form, false
			}
			form.imagePath = rel
		case errors.Is(err, http.ErrMissingFile):
			// No image attached.
		default:
			writeJSONError(w, http.StatusBadRequest, "invalid image upload")
			return form, false
		}
	} else if !decodeJSON(w, r, &form) {
		return form, false
	}

	if !h.validateBotForm(w, &form) {
		h.uploads.Remove(form.imagePath)
		return form, false
	}
	return form, true
}

func (h *BotHandler) validateBotForm(w http.ResponseWriter, form *botForm) bool {
	form.Name = strings.TrimSpace(form.Name)
	if form.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return false
	}
	if form.Slug == "" {
		form.Slug = util.Slugify(form.Name)
	}
	if !util.IsValidSlug(form.Slug) {
		writeJSONError(w, http.StatusBadRequest, "invalid slug")
		return false
	}
	if form.Status == "" {
		form.Status = model.BotStatusActive
	}
	if !form.Status.Valid() {
		writeJSONError(w, http.StatusBadRequest, "invalid status")
		return false
	}
	return true
}

func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		writeJSONError(w, http.StatusRequestEntityTooLarge, "file exceeds maximum upload size")
	case errors.Is(err, service.ErrUnsupportedType):
		writeJSONError(w, http.StatusUnsupportedMediaType, "unsupported file type")
	default:
		writeJSONError(w, http.StatusInternalServerError, "failed to store upload")
	}
}

// ListPublic handles GET /public/bots. Only active listings are shown.
func (h *BotHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	bots, err := h.bots.ListActive(r.Context())
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	if bots == nil {
		bots = []model.Bot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bots": bots})
}

// GetPublic handles GET /public/bots/{slug}. Inactive listings read as 404.
func (h *BotHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	bot, err := h.bots.GetBySlug(r.Context(), slug)
	if err != nil {
		writeStoreError(w, err, "bot not found", "")
		return
	}
	if bot.Status != model.BotStatusActive {
		writeJSONError(w, http.StatusNotFound, "bot not found")
		return
	}
	writeJSON(w, http.StatusOK, bot)
}

// List handles GET /admin/bots.
func (h *BotHandler) List(w http.ResponseWriter, r *http.Request) {
	bots, err := h.bots.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	if bots == nil {
		bots = []model.Bot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bots": bots})
}

// Get handles GET /admin/bots/{id}.
func (h *BotHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid bot id")
		return
	}
	bot, err := h.bots.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "bot not found", "")
		return
	}
	writeJSON(w, http.StatusOK, bot)
}

// Create handles POST /admin/bots.
func (h *BotHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)

	form, ok := h.parseBotForm(w, r)
	if !ok {
		return
	}

	bot, err := h.bots.Create(r.Context(), store.CreateBotParams{
		Name:             form.Name,
		Slug:             form.Slug,
		ShortDescription: form.ShortDescription,
		Description:      form.Description,
		InviteLink:       form.InviteLink,
		ImagePath:        form.imagePath,
		Status:           form.Status,
		CreatedBy:        actor.ID,
	})
	if err != nil {
		h.uploads.Remove(form.imagePath)
		writeStoreError(w, err, "bot not found", "a bot with this slug already exists")
		return
	}

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:   actor.ID,
		Action:    model.ActionBotCreate,
		Payload:   map[string]any{"bot_id": bot.ID, "slug": bot.Slug},
		IPAddress: middleware.ClientIP(r),
	})

	writeJSON(w, http.StatusCreated, bot)
}

// Update handles PUT /admin/bots/{id}. A new image replaces and
// removes the old one.
func (h *BotHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)

	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid bot id")
		return
	}
	existing, err := h.bots.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "bot not found", "")
		return
	}

	form, ok := h.parseBotForm(w, r)
	if !ok {
		return
	}

	imagePath := existing.ImagePath
	if form.imagePath != "" {
		imagePath = form.imagePath
	}

	if err := h.bots.Update(r.Context(), store.UpdateBotParams{
		ID:               id,
		Name:             form.Name,
		Slug:             form.Slug,
		ShortDescription: form.ShortDescription,
		Description:      form.Description,
		InviteLink:       form.InviteLink,
		ImagePath:        imagePath,
		Status:           form.Status,
		UpdatedBy:        actor.ID,
	}); err != nil {
		h.uploads.Remove(form.imagePath)
		writeStoreError(w, err, "bot not found", "a bot with this slug already exists")
		return
	}
	if form.imagePath != "" && existing.ImagePath != "" {
		h.uploads.Remove(existing.ImagePath)
	}

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:   actor.ID,
		Action:    model.ActionBotUpdate,
		Payload:   map[string]any{"bot_id": id, "slug": form.Slug},
		IPAddress: middleware.ClientIP(r),
	})

	updated, err := h.bots.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "bot not found", "")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /admin/bots/{id}.
func (h *BotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)

	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid bot id")
		return
	}
	bot, err := h.bots.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "bot not found", "")
		return
	}

	if err := h.bots.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "bot not found", "")
		return
	}
	h.uploads.Remove(bot.ImagePath)

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:   actor.ID,
		Action:    model.ActionBotDelete,
		Payload:   map[string]any{"bot_id": id, "slug": bot.Slug},
		IPAddress: middleware.ClientIP(r),
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "bot deleted"})
}
