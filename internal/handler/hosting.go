// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wickedhost/wicked-site/internal/middleware"
	"github.com/wickedhost/wicked-site/internal/model"
	"github.com/wickedhost/wicked-site/internal/service"
	"github.com/wickedhost/wicked-site/internal/store"
	"github.com/wickedhost/wicked-site/internal/util"
)

// HostingHandler handles the hosting category and product catalog.
type HostingHandler struct {
	hosting *store.HostingStore
	uploads *service.UploadService
	audit   *service.AuditService
}

// NewHostingHandler creates a HostingHandler.
func NewHostingHandler(hosting *store.HostingStore, uploads *service.UploadService, audit *service.AuditService) *HostingHandler {
	return &HostingHandler{hosting: hosting, uploads: uploads, audit: audit}
}

// PublicCategory is a category with its visible products inlined, for
// the public catalog.
type PublicCategory struct {
	model.HostingCategory
	Products []model.HostingProduct `json:"products"`
}

// ListPublic handles GET /public/hosting. Inactive categories and hidden
// products never appear.
func (h *HostingHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	cats, err := h.hosting.ListActiveCategories(r.Context())
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}

	out := make([]PublicCategory, 0, len(cats))
	for _, c := range cats {
		products, err := h.hosting.ListProductsByCategory(r.Context(), c.ID,
			model.ProductStatusAvailable, model.ProductStatusOutOfStock)
		if err != nil {
			writeStoreError(w, err, "", "")
			return
		}
		if products == nil {
			products = []model.HostingProduct{}
		}
		out = append(out, PublicCategory{HostingCategory: c, Products: products})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

// GetPublicCategory handles GET /public/hosting/{slug}.
func (h *HostingHandler) GetPublicCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	cat, err := h.hosting.GetCategoryBySlug(r.Context(), slug)
	if err != nil {
		writeStoreError(w, err, "category not found", "")
		return
	}
	if cat.Status != model.CategoryStatusActive {
		writeJSONError(w, http.StatusNotFound, "category not found")
		return
	}

	products, err := h.hosting.ListProductsByCategory(r.Context(), cat.ID,
		model.ProductStatusAvailable, model.ProductStatusOutOfStock)
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	if products == nil {
		products = []model.HostingProduct{}
	}
	writeJSON(w, http.StatusOK, PublicCategory{HostingCategory: cat, Products: products})
}

// CategoryRequest is the body for category create and update.
type CategoryRequest struct {
	Name        string               `json:"name"`
	Slug        string               `json:"slug"`
	Description string               `json:"description"`
	Position    int64                `json:"position"`
	Status      model.CategoryStatus `json:"status"`
}

func (req *CategoryRequest) validate(w http.ResponseWriter) bool {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return false
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Name)
	}
	if !util.IsValidSlug(req.Slug) {
		writeJSONError(w, http.StatusBadRequest, "invalid slug")
		return false
	}
	if req.Status == "" {
		req.Status = model.CategoryStatusActive
	}
	if !req.Status.Valid() {
		writeJSONError(w, http.StatusBadRequest, "invalid status")
		return false
	}
	return true
}

// ListCategories handles GET /admin/hosting/categories.
func (h *HostingHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.hosting.ListCategories(r.Context())
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	if cats == nil {
		cats = []model.HostingCategory{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// CreateCategory handles POST /admin/hosting/categories.
func (h *HostingHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)

	var req CategoryRequest
	if !decodeJSON(w, r, &req) || !req.validate(w) {
		return
	}

	cat, err := h.hosting.CreateCategory(r.Context(), store.CreateCategoryParams{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Position:    req.Position,
		Status:      req.Status,
	})
	if err != nil {
		writeStoreError(w, err, "category not found", "a category with this slug already exists")
		return
	}

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:   actor.ID,
		Action:    model.ActionCategoryCreate,
		Payload:   map[string]any{"category_id": cat.ID, "slug": cat.Slug},
		IPAddress: middleware.ClientIP(r),
	})

	writeJSON(w, http.StatusCreated, cat)
}

// UpdateCategory handles PUT /admin/hosting/categories/{id}.
func (h *HostingHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)

	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req CategoryRequest
	if !decodeJSON(w, r, &req) || !req.validate(w) {
		return
	}

	if err := h.hosting.UpdateCategory(r.Context(), store.UpdateCategoryParams{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Position:    req.Position,
		Status:      req.Status,
	}); err != nil {
		writeStoreError(w, err, "category not found", "a category with this slug already exists")
		return
	}

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:   actor.ID,
		Action:    model.ActionCategoryUpdate,
		Payload:   map[string]any{"category_id": id, "slug": req.Slug},
		IPAddress: middleware.ClientIP(r),
	})

	cat, err := h.hosting.GetCategoryByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "category not found", "")
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// DeleteCategory handles DELETE /admin/hosting/categories/{id}.
// Products cascade with the category; their images are released first
// so the files do not orphan.
func (h *HostingHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)

	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	cat, err := h.hosting.GetCategoryByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "category not found", "")
		return
	}

	products, err := h.hosting.ListProductsByCategory(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}

	if err := h.hosting.DeleteCategory(r.Context(), id); err != nil {
		writeStoreError(w, err, "category not found", "")
		return
	}
	for _, p := range products {
		h.uploads.Remove(p.ImagePath)
	}

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID: actor.ID,
		Action:  model.ActionCategoryDelete,
		Payload: map[string]any{
			"category_id":      id,
			"slug":             cat.Slug,
			"products_removed": len(products),
		},
		IPAddress: middleware.ClientIP(r),
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// productForm carries the mutable fields of a product plus an optional
// uploaded image path.
type productForm struct {
	CategoryID  int64               `json:"category_id"`
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	Price       float64             `json:"price"`
	Status      model.ProductStatus `json:"status"`
	Features    []string            `json:"features"`
	Position    int64               `json:"position"`

	imagePath string
}

func (h *HostingHandler) parseProductForm(w http.ResponseWriter, r *http.Request) (productForm, bool) {
	var form productForm

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid multipart form")
			return form, false
		}
		form.CategoryID, _ = strconv.ParseInt(r.FormValue("category_id"), 10, 64)
		form.Name = r.FormValue("name")
		form.Slug = r.FormValue("slug")
		form.Description = r.FormValue("description")
		form.Price, _ = strconv.ParseFloat(r.FormValue("price"), 64)
		form.Status = model.ProductStatus(r.FormValue("status"))
		form.Position, _ = strconv.ParseInt(r.FormValue("position"), 10, 64)
		if v := r.FormValue("features"); v != "" {
			if err := json.Unmarshal([]byte(v), &form.Features); err != nil {
				writeJSONError(w, http.StatusBadRequest, "features must be a JSON array of strings")
				return form, false
			}
		}

		file, header, err := r.FormFile("image")
		switch {
		case err == nil:
			defer func() { _ = file.Close() }()
			rel, err := h.uploads.SaveImage(file, header, service.UploadKindProducts)
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

	if !h.validateProductForm(w, &form) {
		h.uploads.Remove(form.imagePath)
		return form, false
	}
	return form, true
}

func (h *HostingHandler) validateProductForm(w http.ResponseWriter, form *productForm) bool {
	form.Name = strings.TrimSpace(form.Name)
	if form.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return false
	}
	if form.CategoryID <= 0 {
		writeJSONError(w, http.StatusBadRequest, "category_id is required")
		return false
	}
	if form.Price < 0 {
		writeJSONError(w, http.StatusBadRequest, "price cannot be negative")
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
		form.Status = model.ProductStatusAvailable
	}
	if !form.Status.Valid() {
		writeJSONError(w, http.StatusBadRequest, "invalid status")
		return false
	}
	return true
}

func (f *productForm) featuresJSON() string {
	if len(f.Features) == 0 {
		return "[]"
	}
	b, err := json.Marshal(f.Features)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// ListProducts handles GET /admin/hosting/products. An optional
// category_id query narrows the listing.
func (h *HostingHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var categoryID int64
	if v := r.URL.Query().Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		categoryID = id
	}

	products, err := h.hosting.ListProducts(r.Context(), categoryID)
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	if products == nil {
		products = []model.HostingProduct{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

// CreateProduct handles POST /admin/hosting/products.
func (h *HostingHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)

	form, ok := h.parseProductForm(w, r)
	if !ok {
		return
	}

	if _, err := h.hosting.GetCategoryByID(r.Context(), form.CategoryID); err != nil {
		h.uploads.Remove(form.imagePath)
		writeStoreError(w, err, "category not found", "")
		return
	}

	product, err := h.hosting.CreateProduct(r.Context(), store.CreateProductParams{
		CategoryID:  form.CategoryID,
		Name:        form.Name,
		Slug:        form.Slug,
		Description: form.Description,
		Price:       form.Price,
		ImagePath:   form.imagePath,
		Status:      form.Status,
		Features:    form.featuresJSON(),
		Position:    form.Position,
	})
	if err != nil {
		h.uploads.Remove(form.imagePath)
		writeStoreError(w, err, "product not found", "a product with this slug already exists")
		return
	}

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:   actor.ID,
		Action:    model.ActionProductCreate,
		Payload:   map[string]any{"product_id": product.ID, "slug": product.Slug, "category_id": product.CategoryID},
		IPAddress: middleware.ClientIP(r),
	})

	writeJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /admin/hosting/products/{id}.
func (h *HostingHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)

	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	existing, err := h.hosting.GetProductByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "product not found", "")
		return
	}

	form, ok := h.parseProductForm(w, r)
	if !ok {
		return
	}
	if form.CategoryID != existing.CategoryID {
		if _, err := h.hosting.GetCategoryByID(r.Context(), form.CategoryID); err != nil {
			h.uploads.Remove(form.imagePath)
			writeStoreError(w, err, "category not found", "")
			return
		}
	}

	imagePath := existing.ImagePath
	if form.imagePath != "" {
		imagePath = form.imagePath
	}

	if err := h.hosting.UpdateProduct(r.Context(), store.UpdateProductParams{
		ID:          id,
		CategoryID:  form.CategoryID,
		Name:        form.Name,
		Slug:        form.Slug,
		Description: form.Description,
		Price:       form.Price,
		ImagePath:   imagePath,
		Status:      form.Status,
		Features:    form.featuresJSON(),
		Position:    form.Position,
	}); err != nil {
		h.uploads.Remove(form.imagePath)
		writeStoreError(w, err, "product not found", "a product with this slug already exists")
		return
	}
	if form.imagePath != "" && existing.ImagePath != "" {
		h.uploads.Remove(existing.ImagePath)
	}

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:   actor.ID,
		Action:    model.ActionProductUpdate,
		Payload:   map[string]any{"product_id": id, "slug": form.Slug},
		IPAddress: middleware.ClientIP(r),
	})

	updated, err := h.hosting.GetProductByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "product not found", "")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /admin/hosting/products/{id}.
func (h *HostingHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)

	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := h.hosting.GetProductByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "product not found", "")
		return
	}

	if err := h.hosting.DeleteProduct(r.Context(), id); err != nil {
		writeStoreError(w, err, "product not found", "")
		return
	}
	h.uploads.Remove(product.ImagePath)

	h.audit.Record(r.Context(), service.RecordParams{
		ActorID:   actor.ID,
		Action:    model.ActionProductDelete,
		Payload:   map[string]any{"product_id": id, "slug": product.Slug},
		IPAddress: middleware.ClientIP(r),
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
