// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// CategoryStatus is a hosting category visibility state.
type CategoryStatus string

// Category statuses.
const (
	CategoryStatusActive   CategoryStatus = "ACTIVE"
	CategoryStatusInactive CategoryStatus = "INACTIVE"
)

// Valid reports whether s is a known category status.
func (s CategoryStatus) Valid() bool {
	return s == CategoryStatusActive || s == CategoryStatusInactive
}

// ProductStatus is a hosting product availability state.
type ProductStatus string

// Product statuses.
const (
	ProductStatusAvailable  ProductStatus = "AVAILABLE"
	ProductStatusOutOfStock ProductStatus = "OUT_OF_STOCK"
	ProductStatusHidden     ProductStatus = "HIDDEN"
)

// Valid reports whether s is a known product status.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusAvailable, ProductStatusOutOfStock, ProductStatusHidden:
		return true
	}
	return false
}

// HostingCategory groups hosting products. Deleting a category
// cascades to its products.
type HostingCategory struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description,omitempty"`
	Position    int64          `json:"position"`
	Status      CategoryStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// HostingProduct is a purchasable hosting plan within a category.
type HostingProduct struct {
	ID          int64         `json:"id"`
	CategoryID  int64         `json:"category_id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description,omitempty"`
	Price       float64       `json:"price"`
	ImagePath   string        `json:"image_path,omitempty"`
	Status      ProductStatus `json:"status"`
	Features    string        `json:"features"` // JSON array string
	Position    int64         `json:"position"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
