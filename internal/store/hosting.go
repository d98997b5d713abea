// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wickedhost/wicked-site/internal/model"
)

// HostingStore persists hosting categories and their products.
// The category→product relation is 1—N with ON DELETE CASCADE, so a
// category delete removes its products in the same statement.
type HostingStore struct {
	db *sql.DB
}

// NewHostingStore creates a HostingStore.
func NewHostingStore(db *sql.DB) *HostingStore {
	return &HostingStore{db: db}
}

const categoryColumns = `id, name, slug, description, position, status, created_at, updated_at`
const productColumns = `id, category_id, name, slug, description, price, image_path, status, features, position, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (model.HostingCategory, error) {
	var c model.HostingCategory
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Position, &c.Status,
		&c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanProduct(row interface{ Scan(...any) error }) (model.HostingProduct, error) {
	var p model.HostingProduct
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description, &p.Price,
		&p.ImagePath, &p.Status, &p.Features, &p.Position, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateCategoryParams holds the fields for creating a category.
type CreateCategoryParams struct {
	Name        string
	Slug        string
	Description string
	Position    int64
	Status      model.CategoryStatus
}

// CreateCategory inserts a hosting category.
func (s *HostingStore) CreateCategory(ctx context.Context, p CreateCategoryParams) (model.HostingCategory, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO hosting_categories (name, slug, description, position, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Slug, p.Description, p.Position, p.Status, now, now)
	if err != nil {
		return model.HostingCategory{}, translateErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.HostingCategory{}, fmt.Errorf("reading insert id: %w", err)
	}
	return s.GetCategoryByID(ctx, id)
}

// GetCategoryByID returns the category with the given ID.
func (s *HostingStore) GetCategoryByID(ctx context.Context, id int64) (model.HostingCategory, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM hosting_categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err != nil {
		return model.HostingCategory{}, translateErr(err)
	}
	return c, nil
}

// GetCategoryBySlug returns the category with the given slug.
func (s *HostingStore) GetCategoryBySlug(ctx context.Context, slug string) (model.HostingCategory, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM hosting_categories WHERE slug = ?`, slug)
	c, err := scanCategory(row)
	if err != nil {
		return model.HostingCategory{}, translateErr(err)
	}
	return c, nil
}

// ListCategories returns all categories in display order.
func (s *HostingStore) ListCategories(ctx context.Context) ([]model.HostingCategory, error) {
	return s.listCategories(ctx,
		`SELECT `+categoryColumns+` FROM hosting_categories ORDER BY position ASC, created_at DESC`)
}

// ListActiveCategories returns active categories for the public catalog.
func (s *HostingStore) ListActiveCategories(ctx context.Context) ([]model.HostingCategory, error) {
	return s.listCategories(ctx,
		`SELECT `+categoryColumns+` FROM hosting_categories WHERE status = ? ORDER BY position ASC, created_at DESC`,
		model.CategoryStatusActive)
}

func (s *HostingStore) listCategories(ctx context.Context, query string, args ...any) ([]model.HostingCategory, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cats []model.HostingCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// UpdateCategoryParams holds the fields for updating a category.
type UpdateCategoryParams struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Position    int64
	Status      model.CategoryStatus
}

// UpdateCategory rewrites a category.
func (s *HostingStore) UpdateCategory(ctx context.Context, p UpdateCategoryParams) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE hosting_categories SET name = ?, slug = ?, description = ?, position = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Slug, p.Description, p.Position, p.Status, time.Now(), p.ID)
	if err != nil {
		return translateErr(err)
	}
	return oneRow(res)
}

// DeleteCategory removes a category. Products cascade via the foreign
// key; callers must release product images before calling this.
func (s *HostingStore) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM hosting_categories WHERE id = ?`, id)
	if err != nil {
		return translateErr(err)
	}
	return oneRow(res)
}

// CountCategories returns the total number of categories.
func (s *HostingStore) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hosting_categories`).Scan(&n)
	return n, err
}

// CreateProductParams holds the fields for creating a product.
type CreateProductParams struct {
	CategoryID  int64
	Name        string
	Slug        string
	Description string
	Price       float64
	ImagePath   string
	Status      model.ProductStatus
	Features    string // JSON array
	Position    int64
}

// CreateProduct inserts a hosting product.
func (s *HostingStore) CreateProduct(ctx context.Context, p CreateProductParams) (model.HostingProduct, error) {
	if p.Features == "" {
		p.Features = "[]"
	}
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO hosting_products (category_id, name, slug, description, price, image_path, status, features, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.ImagePath, p.Status,
		p.Features, p.Position, now, now)
	if err != nil {
		return model.HostingProduct{}, translateErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.HostingProduct{}, fmt.Errorf("reading insert id: %w", err)
	}
	return s.GetProductByID(ctx, id)
}

// GetProductByID returns the product with the given ID.
func (s *HostingStore) GetProductByID(ctx context.Context, id int64) (model.HostingProduct, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM hosting_products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err != nil {
		return model.HostingProduct{}, translateErr(err)
	}
	return p, nil
}

// ListProducts returns all products, optionally filtered by category.
func (s *HostingStore) ListProducts(ctx context.Context, categoryID int64) ([]model.HostingProduct, error) {
	if categoryID != 0 {
		return s.listProducts(ctx,
			`SELECT `+productColumns+` FROM hosting_products WHERE category_id = ? ORDER BY position ASC, created_at DESC`,
			categoryID)
	}
	return s.listProducts(ctx,
		`SELECT `+productColumns+` FROM hosting_products ORDER BY position ASC, created_at DESC`)
}

// ListProductsByCategory returns a category's products filtered to the
// given statuses; with no statuses all products are returned.
func (s *HostingStore) ListProductsByCategory(ctx context.Context, categoryID int64, statuses ...model.ProductStatus) ([]model.HostingProduct, error) {
	query := `SELECT ` + productColumns + ` FROM hosting_products WHERE category_id = ?`
	args := []any{categoryID}
	if len(statuses) > 0 {
		query += ` AND status IN (?` + repeatPlaceholder(len(statuses)-1) + `)`
		for _, st := range statuses {
			args = append(args, st)
		}
	}
	query += ` ORDER BY position ASC, created_at DESC`
	return s.listProducts(ctx, query, args...)
}

func repeatPlaceholder(n int) string {
	out := ""
	for range n {
		out += ", ?"
	}
	return out
}

func (s *HostingStore) listProducts(ctx context.Context, query string, args ...any) ([]model.HostingProduct, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []model.HostingProduct
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProductParams holds the fields for updating a product.
type UpdateProductParams struct {
	ID          int64
	CategoryID  int64
	Name        string
	Slug        string
	Description string
	Price       float64
	ImagePath   string
	Status      model.ProductStatus
	Features    string
	Position    int64
}

// UpdateProduct rewrites a product.
func (s *HostingStore) UpdateProduct(ctx context.Context, p UpdateProductParams) error {
	if p.Features == "" {
		p.Features = "[]"
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE hosting_products SET category_id = ?, name = ?, slug = ?, description = ?,
		 price = ?, image_path = ?, status = ?, features = ?, position = ?, updated_at = ?
		 WHERE id = ?`,
		p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.ImagePath, p.Status,
		p.Features, p.Position, time.Now(), p.ID)
	if err != nil {
		return translateErr(err)
	}
	return oneRow(res)
}

// DeleteProduct removes a product.
func (s *HostingStore) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM hosting_products WHERE id = ?`, id)
	if err != nil {
		return translateErr(err)
	}
	return oneRow(res)
}

// CountProducts returns the total number of products.
func (s *HostingStore) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hosting_products`).Scan(&n)
	return n, err
}

// oneRow maps zero affected rows to ErrNotFound.
func oneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
