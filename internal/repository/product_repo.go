package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/printhaus/printhaus_api/internal/models"
)

// ProductRepository handles data access for products and their
// customization options.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product row.
func (r *ProductRepository) Create(p *models.Product) error {
	const q = `
        INSERT INTO products (
            name, slug, description, price_cents, category, availability,
            images, specifications, is_active, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
        RETURNING id`

	return r.db.QueryRow(q,
		p.Name, p.Slug, p.Description, p.PriceCents, p.Category, p.Availability,
		nullableJSON(p.Images), nullableJSON(p.Specifications), p.IsActive,
	).Scan(&p.ID)
}

// Update updates an existing product.
func (r *ProductRepository) Update(p *models.Product) error {
	const q = `
        UPDATE products SET
            name = $2, slug = $3, description = $4, price_cents = $5,
            category = $6, availability = $7, images = $8,
            specifications = $9, is_active = $10, updated_at = NOW()
        WHERE id = $1`

	res, err := r.db.Exec(q,
		p.ID, p.Name, p.Slug, p.Description, p.PriceCents,
		p.Category, p.Availability, nullableJSON(p.Images),
		nullableJSON(p.Specifications), p.IsActive,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Deactivate soft-deletes a product; orders keep their frozen snapshots.
func (r *ProductRepository) Deactivate(id int) error {
	const q = `UPDATE products SET is_active = false, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(q, id)
	return err
}

// GetByID returns a product by id.
func (r *ProductRepository) GetByID(id int) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 LIMIT 1`
	var p models.Product
	if err := r.db.Get(&p, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetBySlug returns an active product by slug.
func (r *ProductRepository) GetBySlug(slug string) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE slug = $1 AND is_active = true LIMIT 1`
	var p models.Product
	if err := r.db.Get(&p, q, slug); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListActive returns active products for the storefront, optionally filtered
// by category.
func (r *ProductRepository) ListActive(category string) ([]models.Product, error) {
	q := `SELECT * FROM products WHERE is_active = true`
	args := []interface{}{}
	if category != "" {
		q += ` AND category = $1`
		args = append(args, category)
	}
	q += ` ORDER BY name ASC`

	var list []models.Product
	if err := r.db.Select(&list, q, args...); err != nil {
		return nil, err
	}
	return list, nil
}

// ProductFilter holds filters for admin product listing.
type ProductFilter struct {
	Category *string
	IsActive *bool
	Search   *string
	Page     int
	Limit    int
}

// ListAdmin returns products for the back office with filters and pagination.
func (r *ProductRepository) ListAdmin(filter *ProductFilter) ([]models.Product, int, error) {
	baseQ := `FROM products WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Category != nil && *filter.Category != "" {
		baseQ += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, *filter.Category)
		argIdx++
	}
	if filter.IsActive != nil {
		baseQ += fmt.Sprintf(" AND is_active = $%d", argIdx)
		args = append(args, *filter.IsActive)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		baseQ += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) "+baseQ, args...); err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQ := fmt.Sprintf("SELECT * %s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d", baseQ, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var list []models.Product
	if err := r.db.Select(&list, selectQ, args...); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// GetCategories returns the distinct categories in use.
func (r *ProductRepository) GetCategories() ([]string, error) {
	const q = `SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`
	var cats []string
	if err := r.db.Select(&cats, q); err != nil {
		return nil, err
	}
	return cats, nil
}

// GetOptions returns the customization options owned by a product.
func (r *ProductRepository) GetOptions(productID int) ([]models.CustomizationOption, error) {
	const q = `SELECT * FROM customization_options WHERE product_id = $1 ORDER BY id ASC`
	var opts []models.CustomizationOption
	if err := r.db.Select(&opts, q, productID); err != nil {
		return nil, err
	}
	return opts, nil
}

// GetOption returns one customization option.
func (r *ProductRepository) GetOption(id int) (*models.CustomizationOption, error) {
	const q = `SELECT * FROM customization_options WHERE id = $1 LIMIT 1`
	var opt models.CustomizationOption
	if err := r.db.Get(&opt, q, id); err != nil {
		return nil, err
	}
	return &opt, nil
}

// CreateOption inserts a customization option for a product.
func (r *ProductRepository) CreateOption(opt *models.CustomizationOption) error {
	const q = `
        INSERT INTO customization_options (
            product_id, type, label, required, pricing_policy, free_limit,
            choices, non_refundable, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
        RETURNING id`

	return r.db.QueryRow(q,
		opt.ProductID, opt.Type, opt.Label, opt.Required, opt.PricingPolicy,
		opt.FreeLimit, nullableJSON(opt.Choices), opt.NonRefundable,
	).Scan(&opt.ID)
}

// UpdateOption updates a customization option.
func (r *ProductRepository) UpdateOption(opt *models.CustomizationOption) error {
	const q = `
        UPDATE customization_options SET
            type = $2, label = $3, required = $4, pricing_policy = $5,
            free_limit = $6, choices = $7, non_refundable = $8, updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q,
		opt.ID, opt.Type, opt.Label, opt.Required, opt.PricingPolicy,
		opt.FreeLimit, nullableJSON(opt.Choices), opt.NonRefundable,
	)
	return err
}

// DeleteOption removes a customization option.
func (r *ProductRepository) DeleteOption(id int) error {
	const q = `DELETE FROM customization_options WHERE id = $1`
	_, err := r.db.Exec(q, id)
	return err
}

// nullableJSON converts an empty raw message to nil for proper NULL handling.
func nullableJSON(v []byte) interface{} {
	if len(v) == 0 {
		return nil
	}
	return v
}
