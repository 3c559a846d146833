package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/printhaus/printhaus_api/internal/models"
)

// MaterialRepository handles data access for materials.
type MaterialRepository struct {
	db *sqlx.DB
}

// NewMaterialRepository creates a new MaterialRepository.
func NewMaterialRepository(db *sqlx.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// List returns all materials, active first.
func (r *MaterialRepository) List() ([]models.Material, error) {
	const q = `SELECT * FROM materials ORDER BY is_active DESC, name ASC`
	var list []models.Material
	if err := r.db.Select(&list, q); err != nil {
		return nil, err
	}
	return list, nil
}

// Create inserts a material.
func (r *MaterialRepository) Create(m *models.Material) error {
	const q = `
        INSERT INTO materials (name, kind, color, stock_grams, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,NOW(),NOW()) RETURNING id`
	return r.db.QueryRow(q, m.Name, m.Kind, m.Color, m.StockGrams, m.IsActive).Scan(&m.ID)
}

// Update updates a material.
func (r *MaterialRepository) Update(m *models.Material) error {
	const q = `
        UPDATE materials SET name = $2, kind = $3, color = $4,
            stock_grams = $5, is_active = $6, updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q, m.ID, m.Name, m.Kind, m.Color, m.StockGrams, m.IsActive)
	return err
}
