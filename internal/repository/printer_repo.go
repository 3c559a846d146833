package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/printhaus/printhaus_api/internal/models"
)

// PrinterRepository handles data access for printers.
type PrinterRepository struct {
	db *sqlx.DB
}

// NewPrinterRepository creates a new PrinterRepository.
func NewPrinterRepository(db *sqlx.DB) *PrinterRepository {
	return &PrinterRepository{db: db}
}

// List returns all printers, active first.
func (r *PrinterRepository) List() ([]models.Printer, error) {
	const q = `SELECT * FROM printers ORDER BY is_active DESC, name ASC`
	var list []models.Printer
	if err := r.db.Select(&list, q); err != nil {
		return nil, err
	}
	return list, nil
}

// Create inserts a printer.
func (r *PrinterRepository) Create(p *models.Printer) error {
	const q = `
        INSERT INTO printers (name, model, build_volume, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,NOW(),NOW()) RETURNING id`
	return r.db.QueryRow(q, p.Name, p.Model, p.BuildVolume, p.IsActive).Scan(&p.ID)
}

// Update updates a printer.
func (r *PrinterRepository) Update(p *models.Printer) error {
	const q = `
        UPDATE printers SET name = $2, model = $3, build_volume = $4,
            is_active = $5, updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q, p.ID, p.Name, p.Model, p.BuildVolume, p.IsActive)
	return err
}
