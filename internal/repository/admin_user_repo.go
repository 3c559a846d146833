package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/printhaus/printhaus_api/internal/models"
)

// AdminUserRepository handles data access for back-office accounts.
type AdminUserRepository struct {
	db *sqlx.DB
}

// NewAdminUserRepository creates a new AdminUserRepository.
func NewAdminUserRepository(db *sqlx.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// GetByEmail returns an admin user by email.
func (r *AdminUserRepository) GetByEmail(email string) (*models.AdminUser, error) {
	const q = `SELECT * FROM admin_users WHERE email = $1 LIMIT 1`
	var u models.AdminUser
	if err := r.db.Get(&u, q, email); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListActive returns active staff for queue assignment.
func (r *AdminUserRepository) ListActive() ([]models.AdminUser, error) {
	const q = `SELECT * FROM admin_users WHERE is_active = true ORDER BY name ASC`
	var list []models.AdminUser
	if err := r.db.Select(&list, q); err != nil {
		return nil, err
	}
	return list, nil
}

// Create inserts an admin user.
func (r *AdminUserRepository) Create(u *models.AdminUser) error {
	const q = `
        INSERT INTO admin_users (email, password_hash, name, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,NOW(),NOW()) RETURNING id`
	return r.db.QueryRow(q, u.Email, u.PasswordHash, u.Name, u.IsActive).Scan(&u.ID)
}
