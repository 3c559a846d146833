package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/printhaus/printhaus_api/internal/models"
)

// MessageRepository handles data access for customer messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a customer message.
func (r *MessageRepository) Create(m *models.CustomerMessage) error {
	const q = `
        INSERT INTO customer_messages (order_id, name, email, body, is_read, created_at)
        VALUES ($1,$2,$3,$4,false,NOW()) RETURNING id, created_at`
	return r.db.QueryRow(q, m.OrderID, m.Name, m.Email, m.Body).Scan(&m.ID, &m.CreatedAt)
}

// List returns messages, newest first, optionally unread only.
func (r *MessageRepository) List(unreadOnly bool, page, limit int) ([]models.CustomerMessage, int, error) {
	baseQ := `FROM customer_messages WHERE 1=1`
	if unreadOnly {
		baseQ += ` AND is_read = false`
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) "+baseQ); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	offset := (page - 1) * limit

	q := fmt.Sprintf("SELECT * %s ORDER BY created_at DESC LIMIT $1 OFFSET $2", baseQ)
	var list []models.CustomerMessage
	if err := r.db.Select(&list, q, limit, offset); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// MarkRead flags a message as read.
func (r *MessageRepository) MarkRead(id int) error {
	const q = `UPDATE customer_messages SET is_read = true WHERE id = $1`
	_, err := r.db.Exec(q, id)
	return err
}
