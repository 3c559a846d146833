package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/printhaus/printhaus_api/internal/models"
)

// NotificationRepository handles the outbound email log.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification attempt log row.
func (r *NotificationRepository) Create(n *models.Notification) error {
	const q = `
        INSERT INTO notifications (
            order_id, kind, recipient, payload, attempt, http_status,
            is_delivered, next_retry_at, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
        RETURNING id`

	return r.db.QueryRow(q,
		n.OrderID, n.Kind, n.Recipient, []byte(n.Payload), n.Attempt,
		n.HTTPStatus, n.IsDelivered, n.NextRetryAt,
	).Scan(&n.ID)
}

// Update persists the outcome of a delivery attempt.
func (r *NotificationRepository) Update(n *models.Notification) error {
	const q = `
        UPDATE notifications SET
            attempt = $2, http_status = $3, is_delivered = $4,
            next_retry_at = $5, updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q, n.ID, n.Attempt, n.HTTPStatus, n.IsDelivered, n.NextRetryAt)
	return err
}

// GetPending returns undelivered notifications due for retry.
func (r *NotificationRepository) GetPending() ([]models.Notification, error) {
	const q = `
        SELECT * FROM notifications
        WHERE is_delivered = false
          AND next_retry_at IS NOT NULL
          AND next_retry_at <= NOW()
        ORDER BY next_retry_at ASC
        LIMIT 50`

	var list []models.Notification
	if err := r.db.Select(&list, q); err != nil {
		return nil, err
	}
	return list, nil
}

// ExistsForOrderKind reports whether a notification of the given kind was
// already recorded for the order. Used as a replay guard on webhook paths.
func (r *NotificationRepository) ExistsForOrderKind(orderID int, kind models.NotificationKind) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM notifications WHERE order_id = $1 AND kind = $2)`
	var exists bool
	if err := r.db.Get(&exists, q, orderID, kind); err != nil {
		return false, err
	}
	return exists, nil
}
