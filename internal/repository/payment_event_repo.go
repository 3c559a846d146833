package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/printhaus/printhaus_api/internal/models"
)

// PaymentEventRepository is the idempotency ledger for gateway webhooks.
type PaymentEventRepository struct {
	db *sqlx.DB
}

// NewPaymentEventRepository creates a new PaymentEventRepository.
func NewPaymentEventRepository(db *sqlx.DB) *PaymentEventRepository {
	return &PaymentEventRepository{db: db}
}

// Record inserts the event keyed by its gateway event id. It reports false
// when the event was already recorded, which makes webhook replays no-ops.
func (r *PaymentEventRepository) Record(e *models.PaymentEvent) (bool, error) {
	const q = `
        INSERT INTO payment_events (event_id, kind, intent_id, order_number, payload, processed_at)
        VALUES ($1,$2,$3,$4,$5,NOW())
        ON CONFLICT (event_id) DO NOTHING`

	res, err := r.db.Exec(q, e.EventID, e.Kind, e.IntentID, e.OrderNumber, []byte(e.Payload))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
