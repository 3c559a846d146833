package models

import (
	"encoding/json"
	"time"
)

// NotificationKind names the outbound customer emails.
type NotificationKind string

const (
	NotifyConfirmation NotificationKind = "confirmation"
	NotifyShipped      NotificationKind = "shipped"
	NotifyDelivered    NotificationKind = "delivered"
	NotifyAwaitingInfo NotificationKind = "awaiting_info"
)

// Notification is one outbound email attempt log. Undelivered rows are
// retried by the notification worker on a backoff schedule.
type Notification struct {
	ID          int              `db:"id" json:"id"`
	OrderID     int              `db:"order_id" json:"orderId"`
	Kind        NotificationKind `db:"kind" json:"kind"`
	Recipient   string           `db:"recipient" json:"recipient"`
	Payload     json.RawMessage  `db:"payload" json:"-"`
	Attempt     int              `db:"attempt" json:"attempt"`
	HTTPStatus  *int             `db:"http_status" json:"httpStatus,omitempty"`
	IsDelivered bool             `db:"is_delivered" json:"isDelivered"`
	NextRetryAt *time.Time       `db:"next_retry_at" json:"nextRetryAt,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at" json:"-"`
}

// PaymentEvent is the idempotency ledger for gateway webhook deliveries.
// EventID is unique; a replayed event inserts nothing and triggers nothing.
type PaymentEvent struct {
	ID          int             `db:"id"`
	EventID     string          `db:"event_id"`
	Kind        string          `db:"kind"`
	IntentID    string          `db:"intent_id"`
	OrderNumber string          `db:"order_number"`
	Payload     json.RawMessage `db:"payload"`
	ProcessedAt time.Time       `db:"processed_at"`
}
