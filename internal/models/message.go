package models

import "time"

// CustomerMessage is an inbound message shown in the admin inbox, optionally
// linked to an order (e.g. a reply to an awaiting_info request).
type CustomerMessage struct {
	ID        int       `db:"id" json:"id"`
	OrderID   *int      `db:"order_id" json:"orderId,omitempty"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Body      string    `db:"body" json:"body"`
	IsRead    bool      `db:"is_read" json:"isRead"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
