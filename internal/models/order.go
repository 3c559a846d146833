package models

import (
	"encoding/json"
	"time"
)

// Order is created at checkout with a frozen snapshot of the cart. After
// creation it is mutated only through status transitions and admin annotation
// fields; orders are never deleted, only cancelled.
type Order struct {
	ID              int             `db:"id" json:"-"`
	OrderNumber     string          `db:"order_number" json:"orderNumber"`
	UserID          *int            `db:"user_id" json:"-"`
	Items           json.RawMessage `db:"items" json:"items"`
	SubtotalCents   int64           `db:"subtotal_cents" json:"subtotalCents"`
	DeliveryMethod  string          `db:"delivery_method" json:"deliveryMethod"`
	DeliveryCents   int64           `db:"delivery_cents" json:"deliveryCents"`
	Status          OrderStatus     `db:"status" json:"status"`
	PaymentRef      *string         `db:"payment_ref" json:"paymentRef,omitempty"`
	CustomerName    string          `db:"customer_name" json:"customerName"`
	CustomerEmail   string          `db:"customer_email" json:"customerEmail"`
	CustomerPhone   *string         `db:"customer_phone" json:"customerPhone,omitempty"`
	ShippingAddr    string          `db:"shipping_address" json:"shippingAddress"`
	AdminNotes      *string         `db:"admin_notes" json:"adminNotes,omitempty"`
	TrackingNumber  *string         `db:"tracking_number" json:"trackingNumber,omitempty"`
	PaidNotified    bool            `db:"paid_notified" json:"-"`
	ShipNotified    bool            `db:"ship_notified" json:"-"`
	DeliverNotified bool            `db:"deliver_notified" json:"-"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"-"`
}

// GrandTotalCents is the amount charged: item subtotal plus delivery.
// The persisted total is the subtotal; delivery is tracked separately and the
// same split is used everywhere the order is created or displayed.
func (o *Order) GrandTotalCents() int64 {
	return o.SubtotalCents + o.DeliveryCents
}

// OrderItem is one frozen line inside Order.Items.
type OrderItem struct {
	ItemID             string                  `json:"itemId"`
	ProductID          int                     `json:"productId"`
	Name               string                  `json:"name"`
	UnitPriceCents     int64                   `json:"unitPriceCents"`
	Quantity           int                     `json:"quantity"`
	Customizations     []SelectedCustomization `json:"customizations,omitempty"`
	CustomizationCents int64                   `json:"customizationCents"`
	NonRefundable      bool                    `json:"nonRefundable"`
	LineTotalCents     int64                   `json:"lineTotalCents"`
}

// DecodeItems parses the frozen item snapshot.
func (o *Order) DecodeItems() ([]OrderItem, error) {
	var items []OrderItem
	if err := json.Unmarshal(o.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}
