package models

import "time"

// ProductionQueueItem tracks fabrication of one order line. It is a read
// model derived from a paid order entering production; the order's own status
// stays authoritative. Assignment fields are nullable; unassigned is valid.
type ProductionQueueItem struct {
	ID         int         `db:"id" json:"id"`
	OrderID    int         `db:"order_id" json:"-"`
	LineItemID string      `db:"line_item_id" json:"lineItemId"`
	PrinterID  *int        `db:"printer_id" json:"printerId,omitempty"`
	MaterialID *int        `db:"material_id" json:"materialId,omitempty"`
	AssigneeID *int        `db:"assignee_id" json:"assigneeId,omitempty"`
	Priority   int         `db:"priority" json:"priority"`
	Status     QueueStatus `db:"status" json:"status"`
	Notes      *string     `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updatedAt"`

	// Joined display fields for the admin panel.
	OrderNumber  string  `db:"order_number" json:"orderNumber"`
	PrinterName  *string `db:"printer_name" json:"printerName,omitempty"`
	MaterialName *string `db:"material_name" json:"materialName,omitempty"`
	AssigneeName *string `db:"assignee_name" json:"assigneeName,omitempty"`
}

// Printer is a fabrication machine available for queue assignment.
type Printer struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Model       string    `db:"model" json:"model"`
	BuildVolume string    `db:"build_volume" json:"buildVolume,omitempty"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"-"`
}

// Material is a printable material available for queue assignment.
type Material struct {
	ID         int       `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Kind       string    `db:"kind" json:"kind"`
	Color      string    `db:"color" json:"color,omitempty"`
	StockGrams int       `db:"stock_grams" json:"stockGrams"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	CreatedAt  time.Time `db:"created_at" json:"-"`
	UpdatedAt  time.Time `db:"updated_at" json:"-"`
}
