package models

import (
	"encoding/json"
	"time"
)

// Availability enumerates stock availability shown to shoppers.
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityLowStock    Availability = "low_stock"
	AvailabilityUnavailable Availability = "unavailable"
)

// Product represents a catalog entry for a printed item.
// Images and Specifications are JSONB columns: an ordered list of image URLs
// and a list of label/value pairs.
type Product struct {
	ID             int             `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	Slug           string          `db:"slug" json:"slug"`
	Description    string          `db:"description" json:"description"`
	PriceCents     int64           `db:"price_cents" json:"priceCents"`
	Category       string          `db:"category" json:"category"`
	Availability   Availability    `db:"availability" json:"availability"`
	Images         json.RawMessage `db:"images" json:"images,omitempty"`
	Specifications json.RawMessage `db:"specifications" json:"specifications,omitempty"`
	IsActive       bool            `db:"is_active" json:"isActive"`
	CreatedAt      time.Time       `db:"created_at" json:"-"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`

	// Populated on detail reads, not a column.
	Options []CustomizationOption `db:"-" json:"customizationOptions,omitempty"`
}

// Specification is one label/value pair inside Product.Specifications.
type Specification struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
