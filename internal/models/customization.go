package models

import (
	"encoding/json"
	"time"
)

// OptionType discriminates the customization tagged union. The choice set and
// the shape of a selection both depend on it.
type OptionType string

const (
	OptionTypeColor    OptionType = "color"
	OptionTypeMaterial OptionType = "material"
	OptionTypeSize     OptionType = "size"
	OptionTypeStrength OptionType = "strength"
	OptionTypeText     OptionType = "text"
	OptionTypeFile     OptionType = "file"
	OptionTypeSelect   OptionType = "select"
)

// PricingPolicy determines how selected choices contribute to the line price.
type PricingPolicy string

const (
	// PolicyAdd sums the price modifiers of each selected choice.
	PolicyAdd PricingPolicy = "add"
	// PolicyMultiply applies the choice multiplier to the base price.
	PolicyMultiply PricingPolicy = "multiply"
	// PolicyFreeLimit charges the per-unit modifier only beyond FreeLimit units.
	PolicyFreeLimit PricingPolicy = "free_limit"
)

// CustomizationOption is owned by a product and immutable from the cart's
// perspective. Choices holds the type-specific choice set as JSONB.
type CustomizationOption struct {
	ID            int             `db:"id" json:"id"`
	ProductID     int             `db:"product_id" json:"-"`
	Type          OptionType      `db:"type" json:"type"`
	Label         string          `db:"label" json:"label"`
	Required      bool            `db:"required" json:"required"`
	PricingPolicy PricingPolicy   `db:"pricing_policy" json:"pricingPolicy"`
	FreeLimit     int             `db:"free_limit" json:"freeLimit,omitempty"`
	Choices       json.RawMessage `db:"choices" json:"choices,omitempty"`
	NonRefundable bool            `db:"non_refundable" json:"nonRefundable"`
	CreatedAt     time.Time       `db:"created_at" json:"-"`
	UpdatedAt     time.Time       `db:"updated_at" json:"-"`
}

// Choice is one selectable value inside an option's choice set.
// PriceModifierCents applies under the add and free_limit policies.
// MultiplierBps (basis points, 10000 = x1.0) applies under multiply.
type Choice struct {
	Value              string `json:"value"`
	Label              string `json:"label,omitempty"`
	PriceModifierCents int64  `json:"priceModifierCents,omitempty"`
	MultiplierBps      int64  `json:"multiplierBps,omitempty"`
}

// DecodeChoices parses the option's JSONB choice set.
func (o *CustomizationOption) DecodeChoices() ([]Choice, error) {
	if len(o.Choices) == 0 {
		return nil, nil
	}
	var cs []Choice
	if err := json.Unmarshal(o.Choices, &cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// SelectedCustomization is a cart-time choice bound to one option. The
// resolved modifier is computed once at selection time and cached on the
// line item; it is never recomputed implicitly.
type SelectedCustomization struct {
	OptionID           int        `json:"optionId"`
	Type               OptionType `json:"type"`
	Label              string     `json:"label,omitempty"`
	SelectedValues     []string   `json:"selectedValues,omitempty"`
	Quantity           int        `json:"quantity,omitempty"`
	TextValue          string     `json:"textValue,omitempty"`
	UploadedFiles      []string   `json:"uploadedFiles,omitempty"`
	PriceModifierCents int64      `json:"priceModifierCents"`
	NonRefundable      bool       `json:"nonRefundable"`
}
