package models

import "github.com/google/uuid"

// CartSchemaVersion is the current cart serialization version. Carts stored
// under an older version are upgraded once at load time (see cache.CartStore).
const CartSchemaVersion = 1

// CartItem is one line in a cart. ItemID is distinct from ProductID so that
// multiple independently customized entries for the same product can coexist.
type CartItem struct {
	ItemID                string                  `json:"itemId"`
	ProductID             int                     `json:"productId"`
	Name                  string                  `json:"name"`
	UnitPriceCents        int64                   `json:"unitPriceCents"`
	Quantity              int                     `json:"quantity"`
	Customizations        []SelectedCustomization `json:"customizations,omitempty"`
	CustomizationCents    int64                   `json:"customizationCents"`
	NonRefundable         bool                    `json:"nonRefundable"`
	NonRefundableAccepted bool                    `json:"nonRefundableAccepted"`
}

// LineTotalCents returns (unit price + customization price) * quantity.
func (i *CartItem) LineTotalCents() int64 {
	return (i.UnitPriceCents + i.CustomizationCents) * int64(i.Quantity)
}

// Cart is the session-scoped shopping cart, serialized into Redis on every
// mutation and rehydrated on load.
type Cart struct {
	SchemaVersion int        `json:"schemaVersion"`
	SessionID     string     `json:"sessionId"`
	Items         []CartItem `json:"items"`
}

// NewCart returns an empty cart for a session.
func NewCart(sessionID string) *Cart {
	return &Cart{SchemaVersion: CartSchemaVersion, SessionID: sessionID}
}

// AddItem inserts a line for the product. An uncustomized add matching an
// existing uncustomized line for the same product adds the requested quantity
// to that line instead of inserting. Customized items are never merged, even
// if identical, so that customization edits stay independently addressable.
// Returns the cart-item id of the affected line.
func (c *Cart) AddItem(item CartItem) string {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if len(item.Customizations) == 0 {
		for idx := range c.Items {
			if c.Items[idx].ProductID == item.ProductID && len(c.Items[idx].Customizations) == 0 {
				c.Items[idx].Quantity += item.Quantity
				return c.Items[idx].ItemID
			}
		}
	}
	item.ItemID = uuid.New().String()
	c.Items = append(c.Items, item)
	return item.ItemID
}

// RemoveItem removes the line with the given cart-item id. Removing an
// unknown id is a no-op.
func (c *Cart) RemoveItem(itemID string) {
	for idx := range c.Items {
		if c.Items[idx].ItemID == itemID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line. Returns false if the line does not exist.
func (c *Cart) UpdateQuantity(itemID string, quantity int) bool {
	if quantity <= 0 {
		before := len(c.Items)
		c.RemoveItem(itemID)
		return len(c.Items) != before
	}
	for idx := range c.Items {
		if c.Items[idx].ItemID == itemID {
			c.Items[idx].Quantity = quantity
			return true
		}
	}
	return false
}

// UpdateCustomizations replaces the customization list and the cached
// modifier sum for a line. The caller prices the selections first.
// Returns false if the line does not exist.
func (c *Cart) UpdateCustomizations(itemID string, customizations []SelectedCustomization, customizationCents int64) bool {
	for idx := range c.Items {
		if c.Items[idx].ItemID != itemID {
			continue
		}
		c.Items[idx].Customizations = customizations
		c.Items[idx].CustomizationCents = customizationCents
		nonRefundable := false
		for _, sc := range customizations {
			if sc.NonRefundable {
				nonRefundable = true
				break
			}
		}
		c.Items[idx].NonRefundable = nonRefundable
		if !nonRefundable {
			c.Items[idx].NonRefundableAccepted = false
		}
		return true
	}
	return false
}

// AcceptNonRefundable marks a non-refundable line as accepted by the buyer.
func (c *Cart) AcceptNonRefundable(itemID string, accepted bool) bool {
	for idx := range c.Items {
		if c.Items[idx].ItemID == itemID {
			c.Items[idx].NonRefundableAccepted = accepted
			return true
		}
	}
	return false
}

// TotalItems returns the sum of quantities across all lines.
func (c *Cart) TotalItems() int {
	n := 0
	for idx := range c.Items {
		n += c.Items[idx].Quantity
	}
	return n
}

// TotalPriceCents returns the sum of line totals.
func (c *Cart) TotalPriceCents() int64 {
	var total int64
	for idx := range c.Items {
		total += c.Items[idx].LineTotalCents()
	}
	return total
}
