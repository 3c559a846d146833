package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddItemMergesUncustomizedLines(t *testing.T) {
	cart := NewCart("session-1")

	first := cart.AddItem(CartItem{ProductID: 1, Name: "Benchy", UnitPriceCents: 1500, Quantity: 1})
	second := cart.AddItem(CartItem{ProductID: 1, Name: "Benchy", UnitPriceCents: 1500, Quantity: 1})

	assert.Equal(t, first, second)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCartAddItemMergeAddsRequestedQuantity(t *testing.T) {
	cart := NewCart("session-1")

	cart.AddItem(CartItem{ProductID: 1, Name: "Benchy", UnitPriceCents: 1500, Quantity: 3})
	cart.AddItem(CartItem{ProductID: 1, Name: "Benchy", UnitPriceCents: 1500, Quantity: 3})

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 6, cart.Items[0].Quantity)
	assert.Equal(t, 6, cart.TotalItems())
}

func TestCartAddItemKeepsCustomizedLinesSeparate(t *testing.T) {
	cart := NewCart("session-1")
	custom := []SelectedCustomization{{OptionID: 1, Type: OptionTypeColor, SelectedValues: []string{"red"}}}

	first := cart.AddItem(CartItem{ProductID: 1, Quantity: 1, Customizations: custom})
	second := cart.AddItem(CartItem{ProductID: 1, Quantity: 1, Customizations: custom})

	assert.NotEqual(t, first, second)
	assert.Len(t, cart.Items, 2)
}

func TestCartAddItemDoesNotMergeIntoCustomizedLine(t *testing.T) {
	cart := NewCart("session-1")
	custom := []SelectedCustomization{{OptionID: 1, Type: OptionTypeColor, SelectedValues: []string{"red"}}}

	cart.AddItem(CartItem{ProductID: 1, Quantity: 1, Customizations: custom})
	cart.AddItem(CartItem{ProductID: 1, Quantity: 1})

	assert.Len(t, cart.Items, 2)
}

func TestCartRemoveItemIsIdempotent(t *testing.T) {
	cart := NewCart("session-1")
	id := cart.AddItem(CartItem{ProductID: 1, Quantity: 1})

	cart.RemoveItem(id)
	assert.Empty(t, cart.Items)

	cart.RemoveItem(id)
	cart.RemoveItem("no-such-id")
	assert.Empty(t, cart.Items)
}

func TestCartUpdateQuantity(t *testing.T) {
	cart := NewCart("session-1")
	id := cart.AddItem(CartItem{ProductID: 1, Quantity: 1})

	assert.True(t, cart.UpdateQuantity(id, 5))
	assert.Equal(t, 5, cart.Items[0].Quantity)

	assert.False(t, cart.UpdateQuantity("no-such-id", 3))

	// Zero removes the line.
	assert.True(t, cart.UpdateQuantity(id, 0))
	assert.Empty(t, cart.Items)
}

func TestCartUpdateCustomizationsClearsAcceptance(t *testing.T) {
	cart := NewCart("session-1")
	id := cart.AddItem(CartItem{ProductID: 1, Quantity: 1, Customizations: []SelectedCustomization{
		{OptionID: 1, Type: OptionTypeText, TextValue: "engrave me", NonRefundable: true},
	}})
	cart.Items[0].NonRefundable = true
	require.True(t, cart.AcceptNonRefundable(id, true))

	// Dropping the non-refundable selection clears both flag and acceptance.
	ok := cart.UpdateCustomizations(id, []SelectedCustomization{
		{OptionID: 2, Type: OptionTypeColor, SelectedValues: []string{"red"}},
	}, 0)
	require.True(t, ok)
	assert.False(t, cart.Items[0].NonRefundable)
	assert.False(t, cart.Items[0].NonRefundableAccepted)

	// Re-adding a non-refundable selection requires accepting again.
	ok = cart.UpdateCustomizations(id, []SelectedCustomization{
		{OptionID: 1, Type: OptionTypeText, TextValue: "engrave me", NonRefundable: true},
	}, 0)
	require.True(t, ok)
	assert.True(t, cart.Items[0].NonRefundable)
	assert.False(t, cart.Items[0].NonRefundableAccepted)
}

func TestCartTotals(t *testing.T) {
	cart := NewCart("session-1")
	cart.AddItem(CartItem{ProductID: 1, UnitPriceCents: 1000, Quantity: 2})
	cart.AddItem(CartItem{
		ProductID:          2,
		UnitPriceCents:     2500,
		Quantity:           1,
		CustomizationCents: 500,
		Customizations:     []SelectedCustomization{{OptionID: 1, PriceModifierCents: 500}},
	})

	assert.Equal(t, 3, cart.TotalItems())
	assert.Equal(t, int64(2*1000+2500+500), cart.TotalPriceCents())
}

func TestCartItemLineTotalMultipliesCustomization(t *testing.T) {
	item := CartItem{UnitPriceCents: 1000, CustomizationCents: 250, Quantity: 3}
	assert.Equal(t, int64(3750), item.LineTotalCents())
}
