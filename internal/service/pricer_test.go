package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printhaus/printhaus_api/internal/models"
	"github.com/printhaus/printhaus_api/internal/utils"
)

func mustChoices(t *testing.T, choices []models.Choice) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(choices)
	require.NoError(t, err)
	return data
}

func TestPriceCustomizationsAddPolicy(t *testing.T) {
	options := []models.CustomizationOption{{
		ID:            1,
		Type:          models.OptionTypeColor,
		Label:         "Color",
		PricingPolicy: models.PolicyAdd,
		Choices: mustChoices(t, []models.Choice{
			{Value: "red", PriceModifierCents: 0},
			{Value: "gold", PriceModifierCents: 300},
		}),
	}}

	priced, total, err := PriceCustomizations(1000, options, []models.SelectedCustomization{
		{OptionID: 1, SelectedValues: []string{"gold"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(300), total)
	require.Len(t, priced, 1)
	assert.Equal(t, int64(300), priced[0].PriceModifierCents)
	assert.Equal(t, models.OptionTypeColor, priced[0].Type)
	assert.Equal(t, "Color", priced[0].Label)
}

func TestPriceCustomizationsFreeLimitPolicy(t *testing.T) {
	options := []models.CustomizationOption{{
		ID:            2,
		Type:          models.OptionTypeSelect,
		Label:         "Extra magnets",
		PricingPolicy: models.PolicyFreeLimit,
		FreeLimit:     2,
		Choices: mustChoices(t, []models.Choice{
			{Value: "magnet", PriceModifierCents: 50},
		}),
	}}

	// Within the free limit: no charge.
	_, total, err := PriceCustomizations(1000, options, []models.SelectedCustomization{
		{OptionID: 2, SelectedValues: []string{"magnet"}, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	// Beyond the limit: only the extra units are billed.
	_, total, err = PriceCustomizations(1000, options, []models.SelectedCustomization{
		{OptionID: 2, SelectedValues: []string{"magnet"}, Quantity: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3*50), total)
}

func TestPriceCustomizationsMultiplyPolicy(t *testing.T) {
	options := []models.CustomizationOption{{
		ID:            3,
		Type:          models.OptionTypeStrength,
		Label:         "Infill",
		PricingPolicy: models.PolicyMultiply,
		Choices: mustChoices(t, []models.Choice{
			{Value: "standard", MultiplierBps: 10000},
			{Value: "reinforced", MultiplierBps: 12500},
		}),
	}}

	// x1.0 adds nothing.
	_, total, err := PriceCustomizations(999, options, []models.SelectedCustomization{
		{OptionID: 3, SelectedValues: []string{"standard"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	// x1.25 on 999 cents: delta 249.75 rounds half away from zero to 250.
	_, total, err = PriceCustomizations(999, options, []models.SelectedCustomization{
		{OptionID: 3, SelectedValues: []string{"reinforced"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(250), total)
}

func TestPriceCustomizationsUnknownOption(t *testing.T) {
	_, _, err := PriceCustomizations(1000, nil, []models.SelectedCustomization{
		{OptionID: 99, SelectedValues: []string{"red"}},
	})
	ve, ok := utils.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, utils.RuleInvalidSelection, ve.Rule)
}

func TestPriceCustomizationsUnknownChoice(t *testing.T) {
	options := []models.CustomizationOption{{
		ID:            1,
		Type:          models.OptionTypeColor,
		Label:         "Color",
		PricingPolicy: models.PolicyAdd,
		Choices:       mustChoices(t, []models.Choice{{Value: "red"}}),
	}}

	_, _, err := PriceCustomizations(1000, options, []models.SelectedCustomization{
		{OptionID: 1, SelectedValues: []string{"chartreuse"}},
	})
	ve, ok := utils.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, utils.RuleUnknownChoice, ve.Rule)
}

func TestPriceCustomizationsShapeMismatch(t *testing.T) {
	options := []models.CustomizationOption{
		{ID: 1, Type: models.OptionTypeText, Label: "Engraving", PricingPolicy: models.PolicyAdd},
		{ID: 2, Type: models.OptionTypeColor, Label: "Color", PricingPolicy: models.PolicyAdd,
			Choices: mustChoices(t, []models.Choice{{Value: "red"}})},
	}

	// Choice values on a text option.
	_, _, err := PriceCustomizations(1000, options, []models.SelectedCustomization{
		{OptionID: 1, SelectedValues: []string{"red"}},
	})
	assert.Error(t, err)

	// Text value on a choice option.
	_, _, err = PriceCustomizations(1000, options, []models.SelectedCustomization{
		{OptionID: 2, TextValue: "hello"},
	})
	assert.Error(t, err)
}

func TestPriceCustomizationsCarriesNonRefundable(t *testing.T) {
	options := []models.CustomizationOption{{
		ID:            1,
		Type:          models.OptionTypeText,
		Label:         "Engraving",
		PricingPolicy: models.PolicyAdd,
		NonRefundable: true,
	}}

	priced, total, err := PriceCustomizations(1000, options, []models.SelectedCustomization{
		{OptionID: 1, TextValue: "for dad"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	require.Len(t, priced, 1)
	assert.True(t, priced[0].NonRefundable)
}

func TestRoundDiv(t *testing.T) {
	assert.Equal(t, int64(1), roundDiv(5, 10))
	assert.Equal(t, int64(0), roundDiv(4, 10))
	assert.Equal(t, int64(-1), roundDiv(-5, 10))
	assert.Equal(t, int64(0), roundDiv(-4, 10))
	assert.Equal(t, int64(250), roundDiv(999*2500, 10000))
}
