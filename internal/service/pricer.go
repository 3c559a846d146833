package service

import (
	"github.com/printhaus/printhaus_api/internal/models"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// The customization pricer resolves selections against a product's options
// and caches the resulting price modifier on each selection. It assumes
// structurally valid input: required-ness is enforced at checkout, not here.

// PriceCustomizations resolves every selection against its option and returns
// the selections with cached modifiers plus their sum. Selections referencing
// unknown options or choice values are a validation error.
func PriceCustomizations(basePriceCents int64, options []models.CustomizationOption, selections []models.SelectedCustomization) ([]models.SelectedCustomization, int64, error) {
	byID := make(map[int]*models.CustomizationOption, len(options))
	for i := range options {
		byID[options[i].ID] = &options[i]
	}

	var total int64
	priced := make([]models.SelectedCustomization, len(selections))
	for i, sel := range selections {
		opt, ok := byID[sel.OptionID]
		if !ok {
			return nil, 0, utils.Validation(utils.RuleInvalidSelection, "product has no customization option %d", sel.OptionID)
		}
		modifier, err := priceSelection(basePriceCents, opt, &sel)
		if err != nil {
			return nil, 0, err
		}
		sel.Type = opt.Type
		sel.Label = opt.Label
		sel.PriceModifierCents = modifier
		sel.NonRefundable = opt.NonRefundable
		priced[i] = sel
		total += modifier
	}
	return priced, total, nil
}

// priceSelection computes the modifier for one selection under its option's
// pricing policy. The two accumulation modes stay distinct: add and
// free_limit charge fixed per-choice amounts, multiply derives its modifier
// from the base price and is never summed with per-choice amounts directly.
func priceSelection(basePriceCents int64, opt *models.CustomizationOption, sel *models.SelectedCustomization) (int64, error) {
	if err := checkSelectionShape(opt, sel); err != nil {
		return 0, err
	}

	// Text and file options carry no choice set; they price flat zero unless
	// the option itself is marked non-refundable (engraving, custom files).
	if opt.Type == models.OptionTypeText || opt.Type == models.OptionTypeFile {
		return 0, nil
	}

	// An unselected optional option contributes zero.
	if len(sel.SelectedValues) == 0 {
		return 0, nil
	}

	choices, err := opt.DecodeChoices()
	if err != nil {
		return 0, utils.Validation(utils.RuleInvalidSelection, "option %q has a malformed choice set", opt.Label)
	}
	byValue := make(map[string]*models.Choice, len(choices))
	for i := range choices {
		byValue[choices[i].Value] = &choices[i]
	}

	var modifier int64
	switch opt.PricingPolicy {
	case models.PolicyAdd:
		for _, v := range sel.SelectedValues {
			choice, ok := byValue[v]
			if !ok {
				return 0, utils.Validation(utils.RuleUnknownChoice, "option %q has no choice %q", opt.Label, v)
			}
			modifier += choice.PriceModifierCents
		}

	case models.PolicyFreeLimit:
		// The first FreeLimit units are free; the per-unit modifier applies
		// only beyond that threshold.
		units := sel.Quantity
		if units == 0 {
			units = len(sel.SelectedValues)
		}
		choice, ok := byValue[sel.SelectedValues[0]]
		if !ok {
			return 0, utils.Validation(utils.RuleUnknownChoice, "option %q has no choice %q", opt.Label, sel.SelectedValues[0])
		}
		if billable := units - opt.FreeLimit; billable > 0 {
			modifier = int64(billable) * choice.PriceModifierCents
		}

	case models.PolicyMultiply:
		// Each multiplier applies to the base price; the cached modifier is
		// the delta against base, rounded to the cent.
		for _, v := range sel.SelectedValues {
			choice, ok := byValue[v]
			if !ok {
				return 0, utils.Validation(utils.RuleUnknownChoice, "option %q has no choice %q", opt.Label, v)
			}
			bps := choice.MultiplierBps
			if bps == 0 {
				bps = 10000
			}
			modifier += roundDiv(basePriceCents*(bps-10000), 10000)
		}

	default:
		return 0, utils.Validation(utils.RuleInvalidSelection, "option %q has unknown pricing policy %q", opt.Label, opt.PricingPolicy)
	}
	return modifier, nil
}

// checkSelectionShape validates the tagged union at the boundary: the
// selection's populated fields must match the option type.
func checkSelectionShape(opt *models.CustomizationOption, sel *models.SelectedCustomization) error {
	switch opt.Type {
	case models.OptionTypeText:
		if len(sel.SelectedValues) > 0 || len(sel.UploadedFiles) > 0 {
			return utils.Validation(utils.RuleInvalidSelection, "option %q accepts only a text value", opt.Label)
		}
	case models.OptionTypeFile:
		if len(sel.SelectedValues) > 0 || sel.TextValue != "" {
			return utils.Validation(utils.RuleInvalidSelection, "option %q accepts only file uploads", opt.Label)
		}
	case models.OptionTypeColor, models.OptionTypeMaterial, models.OptionTypeSize,
		models.OptionTypeStrength, models.OptionTypeSelect:
		if sel.TextValue != "" || len(sel.UploadedFiles) > 0 {
			return utils.Validation(utils.RuleInvalidSelection, "option %q accepts only choice values", opt.Label)
		}
	default:
		return utils.Validation(utils.RuleInvalidSelection, "unknown option type %q", opt.Type)
	}
	return nil
}

// IsSelected reports whether a selection carries any value for its type.
func IsSelected(sel *models.SelectedCustomization) bool {
	return len(sel.SelectedValues) > 0 || sel.TextValue != "" || len(sel.UploadedFiles) > 0
}

// roundDiv divides rounding half away from zero, so cent amounts derived
// from multipliers round the way prices are displayed.
func roundDiv(n, d int64) int64 {
	if n >= 0 {
		return (n + d/2) / d
	}
	return (n - d/2) / d
}
