package service

import (
	"encoding/json"
	"strings"

	"github.com/printhaus/printhaus_api/internal/models"
	"github.com/printhaus/printhaus_api/internal/repository"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// ProductManagementService owns the back-office catalog CRUD, including
// customization option definitions.
type ProductManagementService struct {
	productRepo *repository.ProductRepository
}

// NewProductManagementService constructs a ProductManagementService.
func NewProductManagementService(productRepo *repository.ProductRepository) *ProductManagementService {
	return &ProductManagementService{productRepo: productRepo}
}

// ProductInput is the admin create/update payload for a product.
type ProductInput struct {
	Name           string                 `json:"name" binding:"required"`
	Slug           string                 `json:"slug" binding:"required"`
	Description    string                 `json:"description"`
	PriceCents     int64                  `json:"priceCents" binding:"required"`
	Category       string                 `json:"category"`
	Availability   models.Availability    `json:"availability"`
	Images         []string               `json:"images"`
	Specifications []models.Specification `json:"specifications"`
	IsActive       *bool                  `json:"isActive"`
}

func (in *ProductInput) apply(p *models.Product) error {
	p.Name = in.Name
	p.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	p.Description = in.Description
	p.PriceCents = in.PriceCents
	p.Category = in.Category
	p.Availability = in.Availability
	if p.Availability == "" {
		p.Availability = models.AvailabilityAvailable
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.Images != nil {
		images, err := json.Marshal(in.Images)
		if err != nil {
			return err
		}
		p.Images = images
	}
	if in.Specifications != nil {
		specs, err := json.Marshal(in.Specifications)
		if err != nil {
			return err
		}
		p.Specifications = specs
	}
	return nil
}

// Create adds a product to the catalog.
func (s *ProductManagementService) Create(in *ProductInput) (*models.Product, error) {
	if in.PriceCents < 0 {
		return nil, utils.Validation(utils.RuleInvalidSelection, "price must not be negative")
	}
	p := &models.Product{IsActive: true}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces a product's editable fields.
func (s *ProductManagementService) Update(id int, in *ProductInput) (*models.Product, error) {
	if in.PriceCents < 0 {
		return nil, utils.Validation(utils.RuleInvalidSelection, "price must not be negative")
	}
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(p); err != nil {
		if repository.IsNoRows(err) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// Get returns a product regardless of active state, with options.
func (s *ProductManagementService) Get(id int) (*models.Product, error) {
	p, err := s.productRepo.GetByID(id)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	options, err := s.productRepo.GetOptions(p.ID)
	if err != nil {
		return nil, err
	}
	p.Options = options
	return p, nil
}

// List returns products for the back office.
func (s *ProductManagementService) List(filter *repository.ProductFilter) ([]models.Product, int, error) {
	return s.productRepo.ListAdmin(filter)
}

// Deactivate soft-deletes a product. Existing orders keep their snapshots.
func (s *ProductManagementService) Deactivate(id int) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.productRepo.Deactivate(id)
}

// OptionInput is the admin payload for a customization option.
type OptionInput struct {
	Type          models.OptionType    `json:"type" binding:"required"`
	Label         string               `json:"label" binding:"required"`
	Required      bool                 `json:"required"`
	PricingPolicy models.PricingPolicy `json:"pricingPolicy"`
	FreeLimit     int                  `json:"freeLimit"`
	Choices       []models.Choice      `json:"choices"`
	NonRefundable bool                 `json:"nonRefundable"`
}

func (in *OptionInput) toModel(productID int) (*models.CustomizationOption, error) {
	opt := &models.CustomizationOption{
		ProductID:     productID,
		Type:          in.Type,
		Label:         in.Label,
		Required:      in.Required,
		PricingPolicy: in.PricingPolicy,
		FreeLimit:     in.FreeLimit,
		NonRefundable: in.NonRefundable,
	}
	if opt.PricingPolicy == "" {
		opt.PricingPolicy = models.PolicyAdd
	}
	switch in.Type {
	case models.OptionTypeText, models.OptionTypeFile:
		if len(in.Choices) > 0 {
			return nil, utils.Validation(utils.RuleInvalidSelection, "%s options do not take a choice set", in.Type)
		}
	case models.OptionTypeColor, models.OptionTypeMaterial, models.OptionTypeSize,
		models.OptionTypeStrength, models.OptionTypeSelect:
		if len(in.Choices) == 0 {
			return nil, utils.Validation(utils.RuleInvalidSelection, "%s options need at least one choice", in.Type)
		}
		choices, err := json.Marshal(in.Choices)
		if err != nil {
			return nil, err
		}
		opt.Choices = choices
	default:
		return nil, utils.Validation(utils.RuleInvalidSelection, "unknown option type %q", in.Type)
	}
	return opt, nil
}

// CreateOption attaches a customization option to a product.
func (s *ProductManagementService) CreateOption(productID int, in *OptionInput) (*models.CustomizationOption, error) {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		if repository.IsNoRows(err) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	opt, err := in.toModel(productID)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.CreateOption(opt); err != nil {
		return nil, err
	}
	return opt, nil
}

// UpdateOption replaces an option definition. Cart lines priced against the
// old definition are repriced on their next customization change; order
// snapshots are never touched.
func (s *ProductManagementService) UpdateOption(productID, optionID int, in *OptionInput) (*models.CustomizationOption, error) {
	existing, err := s.productRepo.GetOption(optionID)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	if existing.ProductID != productID {
		return nil, utils.ErrProductNotFound
	}
	opt, err := in.toModel(productID)
	if err != nil {
		return nil, err
	}
	opt.ID = optionID
	if err := s.productRepo.UpdateOption(opt); err != nil {
		return nil, err
	}
	return opt, nil
}

// DeleteOption removes an option definition.
func (s *ProductManagementService) DeleteOption(productID, optionID int) error {
	existing, err := s.productRepo.GetOption(optionID)
	if err != nil {
		if repository.IsNoRows(err) {
			return utils.ErrProductNotFound
		}
		return err
	}
	if existing.ProductID != productID {
		return utils.ErrProductNotFound
	}
	return s.productRepo.DeleteOption(optionID)
}
