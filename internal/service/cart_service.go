package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/printhaus/printhaus_api/internal/cache"
	"github.com/printhaus/printhaus_api/internal/models"
	"github.com/printhaus/printhaus_api/internal/repository"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// CartService owns session cart mutations. Every mutation loads the cart
// from the store, applies the aggregate operation, and persists the result.
type CartService struct {
	store       *cache.CartStore
	productRepo *repository.ProductRepository
}

// NewCartService constructs a CartService.
func NewCartService(store *cache.CartStore, productRepo *repository.ProductRepository) *CartService {
	return &CartService{store: store, productRepo: productRepo}
}

// Get returns the session's cart.
func (s *CartService) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	return s.store.Load(ctx, sessionID)
}

// Clear drops the session's cart, used after a successful checkout.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

// AddItem adds a product to the cart, pricing any customizations first.
func (s *CartService) AddItem(ctx context.Context, sessionID string, productID int, quantity int, selections []models.SelectedCustomization) (*models.Cart, error) {
	if quantity < 1 {
		return nil, utils.Validation(utils.RuleInvalidQuantity, "quantity must be at least 1")
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive || product.Availability == models.AvailabilityUnavailable {
		return nil, utils.Validation(utils.RuleInvalidSelection, "product %q is not available", product.Name)
	}

	item := models.CartItem{
		ProductID:      product.ID,
		Name:           product.Name,
		UnitPriceCents: product.PriceCents,
		Quantity:       quantity,
	}

	if len(selections) > 0 {
		options, err := s.productRepo.GetOptions(product.ID)
		if err != nil {
			return nil, err
		}
		priced, totalCents, err := PriceCustomizations(product.PriceCents, options, selections)
		if err != nil {
			return nil, err
		}
		item.Customizations = priced
		item.CustomizationCents = totalCents
		for _, sel := range priced {
			if sel.NonRefundable {
				item.NonRefundable = true
				break
			}
		}
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	itemID := cart.AddItem(item)
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	log.Debug().Str("session_id", sessionID).Str("item_id", itemID).Int("product_id", productID).Msg("cart item added")
	return cart, nil
}

// RemoveItem removes a line. Removing an unknown id is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, itemID string) (*models.Cart, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(itemID)
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*models.Cart, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if quantity > 0 {
		if ok := cart.UpdateQuantity(itemID, quantity); !ok {
			return nil, utils.ErrCartItemNotFound
		}
	} else {
		// Equivalent to removal, which is idempotent.
		cart.RemoveItem(itemID)
	}
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateCustomizations replaces a line's customizations, repricing them
// against the product's current option definitions.
func (s *CartService) UpdateCustomizations(ctx context.Context, sessionID, itemID string, selections []models.SelectedCustomization) (*models.Cart, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var target *models.CartItem
	for i := range cart.Items {
		if cart.Items[i].ItemID == itemID {
			target = &cart.Items[i]
			break
		}
	}
	if target == nil {
		return nil, utils.ErrCartItemNotFound
	}

	options, err := s.productRepo.GetOptions(target.ProductID)
	if err != nil {
		return nil, err
	}
	priced, totalCents, err := PriceCustomizations(target.UnitPriceCents, options, selections)
	if err != nil {
		return nil, err
	}

	cart.UpdateCustomizations(itemID, priced, totalCents)
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AcceptNonRefundable records the buyer's explicit acceptance for a
// non-refundable line. Checkout rejects unaccepted non-refundable items.
func (s *CartService) AcceptNonRefundable(ctx context.Context, sessionID, itemID string, accepted bool) (*models.Cart, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if ok := cart.AcceptNonRefundable(itemID, accepted); !ok {
		return nil, utils.ErrCartItemNotFound
	}
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
