package service

import (
	"github.com/printhaus/printhaus_api/internal/models"
	"github.com/printhaus/printhaus_api/internal/repository"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// ProductService serves the public storefront catalog. Only active products
// are visible; detail reads carry the product's customization options so the
// configurator can render without a second round trip.
type ProductService struct {
	productRepo *repository.ProductRepository
}

// NewProductService constructs a ProductService.
func NewProductService(productRepo *repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// List returns active products, optionally filtered by category.
func (s *ProductService) List(category string) ([]models.Product, error) {
	return s.productRepo.ListActive(category)
}

// GetBySlug returns an active product with its customization options.
func (s *ProductService) GetBySlug(slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	options, err := s.productRepo.GetOptions(product.ID)
	if err != nil {
		return nil, err
	}
	product.Options = options
	return product, nil
}

// Categories returns the distinct categories in use, for storefront filters.
func (s *ProductService) Categories() ([]string, error) {
	return s.productRepo.GetCategories()
}
