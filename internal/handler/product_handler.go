package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/printhaus/printhaus_api/internal/service"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// ProductHandler serves the public storefront catalog.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GetProducts returns active products, optionally filtered by category.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	category := c.Query("category")

	products, err := h.productService.List(category)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get products")
		return
	}

	utils.Success(c, 200, "Products retrieved successfully", gin.H{
		"products": products,
	})
}

// GetProduct returns one product by slug with its customization options.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetBySlug(c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, 200, "Product retrieved successfully", product)
}

// GetCategories returns the distinct categories for storefront filters.
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.productService.Categories()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get categories")
		return
	}

	utils.Success(c, 200, "Categories retrieved successfully", gin.H{
		"categories": categories,
	})
}
