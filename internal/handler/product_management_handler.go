package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/printhaus/printhaus_api/internal/repository"
	"github.com/printhaus/printhaus_api/internal/service"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// ProductManagementHandler serves back-office catalog CRUD.
type ProductManagementHandler struct {
	mgmtService *service.ProductManagementService
}

// NewProductManagementHandler constructs a ProductManagementHandler.
func NewProductManagementHandler(mgmtService *service.ProductManagementService) *ProductManagementHandler {
	return &ProductManagementHandler{mgmtService: mgmtService}
}

func paramInt(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid "+name)
		return 0, false
	}
	return n, true
}

// GetProducts returns products for the back office, inactive included.
func (h *ProductManagementHandler) GetProducts(c *gin.Context) {
	filter := &repository.ProductFilter{
		Category: strPtr(c, "category"),
		Search:   strPtr(c, "search"),
		Page:     1,
		Limit:    50,
	}
	if v := c.Query("isActive"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	products, total, err := h.mgmtService.List(filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get products")
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
		"products": products,
	}, filter.Page, filter.Limit, total)
}

// GetProduct returns one product with its options.
func (h *ProductManagementHandler) GetProduct(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	product, err := h.mgmtService.Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Product retrieved successfully", product)
}

// CreateProduct adds a product to the catalog.
func (h *ProductManagementHandler) CreateProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	product, err := h.mgmtService.Create(&req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 201, "Product created", product)
}

// UpdateProduct replaces a product's editable fields.
func (h *ProductManagementHandler) UpdateProduct(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	product, err := h.mgmtService.Update(id, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Product updated", product)
}

// DeactivateProduct hides a product from the storefront.
func (h *ProductManagementHandler) DeactivateProduct(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	if err := h.mgmtService.Deactivate(id); err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Product deactivated", nil)
}

// CreateOption attaches a customization option to a product.
func (h *ProductManagementHandler) CreateOption(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var req service.OptionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	opt, err := h.mgmtService.CreateOption(id, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 201, "Customization option created", opt)
}

// UpdateOption replaces an option definition.
func (h *ProductManagementHandler) UpdateOption(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	optionID, ok := paramInt(c, "optionId")
	if !ok {
		return
	}
	var req service.OptionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	opt, err := h.mgmtService.UpdateOption(id, optionID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Customization option updated", opt)
}

// DeleteOption removes an option definition.
func (h *ProductManagementHandler) DeleteOption(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	optionID, ok := paramInt(c, "optionId")
	if !ok {
		return
	}
	if err := h.mgmtService.DeleteOption(id, optionID); err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Customization option deleted", nil)
}
