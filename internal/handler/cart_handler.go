package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/printhaus/printhaus_api/internal/models"
	"github.com/printhaus/printhaus_api/internal/service"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// CartHandler serves the session cart endpoints. The session id comes from
// the cart cookie middleware.
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func sessionID(c *gin.Context) string {
	return c.GetString("session_id")
}

// GetCart returns the current session's cart.
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load cart")
		return
	}
	utils.Success(c, 200, "Cart retrieved successfully", cart)
}

type addItemRequest struct {
	ProductID      int                            `json:"productId" binding:"required"`
	Quantity       int                            `json:"quantity" binding:"required"`
	Customizations []models.SelectedCustomization `json:"customizations"`
}

// AddItem adds a product line to the cart.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), sessionID(c), req.ProductID, req.Quantity, req.Customizations)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Item added to cart", cart)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), sessionID(c), c.Param("itemId"), req.Quantity)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Cart updated", cart)
}

type updateCustomizationsRequest struct {
	Customizations []models.SelectedCustomization `json:"customizations"`
}

// UpdateCustomizations replaces a line's customizations and reprices them.
func (h *CartHandler) UpdateCustomizations(c *gin.Context) {
	var req updateCustomizationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.cartService.UpdateCustomizations(c.Request.Context(), sessionID(c), c.Param("itemId"), req.Customizations)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Cart updated", cart)
}

type acceptRequest struct {
	Accepted bool `json:"accepted"`
}

// AcceptNonRefundable records acceptance of a non-refundable line.
func (h *CartHandler) AcceptNonRefundable(c *gin.Context) {
	var req acceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.cartService.AcceptNonRefundable(c.Request.Context(), sessionID(c), c.Param("itemId"), req.Accepted)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Cart updated", cart)
}

// RemoveItem removes a line from the cart. Idempotent.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, err := h.cartService.RemoveItem(c.Request.Context(), sessionID(c), c.Param("itemId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Item removed from cart", cart)
}
