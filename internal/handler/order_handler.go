package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/printhaus/printhaus_api/internal/service"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// OrderHandler serves public checkout and order lookup.
type OrderHandler struct {
	orderService *service.OrderService
	cartService  *service.CartService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orderService *service.OrderService, cartService *service.CartService) *OrderHandler {
	return &OrderHandler{orderService: orderService, cartService: cartService}
}

// Checkout converts the session cart into a pending order and returns the
// order plus the payment intent's client secret.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	sid := c.GetString("session_id")
	cart, err := h.cartService.Get(c.Request.Context(), sid)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load cart")
		return
	}

	order, intent, err := h.orderService.Checkout(c.Request.Context(), cart, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// A surviving cart after checkout only risks a duplicate order; the
	// customer already has their order number, so log and move on.
	if err := h.cartService.Clear(c.Request.Context(), sid); err != nil {
		log.Warn().Err(err).Str("session_id", sid).Msg("failed to clear cart after checkout")
	}

	utils.Success(c, 201, "Order created", gin.H{
		"order": order,
		"payment": gin.H{
			"intentId":     intent.ID,
			"clientSecret": intent.ClientSecret,
			"status":       intent.Status,
		},
	})
}

// GetOrder returns an order by number for the customer's tracking page. The
// email query parameter must match the order; this is the lookup credential.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		utils.Error(c, 400, utils.RuleMissingField, "email query parameter is required")
		return
	}

	order, err := h.orderService.GetByNumber(c.Param("orderNumber"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if order.CustomerEmail != email {
		utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
		return
	}

	utils.Success(c, 200, "Order retrieved successfully", order)
}
