package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/printhaus/printhaus_api/internal/middleware"
	"github.com/printhaus/printhaus_api/internal/repository"
	"github.com/printhaus/printhaus_api/internal/service"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// AdminOrderHandler serves the back-office order board.
type AdminOrderHandler struct {
	orderService *service.OrderService
}

// NewAdminOrderHandler constructs an AdminOrderHandler.
func NewAdminOrderHandler(orderService *service.OrderService) *AdminOrderHandler {
	return &AdminOrderHandler{orderService: orderService}
}

func strPtr(c *gin.Context, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}

// GetOrders returns filtered, paginated orders.
func (h *AdminOrderHandler) GetOrders(c *gin.Context) {
	filter := &repository.OrderFilter{
		Status:      strPtr(c, "status"),
		OrderNumber: strPtr(c, "orderNumber"),
		Email:       strPtr(c, "email"),
		StartDate:   strPtr(c, "startDate"),
		EndDate:     strPtr(c, "endDate"),
		Page:        1,
		Limit:       50,
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

	result, err := h.orderService.ListAdmin(filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get orders")
		return
	}

	utils.SuccessWithPagination(c, 200, "Orders retrieved successfully", gin.H{
		"orders": result.Orders,
	}, result.Page, result.Limit, result.TotalItems)
}

// GetOrder returns one order by number.
func (h *AdminOrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetByNumber(c.Param("orderNumber"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Order retrieved successfully", order)
}

// UpdateStatus moves an order through the status machine.
func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.Transition(c.Request.Context(), c.Param("orderNumber"), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	log.Info().
		Str("order_number", order.OrderNumber).
		Str("status", string(order.Status)).
		Int("admin_id", c.GetInt(middleware.CtxAdminID)).
		Msg("order status changed by admin")
	utils.Success(c, 200, "Order status updated", order)
}

type annotateRequest struct {
	AdminNotes     *string `json:"adminNotes"`
	TrackingNumber *string `json:"trackingNumber"`
}

// Annotate updates notes or tracking without a status change.
func (h *AdminOrderHandler) Annotate(c *gin.Context) {
	var req annotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.Annotate(c.Param("orderNumber"), req.AdminNotes, req.TrackingNumber)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Order updated", order)
}

// GetStats returns dashboard statistics for the date range.
func (h *AdminOrderHandler) GetStats(c *gin.Context) {
	stats, err := h.orderService.Stats(strPtr(c, "startDate"), strPtr(c, "endDate"))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get statistics")
		return
	}
	utils.Success(c, 200, "Statistics retrieved successfully", stats)
}
