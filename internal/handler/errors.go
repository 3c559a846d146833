package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/printhaus/printhaus_api/internal/utils"
)

// writeServiceError maps service-layer errors onto the response envelope.
// ValidationErrors carry their rule as the API error code; sentinels map to
// their conventional HTTP status.
func writeServiceError(c *gin.Context, err error) {
	if ve, ok := utils.AsValidation(err); ok {
		utils.Error(c, 400, ve.Rule, ve.Message)
		return
	}

	switch err {
	case utils.ErrOrderNotFound:
		utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
	case utils.ErrProductNotFound:
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	case utils.ErrQueueItemNotFound:
		utils.Error(c, 404, "QUEUE_ITEM_NOT_FOUND", "Queue item not found")
	case utils.ErrCartItemNotFound:
		utils.Error(c, 404, "CART_ITEM_NOT_FOUND", "Cart item not found")
	case utils.ErrConflict:
		utils.Error(c, 409, "STATUS_CONFLICT", "The resource changed concurrently, reload and retry")
	case utils.ErrEmptyCart:
		utils.Error(c, 400, "EMPTY_CART", "Cart is empty")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Something went wrong")
	}
}
