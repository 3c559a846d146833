package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/printhaus/printhaus_api/internal/repository"
	"github.com/printhaus/printhaus_api/internal/service"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// QueueHandler serves the production queue endpoints.
type QueueHandler struct {
	queueService *service.QueueService
}

// NewQueueHandler constructs a QueueHandler.
func NewQueueHandler(queueService *service.QueueService) *QueueHandler {
	return &QueueHandler{queueService: queueService}
}

func intPtr(c *gin.Context, key string) *int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}

// GetQueue returns queue items ordered by priority then age.
func (h *QueueHandler) GetQueue(c *gin.Context) {
	filter := &repository.QueueFilter{
		Status:    strPtr(c, "status"),
		PrinterID: intPtr(c, "printerId"),
		OrderID:   intPtr(c, "orderId"),
	}

	items, err := h.queueService.List(filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get queue")
		return
	}
	utils.Success(c, 200, "Queue retrieved successfully", gin.H{
		"items": items,
	})
}

// GetQueueItem returns one queue item.
func (h *QueueHandler) GetQueueItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid queue item id")
		return
	}

	item, err := h.queueService.Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Queue item retrieved successfully", item)
}

// UpdateQueueItem applies a partial update, validating status transitions.
func (h *QueueHandler) UpdateQueueItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid queue item id")
		return
	}

	var req service.QueueUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	item, err := h.queueService.Update(id, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Queue item updated", item)
}
