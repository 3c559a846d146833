package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/printhaus/printhaus_api/internal/models"
	"github.com/printhaus/printhaus_api/internal/repository"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// MessageHandler serves the public contact form and the admin inbox.
type MessageHandler struct {
	messageRepo *repository.MessageRepository
	orderRepo   *repository.OrderRepository
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(messageRepo *repository.MessageRepository, orderRepo *repository.OrderRepository) *MessageHandler {
	return &MessageHandler{messageRepo: messageRepo, orderRepo: orderRepo}
}

type messageRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Body        string `json:"body" binding:"required"`
	OrderNumber string `json:"orderNumber"`
}

// CreateMessage handles the public contact form. An order number, when given,
// links the message to that order so awaiting_info replies land next to it.
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	msg := &models.CustomerMessage{Name: req.Name, Email: req.Email, Body: req.Body}
	if req.OrderNumber != "" {
		order, err := h.orderRepo.GetByOrderNumber(req.OrderNumber)
		if err != nil {
			if repository.IsNoRows(err) {
				utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
				return
			}
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to send message")
			return
		}
		msg.OrderID = &order.ID
	}

	if err := h.messageRepo.Create(msg); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to send message")
		return
	}
	utils.Success(c, 201, "Message sent", msg)
}

// GetMessages returns the admin inbox, optionally unread only.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	page := 1
	limit := 50
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	messages, total, err := h.messageRepo.List(unreadOnly, page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get messages")
		return
	}

	utils.SuccessWithPagination(c, 200, "Messages retrieved successfully", gin.H{
		"messages": messages,
	}, page, limit, total)
}

// MarkRead flags a message as read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	if err := h.messageRepo.MarkRead(id); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update message")
		return
	}
	utils.Success(c, 200, "Message marked as read", nil)
}
