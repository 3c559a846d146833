package handler

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/printhaus/printhaus_api/internal/service"
	"github.com/printhaus/printhaus_api/internal/utils"
	"github.com/printhaus/printhaus_api/pkg/payform"
)

// WebhookHandler receives payment gateway callbacks. The signature is
// verified against the raw body before anything is parsed.
type WebhookHandler struct {
	paymentService *service.PaymentService
	webhookSecret  string
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(paymentService *service.PaymentService, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{paymentService: paymentService, webhookSecret: webhookSecret}
}

// HandlePayment handles POST /v1/webhooks/payment.
func (h *WebhookHandler) HandlePayment(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Failed to read request body")
		return
	}

	signature := c.GetHeader("X-Payform-Signature")
	if signature == "" || !payform.VerifyWebhook(body, signature, h.webhookSecret) {
		log.Warn().Str("ip", c.ClientIP()).Msg("payment webhook with invalid signature")
		utils.Error(c, 401, "INVALID_SIGNATURE", "Webhook signature verification failed")
		return
	}

	var event payform.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Malformed webhook payload")
		return
	}
	if event.EventID == "" || event.Kind == "" {
		utils.Error(c, 400, "INVALID_REQUEST", "Webhook payload missing eventId or kind")
		return
	}

	if err := h.paymentService.HandleWebhook(c.Request.Context(), &event); err != nil {
		// Non-2xx makes the gateway redeliver; idempotent recording makes
		// that safe.
		log.Error().Err(err).Str("event_id", event.EventID).Msg("webhook processing failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Webhook processing failed")
		return
	}

	utils.Success(c, 200, "Webhook processed", nil)
}
