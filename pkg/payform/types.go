package payform

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// CreateIntentRequest is the payload for creating a payment intent.
type CreateIntentRequest struct {
	AmountCents   int64  `json:"amountCents"`
	Currency      string `json:"currency"`
	Reference     string `json:"reference"`
	Description   string `json:"description,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
}

// Intent is a payment intent as returned by the gateway.
type Intent struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	AmountCents  int64  `json:"amountCents"`
	Currency     string `json:"currency"`
	Reference    string `json:"reference"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

// Error is a structured gateway error.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("payform: %s (%s)", e.Message, e.Code)
}

// Webhook event kinds delivered by the gateway.
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
)

// WebhookEvent is the payload POSTed to the webhook endpoint.
type WebhookEvent struct {
	EventID   string          `json:"eventId"`
	Kind      string          `json:"kind"`
	IntentID  string          `json:"intentId"`
	Reference string          `json:"reference"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// VerifyWebhook checks the HMAC-SHA256 signature header against the raw body.
func VerifyWebhook(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
