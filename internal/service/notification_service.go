package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printhaus/printhaus_api/internal/models"
	"github.com/printhaus/printhaus_api/internal/repository"
	"github.com/printhaus/printhaus_api/pkg/mailer"
)

// NotificationService sends customer emails through the mail relay and logs
// every attempt. Delivery is best-effort: a failed send schedules a retry and
// never propagates to the operation that triggered it.
type NotificationService struct {
	notifRepo *repository.NotificationRepository
	mail      *mailer.Client
	shopName  string
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(notifRepo *repository.NotificationRepository, mail *mailer.Client, shopName string) *NotificationService {
	return &NotificationService{notifRepo: notifRepo, mail: mail, shopName: shopName}
}

// orderMailData is the template payload sent to the relay.
type orderMailData struct {
	ShopName       string `json:"shopName"`
	OrderNumber    string `json:"orderNumber"`
	CustomerName   string `json:"customerName"`
	SubtotalCents  int64  `json:"subtotalCents"`
	DeliveryCents  int64  `json:"deliveryCents"`
	TotalCents     int64  `json:"totalCents"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	AdminNote      string `json:"adminNote,omitempty"`
}

var mailSubjects = map[models.NotificationKind]string{
	models.NotifyConfirmation: "Your order is confirmed",
	models.NotifyShipped:      "Your order has shipped",
	models.NotifyDelivered:    "Your order was delivered",
	models.NotifyAwaitingInfo: "We need more information about your order",
}

// Notify builds the email for the given kind, attempts delivery once, and
// logs the attempt. Undelivered notifications are picked up by the retry
// worker. Errors are logged and swallowed.
func (s *NotificationService) Notify(ctx context.Context, order *models.Order, kind models.NotificationKind) {
	data := orderMailData{
		ShopName:      s.shopName,
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName,
		SubtotalCents: order.SubtotalCents,
		DeliveryCents: order.DeliveryCents,
		TotalCents:    order.GrandTotalCents(),
	}
	if order.TrackingNumber != nil {
		data.TrackingNumber = *order.TrackingNumber
	}
	if kind == models.NotifyAwaitingInfo && order.AdminNotes != nil {
		data.AdminNote = *order.AdminNotes
	}
	payload, _ := json.Marshal(data)

	status, sendErr := s.mail.Send(ctx, &mailer.Message{
		To:       order.CustomerEmail,
		Subject:  mailSubjects[kind],
		Template: "order_" + string(kind),
		Data:     payload,
	})

	entry := &models.Notification{
		OrderID:     order.ID,
		Kind:        kind,
		Recipient:   order.CustomerEmail,
		Payload:     payload,
		Attempt:     1,
		IsDelivered: sendErr == nil,
	}
	if status != 0 {
		entry.HTTPStatus = &status
	}
	if sendErr != nil {
		log.Warn().Err(sendErr).Str("order_number", order.OrderNumber).Str("kind", string(kind)).Msg("notification delivery failed, scheduling retry")
		if next := nextRetryTime(1); !next.IsZero() {
			entry.NextRetryAt = &next
		}
	}
	if err := s.notifRepo.Create(entry); err != nil {
		log.Error().Err(err).Str("order_number", order.OrderNumber).Msg("failed to log notification")
	}
}

// RetryPending redelivers undelivered notifications that are due.
func (s *NotificationService) RetryPending(ctx context.Context) error {
	pending, err := s.notifRepo.GetPending()
	if err != nil {
		return err
	}
	for i := range pending {
		n := &pending[i]
		status, sendErr := s.mail.Send(ctx, &mailer.Message{
			To:       n.Recipient,
			Subject:  mailSubjects[n.Kind],
			Template: "order_" + string(n.Kind),
			Data:     n.Payload,
		})

		n.Attempt++
		n.HTTPStatus = nil
		if status != 0 {
			n.HTTPStatus = &status
		}
		n.IsDelivered = sendErr == nil
		if sendErr != nil {
			if next := nextRetryTime(n.Attempt); !next.IsZero() {
				n.NextRetryAt = &next
			} else {
				// Retry budget exhausted; leave undelivered without a retry time.
				n.NextRetryAt = nil
			}
		} else {
			n.NextRetryAt = nil
		}

		if err := s.notifRepo.Update(n); err != nil {
			log.Error().Err(err).Int("notification_id", n.ID).Msg("failed to update notification log")
		}
	}
	return nil
}

// nextRetryTime returns the next retry time based on attempt number.
// Retry intervals: 30s, 1m, 5m, 30m, 2h.
func nextRetryTime(attempt int) time.Time {
	intervals := []time.Duration{
		30 * time.Second,
		1 * time.Minute,
		5 * time.Minute,
		30 * time.Minute,
		2 * time.Hour,
	}
	if attempt < 1 || attempt > len(intervals) {
		return time.Time{}
	}
	return time.Now().Add(intervals[attempt-1])
}
