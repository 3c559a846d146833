package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/printhaus/printhaus_api/internal/models"
	"github.com/printhaus/printhaus_api/internal/repository"
	"github.com/printhaus/printhaus_api/internal/utils"
	"github.com/printhaus/printhaus_api/pkg/payform"
)

// PaymentService consumes gateway webhooks and drives the pending -> paid
// transition. Every event is recorded by its gateway event id before any
// effect runs, so redelivered events are no-ops.
type PaymentService struct {
	eventRepo *repository.PaymentEventRepository
	orderRepo *repository.OrderRepository
	orderSvc  *OrderService
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(eventRepo *repository.PaymentEventRepository, orderRepo *repository.OrderRepository, orderSvc *OrderService) *PaymentService {
	return &PaymentService{eventRepo: eventRepo, orderRepo: orderRepo, orderSvc: orderSvc}
}

// HandleWebhook processes a verified gateway event. The signature has already
// been checked by the handler. Returns nil for replays and for events the
// shop does not act on.
func (s *PaymentService) HandleWebhook(ctx context.Context, event *payform.WebhookEvent) error {
	inserted, err := s.eventRepo.Record(&models.PaymentEvent{
		EventID:     event.EventID,
		Kind:        event.Kind,
		IntentID:    event.IntentID,
		OrderNumber: event.Reference,
		Payload:     event.Data,
	})
	if err != nil {
		return err
	}
	if !inserted {
		log.Info().Str("event_id", event.EventID).Msg("duplicate payment event ignored")
		return nil
	}

	switch event.Kind {
	case payform.EventPaymentSucceeded:
		return s.markPaid(ctx, event)
	case payform.EventPaymentFailed:
		// The order stays pending; the buyer can retry payment against the
		// same intent. The event record is the audit trail.
		log.Warn().Str("event_id", event.EventID).Str("reference", event.Reference).Msg("payment failed")
		return nil
	default:
		log.Debug().Str("event_id", event.EventID).Str("kind", event.Kind).Msg("unhandled payment event kind")
		return nil
	}
}

func (s *PaymentService) markPaid(ctx context.Context, event *payform.WebhookEvent) error {
	order, err := s.orderRepo.GetByOrderNumber(event.Reference)
	if err != nil {
		if repository.IsNoRows(err) {
			log.Error().Str("event_id", event.EventID).Str("reference", event.Reference).Msg("payment event references unknown order")
			return utils.ErrOrderNotFound
		}
		return err
	}

	if order.PaymentRef == nil || *order.PaymentRef != event.IntentID {
		if err := s.orderRepo.SetPaymentRef(order.ID, event.IntentID); err != nil {
			return err
		}
	}

	_, err = s.orderSvc.Transition(ctx, order.OrderNumber, &TransitionRequest{To: models.OrderPaid})
	if err != nil {
		// A conflict or illegal transition means the order already left
		// pending, typically a gateway redelivery racing itself.
		if _, isValidation := utils.AsValidation(err); isValidation || err == utils.ErrConflict {
			log.Info().Str("order_number", order.OrderNumber).Str("status", string(order.Status)).Msg("payment event arrived for non-pending order, ignoring")
			return nil
		}
		return err
	}
	return nil
}
