package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/printhaus/printhaus_api/internal/models"
	"github.com/printhaus/printhaus_api/internal/repository"
	"github.com/printhaus/printhaus_api/internal/sse"
	"github.com/printhaus/printhaus_api/internal/utils"
	"github.com/printhaus/printhaus_api/pkg/payform"
)

// OrderService owns checkout and the order status lifecycle.
type OrderService struct {
	orderRepo   *repository.OrderRepository
	productRepo *repository.ProductRepository
	queueRepo   *repository.QueueRepository
	notifSvc    *NotificationService
	payments    *payform.Client
	currency    string
	hub         *sse.Hub
}

// NewOrderService constructs an OrderService.
func NewOrderService(
	orderRepo *repository.OrderRepository,
	productRepo *repository.ProductRepository,
	queueRepo *repository.QueueRepository,
	notifSvc *NotificationService,
	payments *payform.Client,
	currency string,
	hub *sse.Hub,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		queueRepo:   queueRepo,
		notifSvc:    notifSvc,
		payments:    payments,
		currency:    currency,
		hub:         hub,
	}
}

// CheckoutRequest carries the buyer's checkout details.
type CheckoutRequest struct {
	CustomerName    string `json:"customerName" binding:"required"`
	CustomerEmail   string `json:"customerEmail" binding:"required,email"`
	CustomerPhone   string `json:"customerPhone"`
	ShippingAddress string `json:"shippingAddress" binding:"required"`
	DeliveryMethod  string `json:"deliveryMethod" binding:"required"`
	DeliveryCents   int64  `json:"deliveryCents"`
	UserID          *int   `json:"-"`
}

// Checkout validates the cart, freezes it into an order in `pending`, and
// creates a payment intent for the grand total. The recorded subtotal equals
// the sum of the frozen line totals and is never recomputed from live
// product prices.
func (s *OrderService) Checkout(ctx context.Context, cart *models.Cart, req *CheckoutRequest) (*models.Order, *payform.Intent, error) {
	if len(cart.Items) == 0 {
		return nil, nil, utils.ErrEmptyCart
	}

	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	var subtotal int64
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.Quantity < 1 {
			return nil, nil, utils.Validation(utils.RuleInvalidQuantity, "item %q has quantity %d", item.Name, item.Quantity)
		}
		if err := s.checkRequiredOptions(item); err != nil {
			return nil, nil, err
		}
		// Acceptance is server-enforced: client state alone is not trusted.
		if item.NonRefundable && !item.NonRefundableAccepted {
			return nil, nil, utils.Validation(utils.RuleNonRefundableAccept, "item %q is non-refundable and requires explicit acceptance", item.Name)
		}

		lineTotal := item.LineTotalCents()
		subtotal += lineTotal
		orderItems = append(orderItems, models.OrderItem{
			ItemID:             item.ItemID,
			ProductID:          item.ProductID,
			Name:               item.Name,
			UnitPriceCents:     item.UnitPriceCents,
			Quantity:           item.Quantity,
			Customizations:     item.Customizations,
			CustomizationCents: item.CustomizationCents,
			NonRefundable:      item.NonRefundable,
			LineTotalCents:     lineTotal,
		})
	}

	snapshot, err := json.Marshal(orderItems)
	if err != nil {
		return nil, nil, err
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber()
	if err != nil {
		return nil, nil, err
	}

	order := &models.Order{
		OrderNumber:    orderNumber,
		UserID:         req.UserID,
		Items:          snapshot,
		SubtotalCents:  subtotal,
		DeliveryMethod: req.DeliveryMethod,
		DeliveryCents:  req.DeliveryCents,
		Status:         models.OrderPending,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		ShippingAddr:   req.ShippingAddress,
	}
	if req.CustomerPhone != "" {
		order.CustomerPhone = &req.CustomerPhone
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, nil, err
	}

	// The intent covers items plus delivery; without it the buyer cannot
	// pay, so a gateway failure here fails the checkout.
	intent, err := s.payments.CreateIntent(ctx, &payform.CreateIntentRequest{
		AmountCents:   order.GrandTotalCents(),
		Currency:      s.currency,
		Reference:     order.OrderNumber,
		Description:   "Printhaus order " + order.OrderNumber,
		CustomerEmail: order.CustomerEmail,
	})
	if err != nil {
		log.Error().Err(err).Str("order_number", order.OrderNumber).Msg("payment intent creation failed")
		return nil, nil, err
	}
	order.PaymentRef = &intent.ID
	if err := s.orderRepo.SetPaymentRef(order.ID, intent.ID); err != nil {
		return nil, nil, err
	}

	s.hub.Broadcast(&sse.AdminEvent{
		Event:       sse.EventOrderCreated,
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
	})
	log.Info().Str("order_number", order.OrderNumber).Int64("subtotal_cents", subtotal).Msg("order created")
	return order, intent, nil
}

// checkRequiredOptions verifies every required option of the item's product
// carries a selection. This is checkout's job, not the pricer's.
func (s *OrderService) checkRequiredOptions(item *models.CartItem) error {
	options, err := s.productRepo.GetOptions(item.ProductID)
	if err != nil {
		return err
	}
	selected := make(map[int]*models.SelectedCustomization, len(item.Customizations))
	for i := range item.Customizations {
		selected[item.Customizations[i].OptionID] = &item.Customizations[i]
	}
	for i := range options {
		opt := &options[i]
		if !opt.Required {
			continue
		}
		sel, ok := selected[opt.ID]
		if !ok || !IsSelected(sel) {
			return utils.Validation(utils.RuleRequiredCustomization, "item %q is missing required customization %q", item.Name, opt.Label)
		}
	}
	return nil
}

// TransitionRequest carries optional data accompanying a status change.
type TransitionRequest struct {
	To             models.OrderStatus `json:"status" binding:"required"`
	TrackingNumber string             `json:"trackingNumber"`
	AdminNote      string             `json:"adminNote"`
}

// Transition moves an order to a new status, enforcing the transition table
// and its preconditions, then runs the transition's side effects. The write
// is guarded read-check-write: if the persisted status no longer matches the
// one loaded here, the caller gets ErrConflict and must re-fetch.
func (s *OrderService) Transition(ctx context.Context, orderNumber string, req *TransitionRequest) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNumber(orderNumber)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}

	from := order.Status
	to := req.To
	if err := models.CheckOrderTransition(from, to); err != nil {
		return nil, utils.Validation(utils.RuleIllegalTransition, "%s", err.Error())
	}

	// Preconditions that must hold before the write. The annotations ride
	// along in the guarded UPDATE so a lost race writes nothing at all.
	var trackingPtr, notePtr *string
	if to == models.OrderShipped {
		tracking := strings.TrimSpace(req.TrackingNumber)
		if tracking == "" && order.TrackingNumber != nil {
			tracking = *order.TrackingNumber
		}
		if tracking == "" {
			return nil, utils.Validation(utils.RuleTrackingRequired, "a tracking number is required before marking an order shipped")
		}
		trackingPtr = &tracking
	}
	if to == models.OrderAwaitingInfo {
		note := strings.TrimSpace(req.AdminNote)
		if note == "" {
			return nil, utils.Validation(utils.RuleNoteRequired, "awaiting_info requires an admin note for the customer")
		}
		notePtr = &note
	}

	ok, err := s.orderRepo.TransitionStatus(order.ID, from, to, trackingPtr, notePtr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.ErrConflict
	}
	if trackingPtr != nil {
		order.TrackingNumber = trackingPtr
	}
	if notePtr != nil {
		order.AdminNotes = notePtr
	}

	s.runTransitionEffects(order, from, to)

	order.Status = to
	s.hub.Broadcast(&sse.AdminEvent{
		Event:       sse.EventOrderStatusChanged,
		OrderNumber: order.OrderNumber,
		Status:      string(to),
	})
	log.Info().Str("order_number", order.OrderNumber).Str("from", string(from)).Str("to", string(to)).Msg("order status changed")
	return order, nil
}

// runTransitionEffects performs the side effects of a committed transition.
// Notification and queue failures are logged, never propagated: the
// transition has already succeeded.
func (s *OrderService) runTransitionEffects(order *models.Order, from, to models.OrderStatus) {
	switch to {
	case models.OrderPaid:
		if !order.PaidNotified {
			s.notifyAsync(order, models.NotifyConfirmation)
		}
	case models.OrderProcessing:
		// Entering production for the first time spawns queue entries.
		// Resuming from awaiting_info does not.
		if from == models.OrderPaid {
			items, err := order.DecodeItems()
			if err != nil {
				log.Error().Err(err).Str("order_number", order.OrderNumber).Msg("cannot decode order snapshot for queue creation")
				return
			}
			if err := s.queueRepo.CreateForOrder(order.ID, items); err != nil {
				log.Error().Err(err).Str("order_number", order.OrderNumber).Msg("failed to create production queue entries")
			}
		}
	case models.OrderAwaitingInfo:
		s.notifyAsync(order, models.NotifyAwaitingInfo)
	case models.OrderShipped:
		if !order.ShipNotified {
			s.notifyAsync(order, models.NotifyShipped)
		}
	case models.OrderDelivered:
		if !order.DeliverNotified {
			s.notifyAsync(order, models.NotifyDelivered)
		}
	case models.OrderCancelled:
		if err := s.queueRepo.CancelForOrder(order.ID); err != nil {
			log.Error().Err(err).Str("order_number", order.OrderNumber).Msg("failed to cancel queue entries")
		}
	}
}

// notifyAsync dispatches an email off the request path so the transition
// response never waits on the mail relay.
func (s *OrderService) notifyAsync(order *models.Order, kind models.NotificationKind) {
	o := *order
	go s.notifSvc.Notify(context.Background(), &o, kind)
}

// GetByNumber returns an order by its public order number.
func (s *OrderService) GetByNumber(orderNumber string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNumber(orderNumber)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// Annotate updates admin-editable fields without a status change.
func (s *OrderService) Annotate(orderNumber string, notes, tracking *string) (*models.Order, error) {
	order, err := s.GetByNumber(orderNumber)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		if err := s.orderRepo.SetAdminNotes(order.ID, *notes); err != nil {
			return nil, err
		}
		order.AdminNotes = notes
	}
	if tracking != nil {
		if err := s.orderRepo.SetTrackingNumber(order.ID, *tracking); err != nil {
			return nil, err
		}
		order.TrackingNumber = tracking
	}
	return order, nil
}

// ListAdmin returns filtered, paginated orders for the back office.
func (s *OrderService) ListAdmin(filter *repository.OrderFilter) (*repository.OrderListResult, error) {
	return s.orderRepo.ListAdmin(filter)
}

// Stats returns dashboard statistics.
func (s *OrderService) Stats(startDate, endDate *string) (*repository.OrderStats, error) {
	return s.orderRepo.GetStats(startDate, endDate)
}
