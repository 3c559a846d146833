package models

import "fmt"

// OrderStatus enumerates the order lifecycle states.
type OrderStatus string

const (
	OrderPending         OrderStatus = "pending"
	OrderPaid            OrderStatus = "paid"
	OrderProcessing      OrderStatus = "processing"
	OrderAwaitingInfo    OrderStatus = "awaiting_info"
	OrderShipped         OrderStatus = "shipped"
	OrderDelivered       OrderStatus = "delivered"
	OrderCancelled       OrderStatus = "cancelled"
	OrderRefundRequested OrderStatus = "refund_requested"
	OrderRefunded        OrderStatus = "refunded"
)

// orderTransitions lists the legal target states per source state.
// cancelled and refunded are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:         {OrderPaid},
	OrderPaid:            {OrderProcessing, OrderCancelled},
	OrderProcessing:      {OrderAwaitingInfo, OrderShipped, OrderCancelled},
	OrderAwaitingInfo:    {OrderProcessing},
	OrderShipped:         {OrderDelivered},
	OrderDelivered:       {OrderRefundRequested},
	OrderRefundRequested: {OrderRefunded},
}

// ValidOrderStatus reports whether s is a known status value.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderPaid, OrderProcessing, OrderAwaitingInfo,
		OrderShipped, OrderDelivered, OrderCancelled, OrderRefundRequested, OrderRefunded:
		return true
	}
	return false
}

// CanTransitionOrder reports whether from -> to is a legal transition.
func CanTransitionOrder(from, to OrderStatus) bool {
	for _, t := range orderTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// CheckOrderTransition returns an error identifying the illegal pair when
// from -> to is not allowed. The machine never silently clamps or reorders.
func CheckOrderTransition(from, to OrderStatus) error {
	if !ValidOrderStatus(to) {
		return fmt.Errorf("unknown order status %q", to)
	}
	if !CanTransitionOrder(from, to) {
		return fmt.Errorf("illegal order status transition %s -> %s", from, to)
	}
	return nil
}

// QueueStatus enumerates production queue sub-states. They are independent of
// the parent order status: completing every queue item has no effect on the
// order, which operators transition separately.
type QueueStatus string

const (
	QueuePending        QueueStatus = "pending"
	QueuePreparing      QueueStatus = "preparing"
	QueuePrinting       QueueStatus = "printing"
	QueuePostProcessing QueueStatus = "post_processing"
	QueueReady          QueueStatus = "ready"
	QueueCompleted      QueueStatus = "completed"
	QueueCancelled      QueueStatus = "cancelled"
)

var queueTransitions = map[QueueStatus][]QueueStatus{
	QueuePending:        {QueuePreparing, QueueCancelled},
	QueuePreparing:      {QueuePrinting, QueueCancelled},
	QueuePrinting:       {QueuePostProcessing, QueueCancelled},
	QueuePostProcessing: {QueueReady, QueueCancelled},
	QueueReady:          {QueueCompleted, QueueCancelled},
}

// ValidQueueStatus reports whether s is a known sub-state.
func ValidQueueStatus(s QueueStatus) bool {
	switch s {
	case QueuePending, QueuePreparing, QueuePrinting, QueuePostProcessing,
		QueueReady, QueueCompleted, QueueCancelled:
		return true
	}
	return false
}

// CheckQueueTransition returns an error identifying the illegal pair when
// from -> to is not allowed for a production queue item.
func CheckQueueTransition(from, to QueueStatus) error {
	if !ValidQueueStatus(to) {
		return fmt.Errorf("unknown queue status %q", to)
	}
	for _, t := range queueTransitions[from] {
		if t == to {
			return nil
		}
	}
	return fmt.Errorf("illegal queue status transition %s -> %s", from, to)
}
