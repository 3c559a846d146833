package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderTransitions(t *testing.T) {
	legal := []struct{ from, to OrderStatus }{
		{OrderPending, OrderPaid},
		{OrderPaid, OrderProcessing},
		{OrderPaid, OrderCancelled},
		{OrderProcessing, OrderAwaitingInfo},
		{OrderProcessing, OrderShipped},
		{OrderProcessing, OrderCancelled},
		{OrderAwaitingInfo, OrderProcessing},
		{OrderShipped, OrderDelivered},
		{OrderDelivered, OrderRefundRequested},
		{OrderRefundRequested, OrderRefunded},
	}
	for _, tc := range legal {
		assert.NoError(t, CheckOrderTransition(tc.from, tc.to), "%s -> %s should be legal", tc.from, tc.to)
	}

	illegal := []struct{ from, to OrderStatus }{
		{OrderPending, OrderProcessing},
		{OrderPending, OrderCancelled},
		{OrderPending, OrderShipped},
		{OrderPaid, OrderShipped},
		{OrderShipped, OrderCancelled},
		{OrderShipped, OrderProcessing},
		{OrderDelivered, OrderRefunded},
		{OrderCancelled, OrderPaid},
		{OrderRefunded, OrderPending},
		{OrderAwaitingInfo, OrderShipped},
	}
	for _, tc := range illegal {
		assert.Error(t, CheckOrderTransition(tc.from, tc.to), "%s -> %s should be illegal", tc.from, tc.to)
	}
}

func TestOrderTransitionRejectsUnknownStatus(t *testing.T) {
	err := CheckOrderTransition(OrderPending, OrderStatus("shipped_maybe"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown order status")
}

func TestTerminalOrderStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []OrderStatus{OrderCancelled, OrderRefunded} {
		assert.Empty(t, orderTransitions[terminal])
	}
}

func TestQueueTransitions(t *testing.T) {
	legal := []struct{ from, to QueueStatus }{
		{QueuePending, QueuePreparing},
		{QueuePreparing, QueuePrinting},
		{QueuePrinting, QueuePostProcessing},
		{QueuePostProcessing, QueueReady},
		{QueueReady, QueueCompleted},
		{QueuePending, QueueCancelled},
		{QueuePrinting, QueueCancelled},
		{QueueReady, QueueCancelled},
	}
	for _, tc := range legal {
		assert.NoError(t, CheckQueueTransition(tc.from, tc.to), "%s -> %s should be legal", tc.from, tc.to)
	}

	illegal := []struct{ from, to QueueStatus }{
		{QueuePending, QueuePrinting},
		{QueuePreparing, QueueReady},
		{QueueCompleted, QueueCancelled},
		{QueueCancelled, QueuePending},
		{QueueReady, QueuePrinting},
	}
	for _, tc := range illegal {
		assert.Error(t, CheckQueueTransition(tc.from, tc.to), "%s -> %s should be illegal", tc.from, tc.to)
	}
}
