package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printhaus/printhaus_api/internal/models"
	"github.com/printhaus/printhaus_api/internal/repository"
	"github.com/printhaus/printhaus_api/internal/sse"
	"github.com/printhaus/printhaus_api/pkg/payform"
)

func newPaymentService(t *testing.T) (*PaymentService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sdb := sqlx.NewDb(db, "sqlmock")

	orderRepo := repository.NewOrderRepository(sdb)
	orderSvc := NewOrderService(
		orderRepo,
		repository.NewProductRepository(sdb),
		repository.NewQueueRepository(sdb),
		nil, nil, "usd", sse.NewHub(),
	)
	return NewPaymentService(repository.NewPaymentEventRepository(sdb), orderRepo, orderSvc), mock
}

func succeededEvent() *payform.WebhookEvent {
	return &payform.WebhookEvent{
		EventID:   "evt_1",
		Kind:      payform.EventPaymentSucceeded,
		IntentID:  "pi_1",
		Reference: "PH-20260901-000001",
	}
}

func TestHandleWebhookIgnoresReplay(t *testing.T) {
	svc, mock := newPaymentService(t)

	// The event id is already recorded; nothing else may run.
	mock.ExpectExec("INSERT INTO payment_events").
		WithArgs("evt_1", payform.EventPaymentSucceeded, "pi_1", "PH-20260901-000001", []byte(nil)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.HandleWebhook(context.Background(), succeededEvent())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleWebhookFailedEventRecordsOnly(t *testing.T) {
	svc, mock := newPaymentService(t)

	mock.ExpectExec("INSERT INTO payment_events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := svc.HandleWebhook(context.Background(), &payform.WebhookEvent{
		EventID:   "evt_2",
		Kind:      payform.EventPaymentFailed,
		IntentID:  "pi_1",
		Reference: "PH-20260901-000001",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleWebhookUnknownKindRecordsOnly(t *testing.T) {
	svc, mock := newPaymentService(t)

	mock.ExpectExec("INSERT INTO payment_events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := svc.HandleWebhook(context.Background(), &payform.WebhookEvent{
		EventID: "evt_3",
		Kind:    "payment.chargeback_opened",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleWebhookToleratesAlreadyPaidOrder(t *testing.T) {
	svc, mock := newPaymentService(t)
	ref := "pi_1"

	mock.ExpectExec("INSERT INTO payment_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// markPaid loads the order, then the transition loads it again.
	mock.ExpectQuery("SELECT \\* FROM orders WHERE order_number").
		WillReturnRows(orderRow(1, "PH-20260901-000001", models.OrderPaid, orderRowOpts{paymentRef: &ref}))
	mock.ExpectQuery("SELECT \\* FROM orders WHERE order_number").
		WillReturnRows(orderRow(1, "PH-20260901-000001", models.OrderPaid, orderRowOpts{paymentRef: &ref}))

	err := svc.HandleWebhook(context.Background(), succeededEvent())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleWebhookToleratesTransitionConflict(t *testing.T) {
	svc, mock := newPaymentService(t)

	mock.ExpectExec("INSERT INTO payment_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT \\* FROM orders WHERE order_number").
		WillReturnRows(orderRow(1, "PH-20260901-000001", models.OrderPending, orderRowOpts{}))
	// The loaded order has no payment ref yet; the webhook backfills it.
	mock.ExpectExec("UPDATE orders SET payment_ref").
		WithArgs(1, "pi_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT \\* FROM orders WHERE order_number").
		WillReturnRows(orderRow(1, "PH-20260901-000001", models.OrderPending, orderRowOpts{}))
	// A concurrent delivery won the pending -> paid race.
	mock.ExpectExec("UPDATE orders SET").
		WithArgs(1, models.OrderPending, models.OrderPaid, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.HandleWebhook(context.Background(), succeededEvent())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
