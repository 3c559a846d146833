package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printhaus/printhaus_api/internal/models"
	"github.com/printhaus/printhaus_api/internal/repository"
	"github.com/printhaus/printhaus_api/internal/sse"
	"github.com/printhaus/printhaus_api/internal/utils"
	"github.com/printhaus/printhaus_api/pkg/payform"
)

var orderColumns = []string{
	"id", "order_number", "user_id", "items", "subtotal_cents", "delivery_method",
	"delivery_cents", "status", "payment_ref", "customer_name", "customer_email",
	"customer_phone", "shipping_address", "admin_notes", "tracking_number",
	"paid_notified", "ship_notified", "deliver_notified", "created_at", "updated_at",
}

type orderRowOpts struct {
	items       string
	paymentRef  *string
	tracking    *string
	notifiedAll bool
}

func orderRow(id int, number string, status models.OrderStatus, opts orderRowOpts) *sqlmock.Rows {
	items := opts.items
	if items == "" {
		items = "[]"
	}
	now := time.Now()
	return sqlmock.NewRows(orderColumns).AddRow(
		id, number, nil, []byte(items), int64(1500), "shipping",
		int64(500), string(status), opts.paymentRef, "Ada", "ada@example.com",
		nil, "1 Example Way", nil, opts.tracking,
		opts.notifiedAll, opts.notifiedAll, opts.notifiedAll, now, now,
	)
}

func newOrderService(t *testing.T, payments *payform.Client) (*OrderService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sdb := sqlx.NewDb(db, "sqlmock")
	return NewOrderService(
		repository.NewOrderRepository(sdb),
		repository.NewProductRepository(sdb),
		repository.NewQueueRepository(sdb),
		nil, payments, "usd", sse.NewHub(),
	), mock
}

func TestTransitionRejectsIllegalMove(t *testing.T) {
	svc, mock := newOrderService(t, nil)

	mock.ExpectQuery("SELECT \\* FROM orders WHERE order_number").
		WithArgs("PH-20260901-000001").
		WillReturnRows(orderRow(1, "PH-20260901-000001", models.OrderPending, orderRowOpts{}))

	_, err := svc.Transition(context.Background(), "PH-20260901-000001", &TransitionRequest{To: models.OrderShipped})
	ve, ok := utils.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, utils.RuleIllegalTransition, ve.Rule)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionShippedRequiresTracking(t *testing.T) {
	svc, mock := newOrderService(t, nil)

	mock.ExpectQuery("SELECT \\* FROM orders WHERE order_number").
		WithArgs("PH-20260901-000001").
		WillReturnRows(orderRow(1, "PH-20260901-000001", models.OrderProcessing, orderRowOpts{}))

	_, err := svc.Transition(context.Background(), "PH-20260901-000001", &TransitionRequest{To: models.OrderShipped})
	ve, ok := utils.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, utils.RuleTrackingRequired, ve.Rule)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionShippedFallsBackToStoredTracking(t *testing.T) {
	svc, mock := newOrderService(t, nil)
	tracking := "TRK-123"

	mock.ExpectQuery("SELECT \\* FROM orders WHERE order_number").
		WithArgs("PH-20260901-000001").
		WillReturnRows(orderRow(1, "PH-20260901-000001", models.OrderProcessing,
			orderRowOpts{tracking: &tracking, notifiedAll: true}))
	mock.ExpectExec("UPDATE orders SET").
		WithArgs(1, models.OrderProcessing, models.OrderShipped, tracking, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	order, err := svc.Transition(context.Background(), "PH-20260901-000001", &TransitionRequest{To: models.OrderShipped})
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionConflictWritesNoAnnotations(t *testing.T) {
	svc, mock := newOrderService(t, nil)

	mock.ExpectQuery("SELECT \\* FROM orders WHERE order_number").
		WithArgs("PH-20260901-000001").
		WillReturnRows(orderRow(1, "PH-20260901-000001", models.OrderProcessing, orderRowOpts{notifiedAll: true}))
	// The guarded UPDATE loses the race; the tracking number must not land
	// through any other statement.
	mock.ExpectExec("UPDATE orders SET").
		WithArgs(1, models.OrderProcessing, models.OrderShipped, "TRK-7", nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.Transition(context.Background(), "PH-20260901-000001",
		&TransitionRequest{To: models.OrderShipped, TrackingNumber: "TRK-7"})
	assert.Equal(t, utils.ErrConflict, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionAwaitingInfoRequiresNote(t *testing.T) {
	svc, mock := newOrderService(t, nil)

	mock.ExpectQuery("SELECT \\* FROM orders WHERE order_number").
		WithArgs("PH-20260901-000001").
		WillReturnRows(orderRow(1, "PH-20260901-000001", models.OrderProcessing, orderRowOpts{}))

	_, err := svc.Transition(context.Background(), "PH-20260901-000001", &TransitionRequest{To: models.OrderAwaitingInfo})
	ve, ok := utils.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, utils.RuleNoteRequired, ve.Rule)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionConflictOnStaleStatus(t *testing.T) {
	svc, mock := newOrderService(t, nil)

	mock.ExpectQuery("SELECT \\* FROM orders WHERE order_number").
		WithArgs("PH-20260901-000001").
		WillReturnRows(orderRow(1, "PH-20260901-000001", models.OrderPaid, orderRowOpts{}))
	mock.ExpectExec("UPDATE orders SET").
		WithArgs(1, models.OrderPaid, models.OrderCancelled, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.Transition(context.Background(), "PH-20260901-000001", &TransitionRequest{To: models.OrderCancelled})
	assert.Equal(t, utils.ErrConflict, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionToProcessingCreatesQueueEntries(t *testing.T) {
	svc, mock := newOrderService(t, nil)
	items := `[{"itemId":"li-1","productId":1,"quantity":1},{"itemId":"li-2","productId":2,"quantity":1}]`

	mock.ExpectQuery("SELECT \\* FROM orders WHERE order_number").
		WithArgs("PH-20260901-000001").
		WillReturnRows(orderRow(1, "PH-20260901-000001", models.OrderPaid, orderRowOpts{items: items}))
	mock.ExpectExec("UPDATE orders SET").
		WithArgs(1, models.OrderPaid, models.OrderProcessing, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO production_queue").
		WithArgs(1, "li-1", 0, models.QueuePending).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO production_queue").
		WithArgs(1, "li-2", 0, models.QueuePending).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	order, err := svc.Transition(context.Background(), "PH-20260901-000001", &TransitionRequest{To: models.OrderProcessing})
	require.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionToCancelledCancelsQueue(t *testing.T) {
	svc, mock := newOrderService(t, nil)

	mock.ExpectQuery("SELECT \\* FROM orders WHERE order_number").
		WithArgs("PH-20260901-000001").
		WillReturnRows(orderRow(1, "PH-20260901-000001", models.OrderProcessing, orderRowOpts{}))
	mock.ExpectExec("UPDATE orders SET").
		WithArgs(1, models.OrderProcessing, models.OrderCancelled, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE production_queue SET status = 'cancelled'").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 2))

	order, err := svc.Transition(context.Background(), "PH-20260901-000001", &TransitionRequest{To: models.OrderCancelled})
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	svc, _ := newOrderService(t, nil)

	_, _, err := svc.Checkout(context.Background(), models.NewCart("session-1"), &CheckoutRequest{})
	assert.Equal(t, utils.ErrEmptyCart, err)
}

func TestCheckoutRequiresNonRefundableAcceptance(t *testing.T) {
	svc, mock := newOrderService(t, nil)

	cart := models.NewCart("session-1")
	cart.AddItem(models.CartItem{
		ProductID:      1,
		Name:           "Engraved plaque",
		UnitPriceCents: 2500,
		Quantity:       1,
		Customizations: []models.SelectedCustomization{
			{OptionID: 1, Type: models.OptionTypeText, TextValue: "for dad", NonRefundable: true},
		},
		NonRefundable: true,
	})

	mock.ExpectQuery("FROM customization_options").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := svc.Checkout(context.Background(), cart, &CheckoutRequest{
		CustomerName:    "Ada",
		CustomerEmail:   "ada@example.com",
		ShippingAddress: "1 Example Way",
		DeliveryMethod:  "shipping",
	})
	ve, ok := utils.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, utils.RuleNonRefundableAccept, ve.Rule)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutCreatesOrderAndIntent(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req payform.CreateIntentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(2*1500+500), req.AmountCents)
		assert.Equal(t, "PH-20260901-000003", req.Reference)
		json.NewEncoder(w).Encode(payform.Intent{
			ID:           "pi_test_1",
			Status:       "requires_payment",
			AmountCents:  req.AmountCents,
			Currency:     req.Currency,
			Reference:    req.Reference,
			ClientSecret: "secret_1",
		})
	}))
	defer gateway.Close()

	svc, mock := newOrderService(t, payform.NewClient(gateway.URL, "test-key"))

	cart := models.NewCart("session-1")
	cart.AddItem(models.CartItem{ProductID: 1, Name: "Benchy", UnitPriceCents: 1500, Quantity: 2})

	mock.ExpectQuery("FROM customization_options").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))
	mock.ExpectQuery("SELECT TO_CHAR").
		WillReturnRows(sqlmock.NewRows([]string{"to_char"}).AddRow("20260901"))
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, time.Now()))
	mock.ExpectExec("UPDATE orders SET payment_ref").
		WithArgs(9, "pi_test_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	order, intent, err := svc.Checkout(context.Background(), cart, &CheckoutRequest{
		CustomerName:    "Ada",
		CustomerEmail:   "ada@example.com",
		ShippingAddress: "1 Example Way",
		DeliveryMethod:  "shipping",
		DeliveryCents:   500,
	})
	require.NoError(t, err)
	assert.Equal(t, "PH-20260901-000003", order.OrderNumber)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, int64(3000), order.SubtotalCents)
	require.NotNil(t, order.PaymentRef)
	assert.Equal(t, "pi_test_1", *order.PaymentRef)
	assert.Equal(t, "secret_1", intent.ClientSecret)
	assert.NoError(t, mock.ExpectationsWereMet())
}
