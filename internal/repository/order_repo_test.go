package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printhaus/printhaus_api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestTransitionStatusGuardHolds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectExec("UPDATE orders SET").
		WithArgs(42, models.OrderPaid, models.OrderProcessing, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.TransitionStatus(42, models.OrderPaid, models.OrderProcessing, nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStatusWritesAnnotationsInGuardedUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)
	tracking := "TRK-9"

	mock.ExpectExec("UPDATE orders SET").
		WithArgs(42, models.OrderProcessing, models.OrderShipped, "TRK-9", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.TransitionStatus(42, models.OrderProcessing, models.OrderShipped, &tracking, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStatusGuardFailsOnStaleRead(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	// Another writer moved the order first; the conditional UPDATE matches
	// zero rows and the caller must re-fetch.
	mock.ExpectExec("UPDATE orders SET").
		WithArgs(42, models.OrderPaid, models.OrderProcessing, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.TransitionStatus(42, models.OrderPaid, models.OrderProcessing, nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateOrderNumber(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT TO_CHAR(NOW(), 'YYYYMMDD')")).
		WillReturnRows(sqlmock.NewRows([]string{"to_char"}).AddRow("20260901"))

	num, err := repo.GenerateOrderNumber()
	require.NoError(t, err)
	assert.Equal(t, "PH-20260901-000007", num)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderScansGeneratedFields(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
			AddRow(11, time.Now()))

	order := &models.Order{
		OrderNumber:    "PH-20260901-000001",
		Items:          []byte(`[]`),
		SubtotalCents:  1500,
		DeliveryMethod: "shipping",
		DeliveryCents:  500,
		Status:         models.OrderPending,
		CustomerName:   "Ada",
		CustomerEmail:  "ada@example.com",
		ShippingAddr:   "1 Example Way",
	}
	err := repo.Create(order)
	require.NoError(t, err)
	assert.Equal(t, 11, order.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
