package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/printhaus/printhaus_api/internal/models"
)

// OrderRepository handles data access for orders.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order row with its frozen item snapshot.
func (r *OrderRepository) Create(o *models.Order) error {
	const q = `
        INSERT INTO orders (
            order_number, user_id, items, subtotal_cents, delivery_method,
            delivery_cents, status, payment_ref, customer_name, customer_email,
            customer_phone, shipping_address, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW(),NOW())
        RETURNING id, created_at`

	return r.db.QueryRow(q,
		o.OrderNumber, o.UserID, []byte(o.Items), o.SubtotalCents, o.DeliveryMethod,
		o.DeliveryCents, o.Status, o.PaymentRef, o.CustomerName, o.CustomerEmail,
		o.CustomerPhone, o.ShippingAddr,
	).Scan(&o.ID, &o.CreatedAt)
}

// GetByID returns an order by internal id.
func (r *OrderRepository) GetByID(id int) (*models.Order, error) {
	const q = `SELECT * FROM orders WHERE id = $1 LIMIT 1`
	var o models.Order
	if err := r.db.Get(&o, q, id); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByOrderNumber returns an order by its public order number.
func (r *OrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	const q = `SELECT * FROM orders WHERE order_number = $1 LIMIT 1`
	var o models.Order
	if err := r.db.Get(&o, q, orderNumber); err != nil {
		return nil, err
	}
	return &o, nil
}

// TransitionStatus moves an order from one status to another with a
// read-check-write guard: the UPDATE only applies while the persisted status
// still equals from. It reports false when the guard failed (stale read).
// Notified flags, tracking and notes are written in the same statement so a
// failed guard leaves no partial annotation behind; nil tracking/notes keep
// the stored values.
func (r *OrderRepository) TransitionStatus(id int, from, to models.OrderStatus, tracking, notes *string) (bool, error) {
	const q = `
        UPDATE orders SET
            status = $3,
            tracking_number = COALESCE($4, tracking_number),
            admin_notes = COALESCE($5, admin_notes),
            paid_notified = paid_notified OR ($3 = 'paid'),
            ship_notified = ship_notified OR ($3 = 'shipped'),
            deliver_notified = deliver_notified OR ($3 = 'delivered'),
            updated_at = NOW()
        WHERE id = $1 AND status = $2`

	res, err := r.db.Exec(q, id, from, to, tracking, notes)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetPaymentRef records the gateway payment reference.
func (r *OrderRepository) SetPaymentRef(id int, paymentRef string) error {
	const q = `UPDATE orders SET payment_ref = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(q, id, paymentRef)
	return err
}

// SetTrackingNumber records the shipment tracking number.
func (r *OrderRepository) SetTrackingNumber(id int, tracking string) error {
	const q = `UPDATE orders SET tracking_number = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(q, id, tracking)
	return err
}

// SetAdminNotes replaces the admin annotation on an order.
func (r *OrderRepository) SetAdminNotes(id int, notes string) error {
	const q = `UPDATE orders SET admin_notes = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(q, id, notes)
	return err
}

// GenerateOrderNumber returns an order number like PH-YYYYMMDD-NNNNNN.
// The sequence restarts daily; date arithmetic is done DB-side to avoid
// timezone mismatches between instances.
func (r *OrderRepository) GenerateOrderNumber() (string, error) {
	const seqQ = `
        SELECT COALESCE(MAX(
            CAST(SUBSTRING(order_number FROM 13) AS INT)
        ), 0) + 1
        FROM orders
        WHERE order_number LIKE 'PH-' || TO_CHAR(NOW(), 'YYYYMMDD') || '-%'`

	var next int
	if err := r.db.Get(&next, seqQ); err != nil {
		return "", err
	}

	const dateQ = `SELECT TO_CHAR(NOW(), 'YYYYMMDD')`
	var ymd string
	if err := r.db.Get(&ymd, dateQ); err != nil {
		return "", err
	}
	return fmt.Sprintf("PH-%s-%06d", ymd, next), nil
}

// OrderFilter holds filters for admin order queries.
type OrderFilter struct {
	Status      *string
	OrderNumber *string
	Email       *string
	StartDate   *string
	EndDate     *string
	Page        int
	Limit       int
}

// OrderListResult contains paginated order results.
type OrderListResult struct {
	Orders     []models.Order
	TotalItems int
	TotalPages int
	Page       int
	Limit      int
}

// ListAdmin returns orders for the back office with filters and pagination.
func (r *OrderRepository) ListAdmin(filter *OrderFilter) (*OrderListResult, error) {
	baseQ := `FROM orders WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil && *filter.Status != "" {
		baseQ += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.OrderNumber != nil && *filter.OrderNumber != "" {
		baseQ += fmt.Sprintf(" AND order_number ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.OrderNumber+"%")
		argIdx++
	}
	if filter.Email != nil && *filter.Email != "" {
		baseQ += fmt.Sprintf(" AND customer_email ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.Email+"%")
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseQ += fmt.Sprintf(" AND created_at >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseQ += fmt.Sprintf(" AND created_at < ($%d::date + interval '1 day')", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) "+baseQ, args...); err != nil {
		return nil, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	offset := (filter.Page - 1) * filter.Limit
	totalPages := (total + filter.Limit - 1) / filter.Limit

	selectQ := fmt.Sprintf("SELECT * %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d", baseQ, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var orders []models.Order
	if err := r.db.Select(&orders, selectQ, args...); err != nil {
		return nil, err
	}

	return &OrderListResult{
		Orders:     orders,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// OrderStats contains order statistics for the admin dashboard.
type OrderStats struct {
	TotalOrders      int   `db:"total_orders" json:"totalOrders"`
	PendingOrders    int   `db:"pending_orders" json:"pendingOrders"`
	PaidOrders       int   `db:"paid_orders" json:"paidOrders"`
	ProcessingOrders int   `db:"processing_orders" json:"processingOrders"`
	AwaitingInfo     int   `db:"awaiting_info_orders" json:"awaitingInfoOrders"`
	ShippedOrders    int   `db:"shipped_orders" json:"shippedOrders"`
	DeliveredOrders  int   `db:"delivered_orders" json:"deliveredOrders"`
	CancelledOrders  int   `db:"cancelled_orders" json:"cancelledOrders"`
	RevenueCents     int64 `db:"revenue_cents" json:"revenueCents"`
}

// GetStats returns order statistics; revenue counts orders that reached
// payment and were not cancelled or refunded.
func (r *OrderRepository) GetStats(startDate, endDate *string) (*OrderStats, error) {
	q := `SELECT
            COUNT(*) as total_orders,
            COUNT(*) FILTER (WHERE status = 'pending') as pending_orders,
            COUNT(*) FILTER (WHERE status = 'paid') as paid_orders,
            COUNT(*) FILTER (WHERE status = 'processing') as processing_orders,
            COUNT(*) FILTER (WHERE status = 'awaiting_info') as awaiting_info_orders,
            COUNT(*) FILTER (WHERE status = 'shipped') as shipped_orders,
            COUNT(*) FILTER (WHERE status = 'delivered') as delivered_orders,
            COUNT(*) FILTER (WHERE status = 'cancelled') as cancelled_orders,
            COALESCE(SUM(subtotal_cents + delivery_cents) FILTER (
                WHERE status NOT IN ('pending','cancelled','refunded')), 0) as revenue_cents
          FROM orders
          WHERE 1=1`

	args := []interface{}{}
	argIdx := 1
	if startDate != nil && *startDate != "" {
		q += fmt.Sprintf(" AND created_at >= $%d::date", argIdx)
		args = append(args, *startDate)
		argIdx++
	}
	if endDate != nil && *endDate != "" {
		q += fmt.Sprintf(" AND created_at < ($%d::date + interval '1 day')", argIdx)
		args = append(args, *endDate)
		argIdx++
	}

	var stats OrderStats
	if err := r.db.Get(&stats, q, args...); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetStalePending returns pending orders older than maxAge, for the
// abandoned-checkout sweeper.
func (r *OrderRepository) GetStalePending(maxAge time.Duration) ([]models.Order, error) {
	const q = `
        SELECT * FROM orders
        WHERE status = 'pending'
          AND created_at < NOW() - $1::interval
        ORDER BY created_at ASC
        LIMIT 100`

	intervalStr := fmt.Sprintf("%d seconds", int(maxAge.Seconds()))

	var list []models.Order
	if err := r.db.Select(&list, q, intervalStr); err != nil {
		return nil, err
	}
	return list, nil
}

// IsNoRows reports whether err is the driver's empty-result sentinel.
func IsNoRows(err error) bool {
	return err == sql.ErrNoRows
}
