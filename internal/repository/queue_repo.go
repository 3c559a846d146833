package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/printhaus/printhaus_api/internal/models"
)

// QueueRepository handles data access for production queue items.
type QueueRepository struct {
	db *sqlx.DB
}

// NewQueueRepository creates a new QueueRepository.
func NewQueueRepository(db *sqlx.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

// CreateForOrder inserts one queue entry per order line, all in `pending`.
func (r *QueueRepository) CreateForOrder(orderID int, items []models.OrderItem) error {
	const q = `
        INSERT INTO production_queue (
            order_id, line_item_id, priority, status, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,NOW(),NOW())`

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	for _, item := range items {
		if _, err := tx.Exec(q, orderID, item.ItemID, 0, models.QueuePending); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// GetByID returns a queue item with joined display fields.
func (r *QueueRepository) GetByID(id int) (*models.ProductionQueueItem, error) {
	const q = queueSelect + ` WHERE qi.id = $1 LIMIT 1`
	var item models.ProductionQueueItem
	if err := r.db.Get(&item, q, id); err != nil {
		return nil, err
	}
	return &item, nil
}

const queueSelect = `
        SELECT qi.*,
               o.order_number,
               pr.name AS printer_name,
               m.name AS material_name,
               au.name AS assignee_name
        FROM production_queue qi
        JOIN orders o ON qi.order_id = o.id
        LEFT JOIN printers pr ON qi.printer_id = pr.id
        LEFT JOIN materials m ON qi.material_id = m.id
        LEFT JOIN admin_users au ON qi.assignee_id = au.id`

// QueueFilter holds filters for queue listing.
type QueueFilter struct {
	Status    *string
	PrinterID *int
	OrderID   *int
}

// List returns queue items ordered by priority then age.
func (r *QueueRepository) List(filter *QueueFilter) ([]models.ProductionQueueItem, error) {
	q := queueSelect + ` WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil && *filter.Status != "" {
		q += fmt.Sprintf(" AND qi.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.PrinterID != nil {
		q += fmt.Sprintf(" AND qi.printer_id = $%d", argIdx)
		args = append(args, *filter.PrinterID)
		argIdx++
	}
	if filter.OrderID != nil {
		q += fmt.Sprintf(" AND qi.order_id = $%d", argIdx)
		args = append(args, *filter.OrderID)
		argIdx++
	}
	q += ` ORDER BY qi.priority DESC, qi.created_at ASC`

	var list []models.ProductionQueueItem
	if err := r.db.Select(&list, q, args...); err != nil {
		return nil, err
	}
	return list, nil
}

// Update persists assignment fields, priority, notes and status.
func (r *QueueRepository) Update(item *models.ProductionQueueItem) error {
	const q = `
        UPDATE production_queue SET
            printer_id = $2,
            material_id = $3,
            assignee_id = $4,
            priority = $5,
            status = $6,
            notes = $7,
            updated_at = NOW()
        WHERE id = $1`

	_, err := r.db.Exec(q,
		item.ID, item.PrinterID, item.MaterialID, item.AssigneeID,
		item.Priority, item.Status, item.Notes,
	)
	return err
}

// CancelForOrder cancels all non-terminal queue items of an order (used when
// the order itself is cancelled while in production).
func (r *QueueRepository) CancelForOrder(orderID int) error {
	const q = `
        UPDATE production_queue SET status = 'cancelled', updated_at = NOW()
        WHERE order_id = $1 AND status NOT IN ('completed','cancelled')`
	_, err := r.db.Exec(q, orderID)
	return err
}
