package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const orderColumns = `id, sku_id, supplier_id, order_quantity, order_date, expected_arrival_date, order_status, received_at`

type purchaseOrderRepository struct {
	db *DB
}

func NewPurchaseOrderRepository(db *DB) repository.PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, o *domain.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (` + orderColumns + `)
		VALUES (:id, :sku_id, :supplier_id, :order_quantity, :order_date, :expected_arrival_date, :order_status, :received_at)
	`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, o); err != nil {
		return fmt.Errorf("failed to insert purchase order: %w", err)
	}
	return nil
}

func (r *purchaseOrderRepository) Get(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	var o domain.PurchaseOrder
	err := sqlx.GetContext(ctx, r.db, &o, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err, "purchase order "+id.String())
	}
	return &o, nil
}

func (r *purchaseOrderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.PurchaseOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM purchase_orders
		WHERE order_status = $1
		ORDER BY expected_arrival_date
	`
	var orders []*domain.PurchaseOrder
	if err := sqlx.SelectContext(ctx, r.db, &orders, query, string(status)); err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	return orders, nil
}

func (r *purchaseOrderRepository) ListOverdue(ctx context.Context, before time.Time) ([]*domain.PurchaseOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM purchase_orders
		WHERE order_status = $1 AND expected_arrival_date < $2
		ORDER BY expected_arrival_date
	`
	var orders []*domain.PurchaseOrder
	if err := sqlx.SelectContext(ctx, r.db, &orders, query, string(domain.OrderPending), before); err != nil {
		return nil, fmt.Errorf("failed to list overdue purchase orders: %w", err)
	}
	return orders, nil
}

func (r *purchaseOrderRepository) MarkReceived(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE purchase_orders SET order_status = $2, received_at = $3 WHERE id = $1 AND order_status = $4`,
		id, string(domain.OrderReceived), at, string(domain.OrderPending))
	if err != nil {
		return false, fmt.Errorf("failed to mark purchase order received: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		// Unknown id, or the order was received by someone else.
		if _, err := r.Get(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}
