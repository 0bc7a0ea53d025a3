package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"goodsin/internal/domain"
	"goodsin/internal/port"
)

type purchaseOrderRepo struct {
	db *sqlx.DB
}

// NewPurchaseOrderRepo creates a new PostgreSQL-backed PurchaseOrderRepository.
func NewPurchaseOrderRepo(db *sqlx.DB) port.PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) GetByID(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.PurchaseOrder, error) {
	cond, arg := scopeCond(scope, "", 2)
	var po domain.PurchaseOrder
	err := r.db.GetContext(ctx, &po,
		"SELECT * FROM purchase_orders WHERE id = $1 AND "+cond, id, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("purchaseOrderRepo.GetByID: %w", err)
	}
	return &po, nil
}

func (r *purchaseOrderRepo) ListByScope(ctx context.Context, scope domain.Scope, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	cond, arg := scopeCond(scope, "", 1)

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM purchase_orders WHERE "+cond, arg)
	if err != nil {
		return nil, 0, fmt.Errorf("purchaseOrderRepo.ListByScope count: %w", err)
	}

	var orders []domain.PurchaseOrder
	err = r.db.SelectContext(ctx, &orders,
		"SELECT * FROM purchase_orders WHERE "+cond+
			" ORDER BY order_date DESC, created_at DESC LIMIT $2 OFFSET $3",
		arg, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("purchaseOrderRepo.ListByScope: %w", err)
	}
	return orders, total, nil
}

func (r *purchaseOrderRepo) ListItems(ctx context.Context, scope domain.Scope, orderID uuid.UUID) ([]domain.PurchaseOrderItem, error) {
	// Join through purchase_orders so a foreign scope's order id returns no rows.
	cond, arg := scopeCond(scope, "p.", 2)
	var items []domain.PurchaseOrderItem
	err := r.db.SelectContext(ctx, &items,
		`SELECT i.* FROM purchase_order_items i
		 JOIN purchase_orders p ON p.id = i.purchase_order_id
		 WHERE i.purchase_order_id = $1 AND `+cond+
			" ORDER BY i.item_name ASC", orderID, arg)
	if err != nil {
		return nil, fmt.Errorf("purchaseOrderRepo.ListItems: %w", err)
	}
	return items, nil
}

func (r *purchaseOrderRepo) ListAllItems(ctx context.Context, scope domain.Scope) ([]domain.PurchaseOrderItem, error) {
	cond, arg := scopeCond(scope, "p.", 1)
	var items []domain.PurchaseOrderItem
	err := r.db.SelectContext(ctx, &items,
		`SELECT i.* FROM purchase_order_items i
		 JOIN purchase_orders p ON p.id = i.purchase_order_id
		 WHERE `+cond+
			" ORDER BY p.order_date ASC, i.item_name ASC", arg)
	if err != nil {
		return nil, fmt.Errorf("purchaseOrderRepo.ListAllItems: %w", err)
	}
	return items, nil
}
