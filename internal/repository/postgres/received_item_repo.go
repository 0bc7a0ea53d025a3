package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"goodsin/internal/domain"
	"goodsin/internal/port"
)

type receivedItemRepo struct {
	db *sqlx.DB
}

// NewReceivedItemRepo creates a new PostgreSQL-backed ReceivedItemRepository.
func NewReceivedItemRepo(db *sqlx.DB) port.ReceivedItemRepository {
	return &receivedItemRepo{db: db}
}

func (r *receivedItemRepo) Create(ctx context.Context, item *domain.ReceivedItem) error {
	item.ID = uuid.New()
	item.CreatedAt = time.Now().UTC()

	query := `INSERT INTO received_items
		(id, user_id, workspace_id, item_name, quantity, unit, unit_price, total_price,
		 received_date, purchase_order_id, master_item_id, document_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.UserID, item.WorkspaceID, item.ItemName, item.Quantity,
		item.Unit, item.UnitPrice, item.TotalPrice, item.ReceivedDate,
		item.PurchaseOrderID, item.MasterItemID, item.DocumentNumber, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("receivedItemRepo.Create: %w", err)
	}
	return nil
}

func (r *receivedItemRepo) ListByScope(ctx context.Context, scope domain.Scope) ([]domain.ReceivedItem, error) {
	cond, arg := scopeCond(scope, "", 1)
	var items []domain.ReceivedItem
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM received_items WHERE "+cond+" ORDER BY received_date DESC, created_at DESC", arg)
	if err != nil {
		return nil, fmt.Errorf("receivedItemRepo.ListByScope: %w", err)
	}
	return items, nil
}
