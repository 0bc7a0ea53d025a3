package port

import (
	"context"

	"github.com/google/uuid"

	"goodsin/internal/domain"
)

// PurchaseOrderRepository defines the contract for purchase order persistence.
type PurchaseOrderRepository interface {
	GetByID(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.PurchaseOrder, error)
	ListByScope(ctx context.Context, scope domain.Scope, offset, limit int) ([]domain.PurchaseOrder, int, error)
	ListItems(ctx context.Context, scope domain.Scope, orderID uuid.UUID) ([]domain.PurchaseOrderItem, error)
	ListAllItems(ctx context.Context, scope domain.Scope) ([]domain.PurchaseOrderItem, error)
}
