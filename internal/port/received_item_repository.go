package port

import (
	"context"

	"goodsin/internal/domain"
)

// ReceivedItemRepository defines the contract for received-item persistence.
// Rows are insert-only; there is no update method.
type ReceivedItemRepository interface {
	Create(ctx context.Context, item *domain.ReceivedItem) error
	ListByScope(ctx context.Context, scope domain.Scope) ([]domain.ReceivedItem, error)
}
