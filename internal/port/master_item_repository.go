package port

import (
	"context"

	"github.com/google/uuid"

	"goodsin/internal/domain"
)

// MasterItemRepository defines the contract for master catalog persistence.
// All query methods take a scope to enforce personal/workspace isolation at
// the data layer.
type MasterItemRepository interface {
	Create(ctx context.Context, item *domain.MasterItem) error
	GetByID(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.MasterItem, error)
	// GetByNormalizedName looks up an item by its trim+lowercase name key.
	GetByNormalizedName(ctx context.Context, scope domain.Scope, key string) (*domain.MasterItem, error)
	ListByScope(ctx context.Context, scope domain.Scope) ([]domain.MasterItem, error)
	Update(ctx context.Context, item *domain.MasterItem) error
}
