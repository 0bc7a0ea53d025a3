package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"goodsin/internal/domain"
	"goodsin/internal/port"
)

type masterItemRepo struct {
	db *sqlx.DB
}

// NewMasterItemRepo creates a new PostgreSQL-backed MasterItemRepository.
func NewMasterItemRepo(db *sqlx.DB) port.MasterItemRepository {
	return &masterItemRepo{db: db}
}

func (r *masterItemRepo) Create(ctx context.Context, item *domain.MasterItem) error {
	item.ID = uuid.New()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	query := `INSERT INTO master_items
		(id, user_id, workspace_id, item_name, unit, category, last_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.UserID, item.WorkspaceID, item.ItemName, item.Unit,
		item.Category, item.LastPrice, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("masterItemRepo.Create: %w", err)
	}
	return nil
}

func (r *masterItemRepo) GetByID(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.MasterItem, error) {
	cond, arg := scopeCond(scope, "", 2)
	var item domain.MasterItem
	err := r.db.GetContext(ctx, &item,
		"SELECT * FROM master_items WHERE id = $1 AND "+cond, id, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("masterItemRepo.GetByID: %w", err)
	}
	return &item, nil
}

func (r *masterItemRepo) GetByNormalizedName(ctx context.Context, scope domain.Scope, key string) (*domain.MasterItem, error) {
	cond, arg := scopeCond(scope, "", 2)
	var item domain.MasterItem
	err := r.db.GetContext(ctx, &item,
		"SELECT * FROM master_items WHERE lower(trim(item_name)) = $1 AND "+cond, key, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("masterItemRepo.GetByNormalizedName: %w", err)
	}
	return &item, nil
}

func (r *masterItemRepo) ListByScope(ctx context.Context, scope domain.Scope) ([]domain.MasterItem, error) {
	cond, arg := scopeCond(scope, "", 1)
	var items []domain.MasterItem
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM master_items WHERE "+cond+" ORDER BY item_name ASC", arg)
	if err != nil {
		return nil, fmt.Errorf("masterItemRepo.ListByScope: %w", err)
	}
	return items, nil
}

func (r *masterItemRepo) Update(ctx context.Context, item *domain.MasterItem) error {
	item.UpdatedAt = time.Now().UTC()
	query := `UPDATE master_items
		SET item_name = $1, unit = $2, category = $3, last_price = $4, updated_at = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query,
		item.ItemName, item.Unit, item.Category, item.LastPrice, item.UpdatedAt, item.ID)
	if err != nil {
		return fmt.Errorf("masterItemRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
