package postgres

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"goodsin/internal/config"
	"goodsin/internal/domain"
)

// NewDB creates a new PostgreSQL connection pool.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	return db, nil
}

// scopeCond builds the WHERE fragment and argument selecting rows for a
// scope. Personal rows are those with no workspace; names may collide across
// scopes, so every query must carry this condition. prefix qualifies the
// scope columns in joined queries ("p." or "").
func scopeCond(scope domain.Scope, prefix string, idx int) (string, interface{}) {
	if scope.IsWorkspace() {
		return fmt.Sprintf("%sworkspace_id = $%d", prefix, idx), *scope.WorkspaceID
	}
	return fmt.Sprintf("%suser_id = $%d AND %sworkspace_id IS NULL", prefix, idx, prefix), *scope.UserID
}
