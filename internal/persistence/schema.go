package persistence

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// EnsurePostgresSchema creates the leads table if it does not exist yet.
func EnsurePostgresSchema(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	ddl, err := schemaFS.ReadFile("schema/postgres.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := pool.Exec(ctx, string(ddl)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Info("schema ready", zap.String("driver", "postgres"))
	return nil
}

// EnsureSQLiteSchema creates the leads table if it does not exist yet.
func EnsureSQLiteSchema(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	ddl, err := schemaFS.ReadFile("schema/sqlite.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(ddl)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Info("schema ready", zap.String("driver", "sqlite"))
	return nil
}
