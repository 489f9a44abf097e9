package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// The record store keeps each collection as a single jsonb document, so the
// schema is one table of named blobs rather than relational ticket rows.
var migrations = []struct {
	name string
	sql  string
}{
	{
		name: "001_create_collections",
		sql: `CREATE TABLE IF NOT EXISTS collections (
            name TEXT PRIMARY KEY,
            payload JSONB NOT NULL DEFAULT '[]'::jsonb,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	},
}

// RunMigrations applies the schema statements in order.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	for _, m := range migrations {
		logger.Info("applying migration", zap.String("name", m.name))
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
	}

	logger.Info("migrations applied", zap.Int("count", len(migrations)))
	return nil
}
