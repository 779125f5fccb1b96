package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSQLiteSchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "leads.db"), zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, EnsureSQLiteSchema(ctx, db.DB, zap.NewNop()))
	require.NoError(t, EnsureSQLiteSchema(ctx, db.DB, zap.NewNop()))
	assert.NoError(t, db.Ping(ctx))

	var count int
	require.NoError(t, db.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM leads").Scan(&count))
	assert.Zero(t, count)
}

func TestNewSQLiteRejectsEmptyPath(t *testing.T) {
	_, err := NewSQLite(context.Background(), "", zap.NewNop())
	assert.Error(t, err)
}

func TestNilHandlesReportNotConfigured(t *testing.T) {
	var (
		pg *Postgres
		sq *SQLite
		rd *Redis
	)
	ctx := context.Background()
	assert.Error(t, pg.Ping(ctx))
	assert.Error(t, sq.Ping(ctx))
	assert.Error(t, rd.Ping(ctx))
	assert.Nil(t, rd.Handle())
	assert.Nil(t, pg.PoolHandle())
}
