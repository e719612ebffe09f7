// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"photobook/internal/database"
	"photobook/internal/migrations"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Open returns a fresh in-memory SQLite database with the schema applied.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.Connect(ctx, ":memory:", 5*time.Second, zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every new connection would see its own empty :memory: database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.Up(ctx, sqlDB, migrations.DialectSQLite, zap.NewNop()))
	return db
}
