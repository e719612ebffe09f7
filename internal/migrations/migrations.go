package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed sql/postgres/*.sql sql/sqlite/*.sql
var files embed.FS

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

func dir(dialect string) (string, error) {
	switch dialect {
	case DialectPostgres:
		return "sql/postgres", nil
	case DialectSQLite:
		return "sql/sqlite", nil
	default:
		return "", fmt.Errorf("unsupported migration dialect %q", dialect)
	}
}

func prepare(dialect string) (string, error) {
	d, err := dir(dialect)
	if err != nil {
		return "", err
	}
	goose.SetBaseFS(files)
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("set goose dialect: %w", err)
	}
	return d, nil
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, dialect string, logger *zap.Logger) error {
	const operation = "migrations.Up"

	d, err := prepare(dialect)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}

	logger.Info("running database migrations", zap.String("dialect", dialect))
	if err := goose.UpContext(ctx, db, d); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	logger.Info("database migrations completed")
	return nil
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, db *sql.DB, dialect string, logger *zap.Logger) error {
	const operation = "migrations.Down"

	d, err := prepare(dialect)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}

	logger.Info("rolling back last migration")
	if err := goose.DownContext(ctx, db, d); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	logger.Info("migration rollback completed")
	return nil
}

func Status(ctx context.Context, db *sql.DB, dialect string) error {
	d, err := prepare(dialect)
	if err != nil {
		return fmt.Errorf("migrations.Status: %w", err)
	}
	return goose.StatusContext(ctx, db, d)
}
