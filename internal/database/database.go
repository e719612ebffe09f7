package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// IsPostgres reports whether dsn points at a PostgreSQL server.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Connect opens dsn, retrying with exponential backoff for up to
// maxElapsed. Anything that is not a postgres URL is treated as a SQLite file.
func Connect(ctx context.Context, dsn string, maxElapsed time.Duration, log *zap.Logger) (*gorm.DB, error) {
	const operation = "database.Connect"

	var dialector gorm.Dialector
	if IsPostgres(dsn) {
		log.Info("connecting to PostgreSQL")
		dialector = postgres.Open(dsn)
	} else {
		log.Info("using SQLite", zap.String("dsn", dsn))
		dialector = gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		})
	}

	var db *gorm.DB

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = maxElapsed

	err := backoff.RetryNotify(
		func() error {
			var err error
			db, err = gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return backoff.Permanent(err)
			}
			return sqlDB.PingContext(ctx)
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, d time.Duration) {
			log.Warn("database not ready, retrying",
				zap.Error(err),
				zap.Duration("retry_in", d),
			)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	return db, nil
}

// Dialect returns the migration dialect name for dsn.
func Dialect(dsn string) string {
	if IsPostgres(dsn) {
		return "postgres"
	}
	return "sqlite3"
}
