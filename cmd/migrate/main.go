package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"photobook/internal/config"
	"photobook/internal/database"
	"photobook/internal/logger"
	"photobook/internal/migrations"

	"go.uber.org/zap"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: migrate [up|down|status]")
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Must(cfg.IsProduction())
	defer log.Sync()

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DBConnectTimeout, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("database handle", zap.Error(err))
	}
	defer sqlDB.Close()

	dialect := database.Dialect(cfg.DatabaseURL)
	switch command {
	case "up":
		err = migrations.Up(ctx, sqlDB, dialect, log)
	case "down":
		err = migrations.Down(ctx, sqlDB, dialect, log)
	case "status":
		err = migrations.Status(ctx, sqlDB, dialect)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("migrate failed", zap.String("command", command), zap.Error(err))
	}
}
