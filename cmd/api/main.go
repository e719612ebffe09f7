package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photobook/internal/cache"
	"photobook/internal/config"
	"photobook/internal/database"
	"photobook/internal/logger"
	"photobook/internal/migrations"
	pricingmodule "photobook/internal/modules/pricing"
	"photobook/internal/server"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Must(cfg.IsProduction())
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DBConnectTimeout, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("database handle", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := migrations.Up(ctx, sqlDB, database.Dialect(cfg.DatabaseURL), log); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	var configCache pricingmodule.ConfigCache
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, pricing cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			configCache = cache.NewPricingCache(rdb, cfg.PricingCacheTTL)
			log.Info("pricing cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.PricingCacheTTL))
		}
	}

	if cfg.StripeSecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY is empty, payment intents will fail")
	}

	router := server.NewRouter(server.Deps{
		DB:     db,
		Config: cfg,
		Log:    log,
		Cache:  configCache,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
