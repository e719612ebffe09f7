package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"photobook/internal/config"
	"photobook/internal/database"
	"photobook/internal/domain"
	"photobook/internal/logger"
	"photobook/internal/migrations"
	pricingmodule "photobook/internal/modules/pricing"
	"photobook/internal/pricing"
	"photobook/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	email    string
	password string
	name     string
	role     domain.UserRole
}

func main() {
	adminPassword := flag.String("admin-password", "admin12345", "password for admin@photobook.local")
	photographerPassword := flag.String("photographer-password", "photo12345", "password for photographer@photobook.local")
	flag.Parse()

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
		log.Fatal("DB connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("database handle", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := migrations.Up(ctx, sqlDB, database.Dialect(cfg.DatabaseURL), log); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	users := repository.NewUserRepository(db)

	var adminID int64
	for _, a := range []account{
		{email: "admin@photobook.local", password: *adminPassword, name: "Studio Admin", role: domain.RoleAdmin},
		{email: "photographer@photobook.local", password: *photographerPassword, name: "House Photographer", role: domain.RolePhotographer},
	} {
		u, err := ensureUser(ctx, users, a)
		if err != nil {
			log.Fatal("seed user failed", zap.String("email", a.email), zap.Error(err))
		}
		if a.role == domain.RoleAdmin {
			adminID = u.ID
		}
		log.Info("user ready", zap.Int64("id", u.ID), zap.String("email", u.Email), zap.String("role", string(u.Role)))
	}

	// The global row replaces the built-in table so the studio can edit it.
	svc := pricingmodule.NewService(repository.NewPricingConfigRepository(db), nil, log)
	existing, err := repository.NewPricingConfigRepository(db).GetByPhotographer(ctx, pricingmodule.GlobalConfigID)
	switch {
	case err == nil:
		log.Info("global pricing already present", zap.Int("version", existing.Version))
	case repository.IsNotFound(err):
		saved, err := svc.Save(ctx, adminID, domain.RoleAdmin, pricingmodule.SaveConfigRequest{
			PhotographerID: pricingmodule.GlobalConfigID,
			Config:         pricing.DefaultConfig(),
		})
		if err != nil {
			log.Fatal("seed pricing failed", zap.Error(err))
		}
		log.Info("global pricing seeded", zap.Int("version", saved.Version))
	default:
		log.Fatal("load global pricing", zap.Error(err))
	}

	log.Info("seed complete")
}

func ensureUser(ctx context.Context, users *repository.UserRepository, a account) (*domain.User, error) {
	if u, err := users.GetByEmail(ctx, a.email); err == nil {
		return u, nil
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{Email: a.email, PasswordHash: string(hash), Name: a.name, Role: a.role}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
