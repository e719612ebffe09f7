package pricing

import (
	"context"

	"photobook/internal/domain"
	"photobook/internal/pricing"
)

type ConfigRepository interface {
	GetByPhotographer(ctx context.Context, photographerID int64) (*domain.PricingConfigRecord, error)
	Save(ctx context.Context, rec *domain.PricingConfigRecord) error
}

// ConfigCache is optional; a nil cache means every Load hits the database.
type ConfigCache interface {
	Get(ctx context.Context, photographerID int64) (pricing.Config, bool, error)
	Set(ctx context.Context, photographerID int64, cfg pricing.Config) error
	Invalidate(ctx context.Context, photographerID int64) error
}
