package booking

import (
	"context"
	"time"

	"photobook/internal/domain"
	"photobook/internal/pricing"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	ListByPhotographer(ctx context.Context, photographerID int64, limit, offset int) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string, at time.Time) (*domain.Booking, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type ConfigLoader interface {
	Load(ctx context.Context, photographerID int64) (pricing.Config, error)
}
