package review

import (
	"context"
	"time"

	"photobook/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ListByPhotographer(ctx context.Context, photographerID int64, limit, offset int) ([]domain.Review, error)
	SetPhotographerResponse(ctx context.Context, id int64, response string, at time.Time) (*domain.Review, error)
	SetHidden(ctx context.Context, id int64, hidden bool) (*domain.Review, error)
}

type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}
