package payment

import (
	"context"
	"time"

	"photobook/internal/domain"
)

type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error)
	MarkSucceededIdempotent(ctx context.Context, providerRef string, paidAt time.Time) (*domain.Booking, bool, error)
	MarkFailed(ctx context.Context, providerRef string) error
}

// Provider is a payment processor. Amounts cross this boundary in minor
// units.
type Provider interface {
	Name() string
	CreateIntent(ctx context.Context, in IntentParams) (*Intent, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
