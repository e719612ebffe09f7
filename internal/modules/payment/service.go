package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"photobook/internal/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	payments       PaymentRepository
	bookings       BookingReader
	provider       Provider
	currency       string
	depositPercent float64
	log            *zap.Logger
	now            func() time.Time
}

func NewService(payments PaymentRepository, bookings BookingReader, provider Provider, currency string, depositPercent float64, log *zap.Logger) *Service {
	return &Service{
		payments:       payments,
		bookings:       bookings,
		provider:       provider,
		currency:       currency,
		depositPercent: depositPercent,
		log:            log,
		now:            time.Now,
	}
}

// CreateIntent opens a provider payment for a booking owned by userID. A
// deposit is a fixed share of the total and is only offered while nothing has
// been paid; a full payment covers whatever is still outstanding.
func (s *Service) CreateIntent(ctx context.Context, userID int64, req CreateIntentRequest) (*CreateIntentResponse, error) {
	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if b.Status == domain.BookingCancelled {
		return nil, ErrNotPayable
	}
	if b.PaymentStatus == domain.PaymentPaid || b.PaymentStatus == domain.PaymentRefunded {
		return nil, ErrAlreadyPaid
	}

	kind := domain.PaymentKind(req.Kind)
	amount, err := s.amountFor(b, kind)
	if err != nil {
		return nil, err
	}

	intent, err := s.provider.CreateIntent(ctx, IntentParams{
		AmountMinor: toMinor(amount),
		Currency:    s.currency,
		Description: fmt.Sprintf("Booking %s (%s)", b.Reference, kind),
		Metadata: map[string]string{
			"booking_id": strconv.FormatInt(b.ID, 10),
			"reference":  b.Reference,
			"kind":       string(kind),
		},
	})
	if err != nil {
		return nil, err
	}

	p := &domain.Payment{
		BookingID:   b.ID,
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Currency:    s.currency,
		Provider:    s.provider.Name(),
		ProviderRef: intent.ID,
		State:       domain.PaymentStatePending,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}

	s.log.Info("payment intent created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("payment_id", p.ID),
		zap.String("kind", string(kind)),
		zap.Float64("amount", amount),
		zap.String("provider_ref", intent.ID),
	)
	return &CreateIntentResponse{
		PaymentID:    p.ID,
		Kind:         string(kind),
		Amount:       amount,
		Currency:     s.currency,
		ProviderRef:  intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (s *Service) amountFor(b *domain.Booking, kind domain.PaymentKind) (float64, error) {
	switch kind {
	case domain.PaymentKindDeposit:
		if b.AmountPaid > 0 {
			return 0, ErrInvalidKind
		}
		return roundCents(b.TotalPrice * s.depositPercent / 100), nil
	case domain.PaymentKindFull:
		rest := roundCents(b.TotalPrice - b.AmountPaid)
		if rest <= 0 {
			return 0, ErrAlreadyPaid
		}
		return rest, nil
	default:
		return 0, ErrInvalidKind
	}
}

// HandleWebhook applies a verified provider event. Redelivered and unknown
// events are acknowledged without effect.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}

	switch ev.Type {
	case WebhookSucceeded:
		b, changed, err := s.payments.MarkSucceededIdempotent(ctx, ev.ProviderRef, s.now().UTC())
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("webhook for unknown payment", zap.String("event_id", ev.ID), zap.String("provider_ref", ev.ProviderRef))
			return nil
		}
		if err != nil {
			return fmt.Errorf("settle payment: %w", err)
		}
		if !changed {
			s.log.Info("payment already settled", zap.String("provider_ref", ev.ProviderRef))
			return nil
		}
		s.log.Info("payment settled",
			zap.String("provider_ref", ev.ProviderRef),
			zap.Int64("booking_id", b.ID),
			zap.String("payment_status", string(b.PaymentStatus)),
			zap.Float64("amount_paid", b.AmountPaid),
		)
	case WebhookFailed:
		err := s.payments.MarkFailed(ctx, ev.ProviderRef)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("webhook for unknown payment", zap.String("event_id", ev.ID), zap.String("provider_ref", ev.ProviderRef))
			return nil
		}
		if err != nil {
			return fmt.Errorf("mark payment failed: %w", err)
		}
		s.log.Info("payment failed", zap.String("provider_ref", ev.ProviderRef))
	default:
		s.log.Debug("webhook ignored", zap.String("event_id", ev.ID))
	}
	return nil
}

// ListPayments returns the payment attempts of a booking to its client, the
// booked photographer or an admin.
func (s *Service) ListPayments(ctx context.Context, actorID int64, role domain.UserRole, bookingID int64) ([]domain.Payment, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	allowed := role == domain.RoleAdmin ||
		b.UserID == actorID ||
		(b.PhotographerID != nil && *b.PhotographerID == actorID)
	if !allowed {
		return nil, ErrForbidden
	}
	return s.payments.ListByBooking(ctx, bookingID)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func toMinor(v float64) int64 {
	return int64(math.Round(v * 100))
}
