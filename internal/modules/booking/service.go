package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"photobook/internal/domain"
	"photobook/internal/pkg/validator"
	"photobook/internal/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultLimit = 20
	maxLimit     = 100

	// priceTolerance absorbs float formatting on the client side.
	priceTolerance = 0.005
)

type Service struct {
	bookings BookingRepository
	users    UserReader
	configs  ConfigLoader
	log      *zap.Logger
	now      func() time.Time
}

func NewService(bookings BookingRepository, users UserReader, configs ConfigLoader, log *zap.Logger) *Service {
	return &Service{
		bookings: bookings,
		users:    users,
		configs:  configs,
		log:      log,
		now:      time.Now,
	}
}

// CreateBooking re-prices the submitted selection from scratch and stores it.
// Client-side prices are never trusted.
func (s *Service) CreateBooking(ctx context.Context, userID int64, req CreateBookingRequest) (*CreateBookingResponse, error) {
	if fields := s.validate(req); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var photographerID int64
	if req.PhotographerID != nil {
		photographerID = *req.PhotographerID
		u, err := s.users.GetByID(ctx, photographerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotographerNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load photographer: %w", err)
		}
		if u.Role != domain.RolePhotographer {
			return nil, ErrPhotographerNotFound
		}
	}

	cfg, err := s.configs.Load(ctx, photographerID)
	if err != nil {
		return nil, fmt.Errorf("load pricing: %w", err)
	}

	snap := pricing.Replay(cfg, req.SelectionInput).Snapshot()
	sel := snap.Selection

	if req.QuotedTotal != nil && math.Abs(*req.QuotedTotal-sel.TotalPrice) > priceTolerance {
		s.log.Info("booking rejected, quoted total is stale",
			zap.Int64("user_id", userID),
			zap.Float64("quoted", *req.QuotedTotal),
			zap.Float64("actual", sel.TotalPrice),
			zap.Int("pricing_version", cfg.Version),
		)
		return nil, &PriceChangedError{Quoted: *req.QuotedTotal, Snapshot: snap}
	}

	b := &domain.Booking{
		Reference:          uuid.NewString(),
		UserID:             userID,
		PhotographerID:     req.PhotographerID,
		ServiceType:        string(sel.ServiceType),
		PackageType:        string(sel.PackageType),
		HasPhotoPackage:    sel.HasPhotoPackage,
		HasVideoPackage:    sel.HasVideoPackage,
		VideoPackageType:   string(sel.VideoPackageType),
		BasePrice:          sel.BasePrice,
		VideoPrice:         sel.VideoPrice,
		PeopleCount:        sel.PeopleCount,
		EventHours:         sel.EventHours,
		TransportationZone: sel.TransportationZone,
		TransportationFee:  sel.TransportationFee,
		Addons:             sel.Addons,
		TotalPrice:         sel.TotalPrice,
		PricingVersion:     cfg.Version,
		EventDate:          req.EventDate.UTC(),
		Location:           strings.TrimSpace(req.Location),
		ContactName:        strings.TrimSpace(req.ContactName),
		ContactEmail:       strings.TrimSpace(req.ContactEmail),
		ContactPhone:       strings.TrimSpace(req.ContactPhone),
		Notes:              strings.TrimSpace(req.Notes),
		Status:             domain.BookingPending,
		PaymentStatus:      domain.PaymentUnpaid,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.String("reference", b.Reference),
		zap.Int64("user_id", userID),
		zap.Float64("total", b.TotalPrice),
	)
	return &CreateBookingResponse{Booking: b, Breakdown: snap.Breakdown}, nil
}

func (s *Service) validate(req CreateBookingRequest) map[string]string {
	fields := validator.Validate(req)
	if fields == nil {
		fields = map[string]string{}
	}

	if _, ok := pricing.ParseServiceType(req.ServiceType); !ok {
		fields["service_type"] = "oneof"
	}
	if req.PackageType != "" && !slices.Contains(pricing.Tiers, pricing.Tier(req.PackageType)) {
		fields["package_type"] = "oneof"
	}
	if req.VideoPackageType != "" && !slices.Contains(pricing.Tiers, pricing.Tier(req.VideoPackageType)) {
		fields["video_package_type"] = "oneof"
	}
	if req.TransportationFee != nil && *req.TransportationFee < 0 {
		fields["transportation_fee"] = "gte"
	}
	if !req.EventDate.IsZero() && !req.EventDate.After(s.now()) {
		fields["event_date"] = "future"
	}
	if req.PhotographerID != nil && *req.PhotographerID <= 0 {
		fields["photographer_id"] = "gt"
	}
	return fields
}

func (s *Service) GetByID(ctx context.Context, actorID int64, actorRole domain.UserRole, id int64) (*domain.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(b, actorID, actorRole) {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) GetMyBookings(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	limit, offset = normalizePage(limit, offset)
	return s.bookings.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) GetPhotographerBookings(ctx context.Context, photographerID int64, limit, offset int) ([]domain.Booking, error) {
	limit, offset = normalizePage(limit, offset)
	return s.bookings.ListByPhotographer(ctx, photographerID, limit, offset)
}

// UpdateBookingStatus moves a booking forward: pending to confirmed, then
// confirmed to completed. Only the booked photographer or an admin may.
func (s *Service) UpdateBookingStatus(ctx context.Context, actorID int64, actorRole domain.UserRole, id int64, newStatus domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff(b, actorID, actorRole) {
		return nil, ErrForbidden
	}

	switch {
	case b.Status == domain.BookingPending && newStatus == domain.BookingConfirmed:
	case b.Status == domain.BookingConfirmed && newStatus == domain.BookingCompleted:
	default:
		return nil, ErrInvalidStatusTransition
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, newStatus)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	s.log.Info("booking status changed",
		zap.Int64("booking_id", id),
		zap.String("from", string(b.Status)),
		zap.String("to", string(newStatus)),
		zap.Int64("actor_id", actorID),
	)
	return updated, nil
}

// CancelBooking cancels with a mandatory reason. The client, the booked
// photographer and admins may cancel.
func (s *Service) CancelBooking(ctx context.Context, actorID int64, actorRole domain.UserRole, id int64, reason string) (*domain.Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &ValidationError{Fields: map[string]string{"reason": "required"}}
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(b, actorID, actorRole) {
		return nil, ErrForbidden
	}
	if b.IsTerminal() {
		return nil, ErrInvalidStatusTransition
	}

	cancelled, err := s.bookings.Cancel(ctx, id, reason, s.now())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// lost a race with another status change
		return nil, ErrInvalidStatusTransition
	}
	if err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	return cancelled, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	return b, nil
}

func isStaff(b *domain.Booking, actorID int64, role domain.UserRole) bool {
	if role == domain.RoleAdmin {
		return true
	}
	return role == domain.RolePhotographer && b.PhotographerID != nil && *b.PhotographerID == actorID
}

func canView(b *domain.Booking, actorID int64, role domain.UserRole) bool {
	return b.UserID == actorID || isStaff(b, actorID, role)
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
