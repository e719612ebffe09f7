package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"photobook/internal/domain"
	"photobook/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultLimit      = 10
	maxLimit          = 50
	maxCommentLength  = 2000
	maxResponseLength = 2000
)

type Service struct {
	reviews  ReviewRepository
	bookings BookingReader
	log      *zap.Logger
	now      func() time.Time
}

func NewService(reviews ReviewRepository, bookings BookingReader, log *zap.Logger) *Service {
	return &Service{reviews: reviews, bookings: bookings, log: log, now: time.Now}
}

// Create stores a client's review of one of their completed bookings. The
// reviewed photographer is taken from the booking, never from the request.
func (s *Service) Create(ctx context.Context, userID int64, req CreateReviewRequest) (*domain.Review, error) {
	comment := strings.TrimSpace(req.Comment)
	if userID <= 0 || req.BookingID <= 0 || req.Rating < 1 || req.Rating > 5 || len(comment) > maxCommentLength {
		return nil, ErrInvalidRequest
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.UserID != userID || b.Status != domain.BookingCompleted {
		return nil, ErrReviewNotAllowed
	}

	rv := &domain.Review{
		BookingID:      b.ID,
		UserID:         userID,
		PhotographerID: b.PhotographerID,
		Rating:         req.Rating,
		Comment:        comment,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.log.Info("review created", zap.Int64("review_id", rv.ID), zap.Int64("booking_id", b.ID), zap.Int("rating", rv.Rating))
	return rv, nil
}

func (s *Service) GetByPhotographer(ctx context.Context, photographerID int64, limit, offset int) ([]domain.Review, error) {
	if photographerID <= 0 {
		return nil, ErrInvalidRequest
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.reviews.ListByPhotographer(ctx, photographerID, limit, offset)
}

// AddPhotographerResponse lets the photographer of the reviewed booking
// answer publicly. A later answer replaces the earlier one.
func (s *Service) AddPhotographerResponse(ctx context.Context, reviewID, userID int64, response string) (*domain.Review, error) {
	response = strings.TrimSpace(response)
	if reviewID <= 0 || userID <= 0 || response == "" || len(response) > maxResponseLength {
		return nil, ErrInvalidRequest
	}

	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if rv.PhotographerID == nil || *rv.PhotographerID != userID {
		return nil, ErrForbidden
	}

	updated, err := s.reviews.SetPhotographerResponse(ctx, reviewID, response, s.now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SetHidden is admin moderation. Hidden reviews drop out of public listings.
func (s *Service) SetHidden(ctx context.Context, reviewID int64, hidden bool) (*domain.Review, error) {
	if reviewID <= 0 {
		return nil, ErrInvalidRequest
	}
	rv, err := s.reviews.SetHidden(ctx, reviewID, hidden)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.log.Info("review visibility changed", zap.Int64("review_id", reviewID), zap.Bool("hidden", hidden))
	return rv, nil
}
