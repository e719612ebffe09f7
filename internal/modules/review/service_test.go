package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"photobook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	args := m.Called(ctx, rv)
	rv.ID = 1
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByPhotographer(ctx context.Context, photographerID int64, limit, offset int) ([]domain.Review, error) {
	args := m.Called(ctx, photographerID, limit, offset)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockReviewRepository) SetPhotographerResponse(ctx context.Context, id int64, response string, at time.Time) (*domain.Review, error) {
	args := m.Called(ctx, id, response, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) SetHidden(ctx context.Context, id int64, hidden bool) (*domain.Review, error) {
	args := m.Called(ctx, id, hidden)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

type MockBookingReader struct {
	mock.Mock
}

func (m *MockBookingReader) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

var fixedNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestService() (*Service, *MockReviewRepository, *MockBookingReader) {
	reviews := new(MockReviewRepository)
	bookings := new(MockBookingReader)
	svc := NewService(reviews, bookings, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, reviews, bookings
}

func completedBooking() *domain.Booking {
	photographer := int64(20)
	return &domain.Booking{ID: 3, UserID: 10, PhotographerID: &photographer, Status: domain.BookingCompleted}
}

func TestCreate_CopiesPhotographerFromBooking(t *testing.T) {
	svc, reviews, bookings := newTestService()
	ctx := context.Background()

	bookings.On("GetByID", ctx, int64(3)).Return(completedBooking(), nil).Once()
	reviews.On("Create", ctx, mock.MatchedBy(func(rv *domain.Review) bool {
		return rv.BookingID == 3 && rv.UserID == 10 && rv.PhotographerID != nil && *rv.PhotographerID == 20 && rv.Comment == "Lovely"
	})).Return(nil).Once()

	rv, err := svc.Create(ctx, 10, CreateReviewRequest{BookingID: 3, Rating: 5, Comment: "  Lovely "})

	require.NoError(t, err)
	assert.Equal(t, int64(1), rv.ID)
	reviews.AssertExpectations(t)
}

func TestCreate_Rules(t *testing.T) {
	ctx := context.Background()

	t.Run("rating out of range", func(t *testing.T) {
		svc, _, bookings := newTestService()
		_, err := svc.Create(ctx, 10, CreateReviewRequest{BookingID: 3, Rating: 6})
		assert.ErrorIs(t, err, ErrInvalidRequest)
		bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("booking not completed", func(t *testing.T) {
		svc, reviews, bookings := newTestService()
		b := completedBooking()
		b.Status = domain.BookingConfirmed
		bookings.On("GetByID", ctx, int64(3)).Return(b, nil).Once()

		_, err := svc.Create(ctx, 10, CreateReviewRequest{BookingID: 3, Rating: 4})
		assert.ErrorIs(t, err, ErrReviewNotAllowed)
		reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("someone else's booking", func(t *testing.T) {
		svc, _, bookings := newTestService()
		bookings.On("GetByID", ctx, int64(3)).Return(completedBooking(), nil).Once()

		_, err := svc.Create(ctx, 11, CreateReviewRequest{BookingID: 3, Rating: 4})
		assert.ErrorIs(t, err, ErrReviewNotAllowed)
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc, _, bookings := newTestService()
		bookings.On("GetByID", ctx, int64(3)).Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := svc.Create(ctx, 10, CreateReviewRequest{BookingID: 3, Rating: 4})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("second review", func(t *testing.T) {
		svc, reviews, bookings := newTestService()
		bookings.On("GetByID", ctx, int64(3)).Return(completedBooking(), nil).Once()
		reviews.On("Create", ctx, mock.Anything).Return(gorm.ErrDuplicatedKey).Once()

		_, err := svc.Create(ctx, 10, CreateReviewRequest{BookingID: 3, Rating: 4})
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestGetByPhotographer_ClampsPage(t *testing.T) {
	svc, reviews, _ := newTestService()
	ctx := context.Background()
	reviews.On("ListByPhotographer", ctx, int64(20), 10, 0).Return([]domain.Review{}, nil).Once()
	reviews.On("ListByPhotographer", ctx, int64(20), 50, 0).Return([]domain.Review{}, nil).Once()

	_, err := svc.GetByPhotographer(ctx, 20, 0, -3)
	require.NoError(t, err)
	_, err = svc.GetByPhotographer(ctx, 20, 500, 0)
	require.NoError(t, err)

	_, err = svc.GetByPhotographer(ctx, 0, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	reviews.AssertExpectations(t)
}

func TestAddPhotographerResponse(t *testing.T) {
	ctx := context.Background()
	photographer := int64(20)
	existing := &domain.Review{ID: 1, BookingID: 3, PhotographerID: &photographer}

	t.Run("booked photographer", func(t *testing.T) {
		svc, reviews, _ := newTestService()
		answer := "Thank you!"
		reviews.On("GetByID", ctx, int64(1)).Return(existing, nil).Once()
		reviews.On("SetPhotographerResponse", ctx, int64(1), answer, fixedNow).
			Return(&domain.Review{ID: 1, PhotographerResponse: &answer}, nil).Once()

		rv, err := svc.AddPhotographerResponse(ctx, 1, 20, " Thank you! ")
		require.NoError(t, err)
		assert.Equal(t, answer, *rv.PhotographerResponse)
	})

	t.Run("other photographer", func(t *testing.T) {
		svc, reviews, _ := newTestService()
		reviews.On("GetByID", ctx, int64(1)).Return(existing, nil).Once()

		_, err := svc.AddPhotographerResponse(ctx, 1, 21, "Hi")
		assert.ErrorIs(t, err, ErrForbidden)
		reviews.AssertNotCalled(t, "SetPhotographerResponse", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing review", func(t *testing.T) {
		svc, reviews, _ := newTestService()
		reviews.On("GetByID", ctx, int64(9)).Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := svc.AddPhotographerResponse(ctx, 9, 20, "Hi")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("blank response", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.AddPhotographerResponse(ctx, 1, 20, "   ")
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestSetHidden(t *testing.T) {
	svc, reviews, _ := newTestService()
	ctx := context.Background()
	reviews.On("SetHidden", ctx, int64(1), true).Return(&domain.Review{ID: 1, IsHidden: true}, nil).Once()
	reviews.On("SetHidden", ctx, int64(2), true).Return(nil, gorm.ErrRecordNotFound).Once()

	rv, err := svc.SetHidden(ctx, 1, true)
	require.NoError(t, err)
	assert.True(t, rv.IsHidden)

	_, err = svc.SetHidden(ctx, 2, true)
	assert.True(t, errors.Is(err, ErrNotFound))
}
