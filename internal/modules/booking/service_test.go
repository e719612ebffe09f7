package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"photobook/internal/domain"
	"photobook/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByPhotographer(ctx context.Context, photographerID int64, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, photographerID, limit, offset)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id int64, reason string, at time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, id, reason, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockConfigLoader struct {
	mock.Mock
}

func (m *MockConfigLoader) Load(ctx context.Context, photographerID int64) (pricing.Config, error) {
	args := m.Called(ctx, photographerID)
	return args.Get(0).(pricing.Config), args.Error(1)
}

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *MockBookingRepository, *MockUserReader, *MockConfigLoader) {
	repo := new(MockBookingRepository)
	users := new(MockUserReader)
	configs := new(MockConfigLoader)
	svc := NewService(repo, users, configs, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, users, configs
}

func validRequest() CreateBookingRequest {
	return CreateBookingRequest{
		SelectionInput: pricing.SelectionInput{
			ServiceType: "photoshoot",
			PackageType: "bronze",
			PeopleCount: 4,
			Addons:      []string{"drone"},
		},
		EventDate:    fixedNow.Add(14 * 24 * time.Hour),
		ContactName:  "Jane Doe",
		ContactEmail: "jane@example.com",
	}
}

func TestCreateBooking_PricesOnServer(t *testing.T) {
	svc, repo, _, configs := newTestService()
	cfg := pricing.DefaultConfig()
	cfg.Version = 6
	configs.On("Load", mock.Anything, int64(0)).Return(cfg, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.TotalPrice == 485 && b.BasePrice == 150 && b.PricingVersion == 6 &&
			b.Status == domain.BookingPending && b.PaymentStatus == domain.PaymentUnpaid &&
			b.Reference != "" && b.UserID == 42
	})).Return(nil)

	quoted := 485.0
	req := validRequest()
	req.QuotedTotal = &quoted

	res, err := svc.CreateBooking(context.Background(), 42, req)

	require.NoError(t, err)
	assert.Equal(t, int64(999), res.Booking.ID)
	assert.Equal(t, []string{"drone"}, res.Booking.Addons)
	assert.Equal(t, 485.0, res.Breakdown.Total)
	repo.AssertExpectations(t)
}

func TestCreateBooking_StaleQuoteIsRejected(t *testing.T) {
	svc, repo, _, configs := newTestService()
	cfg := pricing.DefaultConfig()
	cfg.Fees.AdditionalPerson = 60
	configs.On("Load", mock.Anything, int64(0)).Return(cfg, nil)

	quoted := 485.0
	req := validRequest()
	req.QuotedTotal = &quoted

	_, err := svc.CreateBooking(context.Background(), 42, req)

	var stale *PriceChangedError
	require.True(t, errors.As(err, &stale))
	assert.ErrorIs(t, err, ErrPriceChanged)
	assert.Equal(t, 515.0, stale.Snapshot.Selection.TotalPrice)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_Validation(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := validRequest()
	req.ServiceType = "portrait"
	req.PackageType = "diamond"
	req.ContactEmail = "not-an-email"
	req.EventDate = fixedNow.Add(-time.Hour)

	_, err := svc.CreateBooking(context.Background(), 42, req)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "oneof", verr.Fields["service_type"])
	assert.Equal(t, "oneof", verr.Fields["package_type"])
	assert.Equal(t, "email", verr.Fields["contact_email"])
	assert.Equal(t, "future", verr.Fields["event_date"])
}

func TestCreateBooking_PhotographerMustExist(t *testing.T) {
	svc, _, users, _ := newTestService()
	users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5, Role: domain.RoleClient}, nil)
	users.On("GetByID", mock.Anything, int64(6)).Return(nil, gorm.ErrRecordNotFound)

	for _, id := range []int64{5, 6} {
		req := validRequest()
		pid := id
		req.PhotographerID = &pid
		_, err := svc.CreateBooking(context.Background(), 42, req)
		assert.ErrorIs(t, err, ErrPhotographerNotFound)
	}
}

func TestCreateBooking_UsesPhotographerPricing(t *testing.T) {
	svc, repo, users, configs := newTestService()
	users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Role: domain.RolePhotographer}, nil)
	cfg := pricing.DefaultConfig()
	cfg.Packages.Photoshoot.Photography[pricing.TierBronze] = pricing.PhotoshootTier{Price: 180}
	configs.On("Load", mock.Anything, int64(7)).Return(cfg, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := validRequest()
	pid := int64(7)
	req.PhotographerID = &pid

	res, err := svc.CreateBooking(context.Background(), 42, req)
	require.NoError(t, err)
	assert.Equal(t, 180.0, res.Booking.BasePrice)
	assert.Equal(t, int64(7), *res.Booking.PhotographerID)
}

func TestUpdateBookingStatus_Transitions(t *testing.T) {
	photographer := int64(7)
	cases := []struct {
		name    string
		role    domain.UserRole
		actor   int64
		from    domain.BookingStatus
		to      domain.BookingStatus
		wantErr error
	}{
		{"confirm", domain.RolePhotographer, 7, domain.BookingPending, domain.BookingConfirmed, nil},
		{"complete", domain.RoleAdmin, 1, domain.BookingConfirmed, domain.BookingCompleted, nil},
		{"skip confirm", domain.RolePhotographer, 7, domain.BookingPending, domain.BookingCompleted, ErrInvalidStatusTransition},
		{"reopen", domain.RoleAdmin, 1, domain.BookingCompleted, domain.BookingPending, ErrInvalidStatusTransition},
		{"other photographer", domain.RolePhotographer, 8, domain.BookingPending, domain.BookingConfirmed, ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _, _ := newTestService()
			repo.On("GetByID", mock.Anything, int64(10)).Return(&domain.Booking{ID: 10, UserID: 42, PhotographerID: &photographer, Status: tc.from}, nil)
			repo.On("UpdateStatus", mock.Anything, int64(10), tc.to).Return(&domain.Booking{ID: 10, Status: tc.to}, nil)

			b, err := svc.UpdateBookingStatus(context.Background(), tc.actor, tc.role, 10, tc.to)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, b.Status)
		})
	}
}

func TestCancelBooking(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.On("GetByID", mock.Anything, int64(10)).Return(&domain.Booking{ID: 10, UserID: 42, Status: domain.BookingConfirmed}, nil)
	repo.On("GetByID", mock.Anything, int64(11)).Return(&domain.Booking{ID: 11, UserID: 42, Status: domain.BookingCompleted}, nil)
	repo.On("GetByID", mock.Anything, int64(12)).Return(nil, gorm.ErrRecordNotFound)
	repo.On("Cancel", mock.Anything, int64(10), "sick", fixedNow).Return(&domain.Booking{ID: 10, Status: domain.BookingCancelled}, nil)
	ctx := context.Background()

	_, err := svc.CancelBooking(ctx, 42, domain.RoleClient, 10, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CancelBooking(ctx, 43, domain.RoleClient, 10, "sick")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CancelBooking(ctx, 42, domain.RoleClient, 11, "sick")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = svc.CancelBooking(ctx, 42, domain.RoleClient, 12, "sick")
	assert.ErrorIs(t, err, ErrNotFound)

	b, err := svc.CancelBooking(ctx, 42, domain.RoleClient, 10, " sick ")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
}

func TestGetMyBookings_NormalizesPaging(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.On("ListByUser", mock.Anything, int64(42), 100, 0).Return([]domain.Booking{}, nil)

	_, err := svc.GetMyBookings(context.Background(), 42, 5000, -3)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
