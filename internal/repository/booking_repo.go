package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"photobook/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	Reference          string     `gorm:"column:reference"`
	UserID             int64      `gorm:"column:user_id"`
	PhotographerID     *int64     `gorm:"column:photographer_id"`
	ServiceType        string     `gorm:"column:service_type"`
	PackageType        string     `gorm:"column:package_type"`
	HasPhotoPackage    bool       `gorm:"column:has_photo_package"`
	HasVideoPackage    bool       `gorm:"column:has_video_package"`
	VideoPackageType   *string    `gorm:"column:video_package_type"`
	BasePrice          float64    `gorm:"column:base_price"`
	VideoPrice         float64    `gorm:"column:video_price"`
	PeopleCount        int        `gorm:"column:people_count"`
	EventHours         int        `gorm:"column:event_hours"`
	TransportationZone *string    `gorm:"column:transportation_zone"`
	TransportationFee  float64    `gorm:"column:transportation_fee"`
	Addons             string     `gorm:"column:addons"`
	TotalPrice         float64    `gorm:"column:total_price"`
	PricingVersion     int        `gorm:"column:pricing_version"`
	EventDate          time.Time  `gorm:"column:event_date"`
	Location           *string    `gorm:"column:location"`
	ContactName        string     `gorm:"column:contact_name"`
	ContactEmail       string     `gorm:"column:contact_email"`
	ContactPhone       *string    `gorm:"column:contact_phone"`
	Notes              *string    `gorm:"column:notes"`
	Status             string     `gorm:"column:status"`
	PaymentStatus      string     `gorm:"column:payment_status"`
	AmountPaid         float64    `gorm:"column:amount_paid"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) (*domain.Booking, error) {
	addons := []string{}
	if m.Addons != "" {
		if err := json.Unmarshal([]byte(m.Addons), &addons); err != nil {
			return nil, fmt.Errorf("decode addons of booking %d: %w", m.ID, err)
		}
	}

	return &domain.Booking{
		ID:                 m.ID,
		Reference:          m.Reference,
		UserID:             m.UserID,
		PhotographerID:     m.PhotographerID,
		ServiceType:        m.ServiceType,
		PackageType:        m.PackageType,
		HasPhotoPackage:    m.HasPhotoPackage,
		HasVideoPackage:    m.HasVideoPackage,
		VideoPackageType:   deref(m.VideoPackageType),
		BasePrice:          m.BasePrice,
		VideoPrice:         m.VideoPrice,
		PeopleCount:        m.PeopleCount,
		EventHours:         m.EventHours,
		TransportationZone: deref(m.TransportationZone),
		TransportationFee:  m.TransportationFee,
		Addons:             addons,
		TotalPrice:         m.TotalPrice,
		PricingVersion:     m.PricingVersion,
		EventDate:          m.EventDate,
		Location:           deref(m.Location),
		ContactName:        m.ContactName,
		ContactEmail:       m.ContactEmail,
		ContactPhone:       deref(m.ContactPhone),
		Notes:              deref(m.Notes),
		Status:             domain.BookingStatus(m.Status),
		PaymentStatus:      domain.PaymentStatus(m.PaymentStatus),
		AmountPaid:         m.AmountPaid,
		CancellationReason: deref(m.CancellationReason),
		CancelledAt:        m.CancelledAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}

func toBookingModel(b *domain.Booking) (bookingModel, error) {
	addons := b.Addons
	if addons == nil {
		addons = []string{}
	}
	raw, err := json.Marshal(addons)
	if err != nil {
		return bookingModel{}, fmt.Errorf("encode addons: %w", err)
	}

	return bookingModel{
		ID:                 b.ID,
		Reference:          b.Reference,
		UserID:             b.UserID,
		PhotographerID:     b.PhotographerID,
		ServiceType:        b.ServiceType,
		PackageType:        b.PackageType,
		HasPhotoPackage:    b.HasPhotoPackage,
		HasVideoPackage:    b.HasVideoPackage,
		VideoPackageType:   ptr(b.VideoPackageType),
		BasePrice:          b.BasePrice,
		VideoPrice:         b.VideoPrice,
		PeopleCount:        b.PeopleCount,
		EventHours:         b.EventHours,
		TransportationZone: ptr(b.TransportationZone),
		TransportationFee:  b.TransportationFee,
		Addons:             string(raw),
		TotalPrice:         b.TotalPrice,
		PricingVersion:     b.PricingVersion,
		EventDate:          b.EventDate,
		Location:           ptr(b.Location),
		ContactName:        b.ContactName,
		ContactEmail:       b.ContactEmail,
		ContactPhone:       ptr(b.ContactPhone),
		Notes:              ptr(b.Notes),
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		AmountPaid:         b.AmountPaid,
		CancellationReason: ptr(b.CancellationReason),
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}, nil
}

func toDomainBookings(ms []bookingModel) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		b, err := toDomainBooking(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m, err := toBookingModel(b)
	if err != nil {
		return err
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	created, err := toDomainBooking(m)
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m)
}

func (r *BookingRepository) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).Where("reference = ?", ref).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m)
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("event_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(ms)
}

func (r *BookingRepository) ListByPhotographer(ctx context.Context, photographerID int64, limit, offset int) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Where("photographer_id = ?", photographerID).
		Order("event_date ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(ms)
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *BookingRepository) Cancel(ctx context.Context, id int64, reason string, at time.Time) (*domain.Booking, error) {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status NOT IN ?", id, []string{string(domain.BookingCancelled), string(domain.BookingCompleted)}).
		Updates(map[string]interface{}{
			"status":              string(domain.BookingCancelled),
			"cancellation_reason": reason,
			"cancelled_at":        at,
			"updated_at":          at,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
