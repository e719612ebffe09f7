package repository

import (
	"context"
	"errors"
	"time"

	"photobook/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type paymentModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	BookingID   int64      `gorm:"column:booking_id"`
	UserID      int64      `gorm:"column:user_id"`
	Kind        string     `gorm:"column:kind"`
	Amount      float64    `gorm:"column:amount"`
	Currency    string     `gorm:"column:currency"`
	Provider    string     `gorm:"column:provider"`
	ProviderRef string     `gorm:"column:provider_ref"`
	State       string     `gorm:"column:state"`
	PaidAt      *time.Time `gorm:"column:paid_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (paymentModel) TableName() string { return "payments" }

func toDomainPayment(m paymentModel) *domain.Payment {
	return &domain.Payment{
		ID:          m.ID,
		BookingID:   m.BookingID,
		UserID:      m.UserID,
		Kind:        domain.PaymentKind(m.Kind),
		Amount:      m.Amount,
		Currency:    m.Currency,
		Provider:    m.Provider,
		ProviderRef: m.ProviderRef,
		State:       domain.PaymentState(m.State),
		PaidAt:      m.PaidAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toPaymentModel(p *domain.Payment) paymentModel {
	return paymentModel{
		ID:          p.ID,
		BookingID:   p.BookingID,
		UserID:      p.UserID,
		Kind:        string(p.Kind),
		Amount:      p.Amount,
		Currency:    p.Currency,
		Provider:    p.Provider,
		ProviderRef: p.ProviderRef,
		State:       string(p.State),
		PaidAt:      p.PaidAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	m := toPaymentModel(p)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*p = *toDomainPayment(m)
	return nil
}

func (r *PaymentRepository) GetByProviderRef(ctx context.Context, ref string) (*domain.Payment, error) {
	var m paymentModel
	if err := r.db.WithContext(ctx).Where("provider_ref = ?", ref).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainPayment(m), nil
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	var ms []paymentModel
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Order("id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainPayment(m))
	}
	return out, nil
}

// MarkSucceededIdempotent settles a payment and credits its booking in one
// transaction. changed is false when the payment was already settled.
func (r *PaymentRepository) MarkSucceededIdempotent(ctx context.Context, providerRef string, paidAt time.Time) (*domain.Booking, bool, error) {
	var (
		changed bool
		booking *domain.Booking
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p paymentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("provider_ref = ?", providerRef).First(&p).Error; err != nil {
			return err
		}
		if p.State == string(domain.PaymentStateSucceeded) {
			return nil
		}

		res := tx.Model(&paymentModel{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"state":      string(domain.PaymentStateSucceeded),
			"paid_at":    paidAt,
			"updated_at": paidAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("payment row not updated")
		}

		var bm bookingModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&bm, p.BookingID).Error; err != nil {
			return err
		}
		b, err := toDomainBooking(bm)
		if err != nil {
			return err
		}
		b.AmountPaid += p.Amount
		b.PaymentStatus = b.PaymentStatusFor(b.AmountPaid)
		b.UpdatedAt = paidAt

		res = tx.Model(&bookingModel{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
			"amount_paid":    b.AmountPaid,
			"payment_status": string(b.PaymentStatus),
			"updated_at":     paidAt,
		})
		if res.Error != nil {
			return res.Error
		}

		booking = b
		changed = true
		return nil
	})
	return booking, changed, err
}

// MarkFailed records a failed attempt. Settled payments are left alone.
func (r *PaymentRepository) MarkFailed(ctx context.Context, providerRef string) error {
	res := r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Where("provider_ref = ? AND state <> ?", providerRef, string(domain.PaymentStateSucceeded)).
		Updates(map[string]interface{}{
			"state":      string(domain.PaymentStateFailed),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	var existing int64
	if err := r.db.WithContext(ctx).Model(&paymentModel{}).Where("provider_ref = ?", providerRef).Count(&existing).Error; err != nil {
		return err
	}
	if existing == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
