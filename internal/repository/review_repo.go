package repository

import (
	"context"
	"time"

	"photobook/internal/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID                   int64      `gorm:"column:id;primaryKey"`
	BookingID            int64      `gorm:"column:booking_id"`
	UserID               int64      `gorm:"column:user_id"`
	PhotographerID       *int64     `gorm:"column:photographer_id"`
	Rating               int        `gorm:"column:rating"`
	Comment              *string    `gorm:"column:comment"`
	PhotographerResponse *string    `gorm:"column:photographer_response"`
	RespondedAt          *time.Time `gorm:"column:responded_at"`
	IsHidden             bool       `gorm:"column:is_hidden"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	return &domain.Review{
		ID:                   m.ID,
		BookingID:            m.BookingID,
		UserID:               m.UserID,
		PhotographerID:       m.PhotographerID,
		Rating:               m.Rating,
		Comment:              deref(m.Comment),
		PhotographerResponse: m.PhotographerResponse,
		RespondedAt:          m.RespondedAt,
		IsHidden:             m.IsHidden,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := reviewModel{
		BookingID:      rv.BookingID,
		UserID:         rv.UserID,
		PhotographerID: rv.PhotographerID,
		Rating:         rv.Rating,
		Comment:        ptr(rv.Comment),
		IsHidden:       rv.IsHidden,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*rv = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var m reviewModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainReview(m), nil
}

func (r *ReviewRepository) ListByPhotographer(ctx context.Context, photographerID int64, limit, offset int) ([]domain.Review, error) {
	var ms []reviewModel
	err := r.db.WithContext(ctx).
		Where("photographer_id = ? AND is_hidden = ?", photographerID, false).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainReview(m))
	}
	return out, nil
}

func (r *ReviewRepository) SetPhotographerResponse(ctx context.Context, id int64, response string, at time.Time) (*domain.Review, error) {
	res := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"photographer_response": response,
			"responded_at":          at,
			"updated_at":            at,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ReviewRepository) SetHidden(ctx context.Context, id int64, hidden bool) (*domain.Review, error) {
	res := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_hidden":  hidden,
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
