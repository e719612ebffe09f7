package repository

import (
	"context"
	"errors"
	"time"

	"photobook/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PricingConfigRepository struct {
	db *gorm.DB
}

func NewPricingConfigRepository(db *gorm.DB) *PricingConfigRepository {
	return &PricingConfigRepository{db: db}
}

type pricingConfigModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	PhotographerID int64     `gorm:"column:photographer_id"`
	Version        int       `gorm:"column:version"`
	Data           string    `gorm:"column:data"`
	UpdatedBy      int64     `gorm:"column:updated_by"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (pricingConfigModel) TableName() string { return "pricing_configs" }

func toDomainPricingConfig(m pricingConfigModel) *domain.PricingConfigRecord {
	return &domain.PricingConfigRecord{
		ID:             m.ID,
		PhotographerID: m.PhotographerID,
		Version:        m.Version,
		Data:           []byte(m.Data),
		UpdatedBy:      m.UpdatedBy,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// GetByPhotographer returns the stored table of a photographer, or the
// studio default for photographerID 0.
func (r *PricingConfigRepository) GetByPhotographer(ctx context.Context, photographerID int64) (*domain.PricingConfigRecord, error) {
	var m pricingConfigModel
	tx := r.db.WithContext(ctx).Where("photographer_id = ?", photographerID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainPricingConfig(m), nil
}

// Save inserts or replaces the table of rec.PhotographerID and bumps its
// version. rec is updated with the stored row.
func (r *PricingConfigRepository) Save(ctx context.Context, rec *domain.PricingConfigRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		var existing pricingConfigModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("photographer_id = ?", rec.PhotographerID).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			m := pricingConfigModel{
				PhotographerID: rec.PhotographerID,
				Version:        1,
				Data:           string(rec.Data),
				UpdatedBy:      rec.UpdatedBy,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			*rec = *toDomainPricingConfig(m)
			return nil
		case err != nil:
			return err
		}

		existing.Version++
		existing.Data = string(rec.Data)
		existing.UpdatedBy = rec.UpdatedBy
		existing.UpdatedAt = now
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*rec = *toDomainPricingConfig(existing)
		return nil
	})
}
