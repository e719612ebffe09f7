package domain

import "time"

// PricingConfigRecord is a stored price table. PhotographerID 0 is the
// studio-wide default.
type PricingConfigRecord struct {
	ID             int64     `json:"id"`
	PhotographerID int64     `json:"photographer_id"`
	Version        int       `json:"version"`
	Data           []byte    `json:"-"`
	UpdatedBy      int64     `json:"updated_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
