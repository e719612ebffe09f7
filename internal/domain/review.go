package domain

import "time"

type Review struct {
	ID                   int64      `json:"id"`
	BookingID            int64      `json:"booking_id"`
	UserID               int64      `json:"user_id"`
	PhotographerID       *int64     `json:"photographer_id,omitempty"`
	Rating               int        `json:"rating"`
	Comment              string     `json:"comment,omitempty"`
	PhotographerResponse *string    `json:"photographer_response,omitempty"`
	RespondedAt          *time.Time `json:"responded_at,omitempty"`
	IsHidden             bool       `json:"is_hidden"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
