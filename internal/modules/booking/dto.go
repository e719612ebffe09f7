package booking

import (
	"time"

	"photobook/internal/domain"
	"photobook/internal/pricing"
)

type CreateBookingRequest struct {
	pricing.SelectionInput
	PhotographerID *int64    `json:"photographer_id,omitempty"`
	EventDate      time.Time `json:"event_date" validate:"required"`
	Location       string    `json:"location" validate:"max=500"`
	ContactName    string    `json:"contact_name" validate:"required,max=200"`
	ContactEmail   string    `json:"contact_email" validate:"required,email"`
	ContactPhone   string    `json:"contact_phone" validate:"max=50"`
	Notes          string    `json:"notes" validate:"max=2000"`

	// QuotedTotal is the total the client displayed. When present it must
	// match the server-side price.
	QuotedTotal *float64 `json:"quoted_total,omitempty"`
}

type CreateBookingResponse struct {
	Booking   *domain.Booking   `json:"booking"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}
