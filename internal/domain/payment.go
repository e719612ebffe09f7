package domain

import "time"

type PaymentKind string

const (
	PaymentKindDeposit PaymentKind = "deposit"
	PaymentKindFull    PaymentKind = "full"
)

type PaymentState string

const (
	PaymentStatePending   PaymentState = "pending"
	PaymentStateSucceeded PaymentState = "succeeded"
	PaymentStateFailed    PaymentState = "failed"
)

// Payment is one provider payment attempt against a booking.
type Payment struct {
	ID          int64        `json:"id"`
	BookingID   int64        `json:"booking_id"`
	UserID      int64        `json:"user_id"`
	Kind        PaymentKind  `json:"kind"`
	Amount      float64      `json:"amount"`
	Currency    string       `json:"currency"`
	Provider    string       `json:"provider"`
	ProviderRef string       `json:"provider_ref"`
	State       PaymentState `json:"state"`
	PaidAt      *time.Time   `json:"paid_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
