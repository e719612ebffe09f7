package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "unpaid"
	PaymentDepositPaid PaymentStatus = "deposit_paid"
	PaymentPaid        PaymentStatus = "paid"
	PaymentRefunded    PaymentStatus = "refunded"
)

// Booking is a submitted selection. Prices are the server-side replay of the
// selection, frozen at PricingVersion.
type Booking struct {
	ID             int64  `json:"id"`
	Reference      string `json:"reference"`
	UserID         int64  `json:"user_id"`
	PhotographerID *int64 `json:"photographer_id,omitempty"`

	ServiceType        string   `json:"service_type"`
	PackageType        string   `json:"package_type"`
	HasPhotoPackage    bool     `json:"has_photo_package"`
	HasVideoPackage    bool     `json:"has_video_package"`
	VideoPackageType   string   `json:"video_package_type,omitempty"`
	BasePrice          float64  `json:"base_price"`
	VideoPrice         float64  `json:"video_price"`
	PeopleCount        int      `json:"people_count"`
	EventHours         int      `json:"event_hours"`
	TransportationZone string   `json:"transportation_zone,omitempty"`
	TransportationFee  float64  `json:"transportation_fee"`
	Addons             []string `json:"addons"`
	TotalPrice         float64  `json:"total_price"`
	PricingVersion     int      `json:"pricing_version"`

	EventDate    time.Time `json:"event_date"`
	Location     string    `json:"location,omitempty"`
	ContactName  string    `json:"contact_name"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	Notes        string    `json:"notes,omitempty"`

	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	AmountPaid    float64       `json:"amount_paid"`

	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsTerminal reports whether no further status change is allowed.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingCancelled || b.Status == BookingCompleted
}

// PaymentStatusFor derives the payment status once amountPaid has been
// collected against the booking.
func (b *Booking) PaymentStatusFor(amountPaid float64) PaymentStatus {
	switch {
	case amountPaid <= 0:
		return PaymentUnpaid
	case amountPaid+0.005 >= b.TotalPrice:
		return PaymentPaid
	default:
		return PaymentDepositPaid
	}
}
