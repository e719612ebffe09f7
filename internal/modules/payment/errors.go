package payment

import "errors"

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrForbidden        = errors.New("forbidden")
	ErrNotPayable       = errors.New("booking cannot be paid")
	ErrAlreadyPaid      = errors.New("booking already paid")
	ErrInvalidKind      = errors.New("invalid payment kind")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
