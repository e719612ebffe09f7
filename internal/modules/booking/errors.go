package booking

import (
	"errors"

	"photobook/internal/pricing"
)

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("booking not found")
	ErrForbidden               = errors.New("forbidden")
	ErrPhotographerNotFound    = errors.New("photographer not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrPriceChanged            = errors.New("price changed")
)

// ValidationError lists the rejected request fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return ErrValidation.Error() }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// PriceChangedError carries the fresh server-side quote when the client's
// displayed total is stale.
type PriceChangedError struct {
	Quoted   float64
	Snapshot pricing.Snapshot
}

func (e *PriceChangedError) Error() string { return ErrPriceChanged.Error() }

func (e *PriceChangedError) Unwrap() error { return ErrPriceChanged }
