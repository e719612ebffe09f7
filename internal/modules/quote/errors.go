package quote

import "errors"

var (
	ErrUnknownType  = errors.New("unknown message type")
	ErrInvalidValue = errors.New("invalid message value")
)
