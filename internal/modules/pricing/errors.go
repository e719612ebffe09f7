package pricing

import "errors"

var (
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidConfig = errors.New("invalid pricing config")
	ErrInvalidInput  = errors.New("invalid input")
)

// ConfigError carries the field-level problems of a rejected price table.
type ConfigError struct {
	Fields map[string]string
}

func (e *ConfigError) Error() string { return ErrInvalidConfig.Error() }

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }
