package quote

import (
	"context"

	"photobook/internal/pricing"
)

// ConfigLoader resolves the price table a session should switch to once it
// is available.
type ConfigLoader interface {
	Load(ctx context.Context, photographerID int64) (pricing.Config, error)
}
