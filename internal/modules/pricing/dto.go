package pricing

import "photobook/internal/pricing"

type QuoteRequest struct {
	pricing.SelectionInput
	PhotographerID int64 `json:"photographer_id"`
}

type SaveConfigRequest struct {
	PhotographerID int64          `json:"photographer_id"`
	Config         pricing.Config `json:"config"`
}
