package payment

type CreateIntentRequest struct {
	BookingID int64  `json:"booking_id" binding:"required" example:"123"`
	Kind      string `json:"kind" binding:"required,oneof=deposit full" example:"deposit"`
}

type CreateIntentResponse struct {
	PaymentID    int64   `json:"payment_id" example:"7"`
	Kind         string  `json:"kind" example:"deposit"`
	Amount       float64 `json:"amount" example:"235.5"`
	Currency     string  `json:"currency" example:"usd"`
	ProviderRef  string  `json:"provider_ref" example:"pi_3Nx..."`
	ClientSecret string  `json:"client_secret"`
}

type IntentParams struct {
	AmountMinor int64
	Currency    string
	Description string
	Metadata    map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
}

type WebhookEventType string

const (
	WebhookSucceeded WebhookEventType = "succeeded"
	WebhookFailed    WebhookEventType = "failed"
	WebhookIgnored   WebhookEventType = "ignored"
)

type WebhookEvent struct {
	ID          string
	Type        WebhookEventType
	ProviderRef string
}
