package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"photobook/internal/config"
	"photobook/internal/database/dbtest"
	"photobook/internal/modules/payment"
	"photobook/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider accepts webhooks signed "ok" whose body is {"type","ref"}.
type fakeProvider struct {
	n int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) CreateIntent(_ context.Context, in payment.IntentParams) (*payment.Intent, error) {
	p.n++
	return &payment.Intent{ID: fmt.Sprintf("pi_%d_%d", p.n, in.AmountMinor), ClientSecret: "cs"}, nil
}

func (p *fakeProvider) ParseWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	if signature != "ok" {
		return nil, payment.ErrInvalidSignature
	}
	var body struct {
		Type string `json:"type"`
		Ref  string `json:"ref"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, err
	}
	return &payment.WebhookEvent{Type: payment.WebhookEventType(body.Type), ProviderRef: body.Ref}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type client struct {
	t      *testing.T
	router *gin.Engine
}

func (c client) do(method, path string, body any, token string, headers ...string) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case []byte:
		buf.Write(b)
	default:
		require.NoError(c.t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type authData struct {
	User struct {
		ID   int64  `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
	Token string `json:"token"`
}

func newTestRouter(t *testing.T) client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AppEnv:             "test",
		JWTSecret:          "router-test-secret",
		JWTTTL:             time.Hour,
		PaymentCurrency:    "usd",
		DepositPercent:     30,
		QuoteRatePerMinute: 1000,
	}
	r := NewRouter(Deps{DB: dbtest.Open(t), Config: cfg, Log: zap.NewNop(), Payments: &fakeProvider{}})
	return client{t: t, router: r}
}

func register(t *testing.T, c client, path, email string) authData {
	t.Helper()
	code, env := c.do(http.MethodPost, path, map[string]string{
		"name": "Test User", "email": email, "password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, code)
	return decode[authData](t, env)
}

func TestRouter_Health(t *testing.T) {
	c := newTestRouter(t)
	code, env := c.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}

func TestRouter_BookingLifecycle(t *testing.T) {
	c := newTestRouter(t)

	photographer := register(t, c, "/api/v1/auth/register/photographer", "ana@studio.com")
	customer := register(t, c, "/api/v1/auth/register", "bo@example.com")
	assert.Equal(t, "photographer", photographer.User.Role)
	assert.Equal(t, "client", customer.User.Role)

	code, _ := c.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name": "Again", "email": "BO@example.com", "password": "password123",
	}, "")
	assert.Equal(t, http.StatusConflict, code)

	code, env := c.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "bo@example.com", "password": "password123"}, "")
	require.Equal(t, http.StatusOK, code)
	customerToken := decode[authData](t, env).Token

	code, _ = c.do(http.MethodGet, "/api/v1/users/me", nil, customerToken)
	assert.Equal(t, http.StatusOK, code)

	// the photographer raises their bronze photoshoot price
	table := pricing.DefaultConfig()
	table.Packages.Photoshoot.Photography[pricing.TierBronze] = pricing.PhotoshootTier{Price: 200, DurationMinutes: 30, ImageCount: 10, LocationCount: 1}
	code, _ = c.do(http.MethodPut, "/api/v1/pricing/config", map[string]any{"config": table}, photographer.Token)
	require.Equal(t, http.StatusOK, code)

	quotePath := "/api/v1/quotes"
	code, env = c.do(http.MethodPost, quotePath, map[string]any{
		"service_type": "photoshoot", "package_type": "bronze", "people_count": 2, "photographer_id": photographer.User.ID,
	}, "")
	require.Equal(t, http.StatusOK, code)
	snap := decode[pricing.Snapshot](t, env)
	assert.Equal(t, 285.0, snap.Selection.TotalPrice)
	assert.Equal(t, 1, snap.ConfigVersion)

	code, env = c.do(http.MethodPost, "/api/v1/bookings", map[string]any{
		"service_type":    "photoshoot",
		"package_type":    "bronze",
		"people_count":    2,
		"photographer_id": photographer.User.ID,
		"event_date":      time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"contact_name":    "Bo",
		"contact_email":   "bo@example.com",
		"quoted_total":    snap.Selection.TotalPrice,
	}, customerToken)
	require.Equal(t, http.StatusCreated, code)
	created := decode[struct {
		Booking struct {
			ID             int64   `json:"id"`
			TotalPrice     float64 `json:"total_price"`
			PricingVersion int     `json:"pricing_version"`
		} `json:"booking"`
	}](t, env)
	bookingID := created.Booking.ID
	assert.Equal(t, 285.0, created.Booking.TotalPrice)
	assert.Equal(t, 1, created.Booking.PricingVersion)

	// deposit: 30% of 285
	code, env = c.do(http.MethodPost, "/api/v1/payments/intent", map[string]any{"booking_id": bookingID, "kind": "deposit"}, customerToken)
	require.Equal(t, http.StatusCreated, code)
	intent := decode[payment.CreateIntentResponse](t, env)
	assert.Equal(t, 85.5, intent.Amount)

	hook := func(body string, sig string) int {
		code, _ := c.do(http.MethodPost, "/api/v1/payments/stripe/webhook", []byte(body), "", "Stripe-Signature", sig)
		return code
	}
	settle := fmt.Sprintf(`{"type":"succeeded","ref":%q}`, intent.ProviderRef)
	assert.Equal(t, http.StatusBadRequest, hook(settle, "forged"))
	assert.Equal(t, http.StatusOK, hook(settle, "ok"))
	assert.Equal(t, http.StatusOK, hook(settle, "ok"))

	bookingPath := fmt.Sprintf("/api/v1/bookings/%d", bookingID)
	code, env = c.do(http.MethodGet, bookingPath, nil, customerToken)
	require.Equal(t, http.StatusOK, code)
	paid := decode[struct {
		PaymentStatus string  `json:"payment_status"`
		AmountPaid    float64 `json:"amount_paid"`
	}](t, env)
	assert.Equal(t, "deposit_paid", paid.PaymentStatus)
	assert.Equal(t, 85.5, paid.AmountPaid, "redelivered webhook must not credit twice")

	code, env = c.do(http.MethodPost, "/api/v1/payments/intent", map[string]any{"booking_id": bookingID, "kind": "full"}, customerToken)
	require.Equal(t, http.StatusCreated, code)
	rest := decode[payment.CreateIntentResponse](t, env)
	assert.Equal(t, 199.5, rest.Amount)

	// reviews require a completed booking
	code, _ = c.do(http.MethodPost, "/api/v1/reviews", map[string]any{"booking_id": bookingID, "rating": 5}, customerToken)
	assert.Equal(t, http.StatusForbidden, code)

	for _, status := range []string{"confirmed", "completed"} {
		code, _ = c.do(http.MethodPatch, bookingPath+"/status", map[string]string{"status": status}, photographer.Token)
		require.Equal(t, http.StatusOK, code, status)
	}

	code, env = c.do(http.MethodPost, "/api/v1/reviews", map[string]any{"booking_id": bookingID, "rating": 5, "comment": "Great light"}, customerToken)
	require.Equal(t, http.StatusCreated, code)
	reviewID := decode[struct {
		ID int64 `json:"id"`
	}](t, env).ID

	code, _ = c.do(http.MethodPost, "/api/v1/reviews", map[string]any{"booking_id": bookingID, "rating": 4}, customerToken)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/api/v1/reviews/%d/response", reviewID), map[string]string{"response": "Thanks!"}, photographer.Token)
	assert.Equal(t, http.StatusOK, code)

	code, env = c.do(http.MethodGet, fmt.Sprintf("/api/v1/photographers/%d/reviews", photographer.User.ID), nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Thanks!")

	code, env = c.do(http.MethodGet, bookingPath+"/payments", nil, photographer.Token)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]json.RawMessage](t, env), 2)
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	c := newTestRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodPost, "/api/v1/bookings"},
		{http.MethodPut, "/api/v1/pricing/config"},
		{http.MethodPost, "/api/v1/payments/intent"},
	} {
		code, env := c.do(route.method, route.path, map[string]any{}, "")
		assert.Equal(t, http.StatusUnauthorized, code, route.path)
		require.NotNil(t, env.Error)
		assert.Equal(t, "AUTH_HEADER_MISSING", env.Error.Code)
	}
}
