package payment

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"photobook/internal/domain"
	"photobook/internal/middleware"
	"photobook/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBytes = 64 << 10

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/stripe/webhook", h.StripeWebhook)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/intent", h.CreateIntent)
	rg.GET("/bookings/:id/payments", h.ListPayments)
}

// CreateIntent godoc
// @Summary      Start a booking payment
// @Description  Creates a Stripe PaymentIntent for a deposit or the outstanding balance
// @Tags         Payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body CreateIntentRequest true "Booking and payment kind"
// @Success      201 {object} CreateIntentResponse
// @Failure      400 {object} response.Envelope
// @Failure      409 {object} response.Envelope
// @Router       /payments/intent [post]
func (h *Handler) CreateIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "booking_id and kind (deposit|full) are required")
		return
	}

	res, err := h.service.CreateIntent(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// StripeWebhook godoc
// @Summary      Stripe webhook
// @Description  Verifies the Stripe-Signature header and settles payments idempotently
// @Tags         Payments
// @Produce      json
// @Success      200 {object} response.Envelope
// @Failure      400 {object} response.Envelope
// @Router       /payments/stripe/webhook [post]
func (h *Handler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes))
	if err != nil {
		response.Error(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Webhook body too large")
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			h.log.Warn("stripe webhook rejected", zap.Error(err))
			response.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", "Invalid webhook signature")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"received": true})
}

func (h *Handler) ListPayments(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	items, err := h.service.ListPayments(c.Request.Context(), middleware.UserID(c), domain.UserRole(middleware.Role(c)), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrNotPayable):
		response.Error(c, http.StatusConflict, "NOT_PAYABLE", "Cancelled bookings cannot be paid")
	case errors.Is(err, ErrAlreadyPaid):
		response.Error(c, http.StatusConflict, "ALREADY_PAID", "Booking is already paid")
	case errors.Is(err, ErrInvalidKind):
		response.Error(c, http.StatusConflict, "INVALID_PAYMENT_KIND", "Deposit is only available before any payment")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
	}
}
