package booking

import (
	"errors"
	"net/http"
	"strconv"

	"photobook/internal/domain"
	"photobook/internal/middleware"
	"photobook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts booking routes on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/my", h.GetMyBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)

	staff := middleware.RequireRole(string(domain.RolePhotographer), string(domain.RoleAdmin))
	rg.PATCH("/bookings/:id/status", staff, h.UpdateBookingStatus)
	rg.GET("/photographer/bookings", middleware.RequireRole(string(domain.RolePhotographer)), h.GetPhotographerBookings)
}

// CreateBooking submits a booking form.
// @Summary	Create booking
// @Tags		Bookings
// @Security	BearerAuth
// @Param		request	body	CreateBookingRequest	true	"Selection, event date and contact"
// @Success	201	{object}	CreateBookingResponse
// @Failure	409	{object}	response.Envelope	"PRICE_CHANGED with the fresh quote in details"
// @Router		/bookings [POST]
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.CreateBooking(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, res)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), middleware.UserID(c), domain.UserRole(middleware.Role(c)), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, b)
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	limit, offset := page(c)
	items, err := h.service.GetMyBookings(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	response.List(c, http.StatusOK, items, limit, offset)
}

func (h *Handler) GetPhotographerBookings(c *gin.Context) {
	limit, offset := page(c)
	items, err := h.service.GetPhotographerBookings(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	response.List(c, http.StatusOK, items, limit, offset)
}

func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.UpdateBookingStatus(c.Request.Context(), middleware.UserID(c), domain.UserRole(middleware.Role(c)), id, domain.BookingStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, b)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cancellation reason is required", map[string]string{"reason": "required"})
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), middleware.UserID(c), domain.UserRole(middleware.Role(c)), id, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, b)
}

func writeError(c *gin.Context, err error) {
	var (
		verr  *ValidationError
		stale *PriceChangedError
	)
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking", verr.Fields)
	case errors.As(err, &stale):
		response.ErrorWithDetails(c, http.StatusConflict, "PRICE_CHANGED", "Prices have changed, please review the new total", stale.Snapshot)
	case errors.Is(err, ErrPhotographerNotFound):
		response.Error(c, http.StatusBadRequest, "PHOTOGRAPHER_NOT_FOUND", "Photographer not found")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", "Booking cannot move to that status")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return 0, false
	}
	return id, true
}

func page(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return normalizePage(limit, offset)
}
