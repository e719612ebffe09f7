package review

import (
	"errors"
	"net/http"
	"strconv"

	"photobook/internal/middleware"
	"photobook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/photographers/:id/reviews", h.GetByPhotographer)
	}

	if protected != nil {
		protected.POST("/reviews", h.Create)
		protected.POST("/reviews/:id/response", middleware.RequireRole("photographer"), h.AddPhotographerResponse)
		protected.PATCH("/reviews/:id/visibility", middleware.AdminOnly(), h.SetVisibility)
	}
}

// Create stores a review of a completed booking.
// @Summary		Write a review
// @Description	Only the client of a completed booking may review it, once.
// @Tags		Reviews
// @Security	BearerAuth
// @Param		request	body	CreateReviewRequest	true	"booking_id, rating 1-5, comment"
// @Success		201	{object}	response.Envelope
// @Failure		400	{object}	response.Envelope
// @Failure		403	{object}	response.Envelope	"Booking not completed or not yours"
// @Failure		409	{object}	response.Envelope	"Booking already reviewed"
// @Router		/reviews [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	rv, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rv)
}

// GetByPhotographer lists visible reviews of a photographer.
// @Summary		Photographer reviews
// @Tags		Reviews
// @Param		id		path	int	true	"Photographer ID"
// @Param		limit	query	int	false	"Page size (default 10)"
// @Param		offset	query	int	false	"Offset"
// @Success		200	{object}	response.Envelope
// @Router		/photographers/{id}/reviews [GET]
func (h *Handler) GetByPhotographer(c *gin.Context) {
	photographerID, ok := parseID(c, "Invalid photographer ID")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	items, err := h.svc.GetByPhotographer(c.Request.Context(), photographerID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// AddPhotographerResponse answers a review.
// @Summary		Answer a review
// @Tags		Reviews
// @Security	BearerAuth
// @Param		id		path	int								true	"Review ID"
// @Param		request	body	PhotographerResponseRequest	true	"Response text"
// @Success		200	{object}	response.Envelope
// @Failure		403	{object}	response.Envelope	"Not the reviewed photographer"
// @Failure		404	{object}	response.Envelope
// @Router		/reviews/{id}/response [POST]
func (h *Handler) AddPhotographerResponse(c *gin.Context) {
	reviewID, ok := parseID(c, "Invalid review ID")
	if !ok {
		return
	}

	var req PhotographerResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	rv, err := h.svc.AddPhotographerResponse(c.Request.Context(), reviewID, middleware.UserID(c), req.Response)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rv)
}

func (h *Handler) SetVisibility(c *gin.Context) {
	reviewID, ok := parseID(c, "Invalid review ID")
	if !ok {
		return
	}

	var req HideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	rv, err := h.svc.SetHidden(c.Request.Context(), reviewID, req.Hidden)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rv)
}

func parseID(c *gin.Context, msg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", msg)
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid input")
	case errors.Is(err, ErrReviewNotAllowed):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can review only your own completed booking")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "This review is not about your booking")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "This booking has already been reviewed")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
	}
}
