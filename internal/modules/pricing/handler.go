package pricing

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
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the read and quote endpoints on public and the
// table editor on protected. limit guards the quote endpoint.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup, limit gin.HandlerFunc) {
	if public != nil {
		public.GET("/pricing/config", h.GetConfig)
		public.POST("/quotes", limit, h.Quote)
	}

	if protected != nil {
		protected.PUT("/pricing/config",
			middleware.RequireRole(string(domain.RolePhotographer), string(domain.RoleAdmin)),
			h.SaveConfig,
		)
	}
}

// GetConfig returns the price table a booking form should use.
// @Summary	Current price table
// @Tags		Pricing
// @Param		photographer_id	query	int	false	"Photographer whose table to resolve; empty means studio default"
// @Router		/pricing/config [GET]
func (h *Handler) GetConfig(c *gin.Context) {
	photographerID, ok := optionalID(c, "photographer_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid photographer ID")
		return
	}

	cfg, err := h.svc.Load(c.Request.Context(), photographerID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to load pricing")
		return
	}

	response.Success(c, http.StatusOK, cfg)
}

func (h *Handler) SaveConfig(c *gin.Context) {
	var req SaveConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	cfg, err := h.svc.Save(c.Request.Context(), middleware.UserID(c), domain.UserRole(middleware.Role(c)), req)
	if err != nil {
		var cfgErr *ConfigError
		switch {
		case errors.As(err, &cfgErr):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid pricing config", cfgErr.Fields)
		case errors.Is(err, ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid input")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only edit your own pricing")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to save pricing")
		}
		return
	}

	response.Success(c, http.StatusOK, cfg)
}

// Quote prices a selection without booking it.
func (h *Handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	snap, err := h.svc.Quote(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid input")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to price selection")
		return
	}

	response.Success(c, http.StatusOK, snap)
}

func optionalID(c *gin.Context, key string) (int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return GlobalConfigID, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
