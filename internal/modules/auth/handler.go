package auth

import (
	"errors"
	"net/http"
	"time"

	"photobook/internal/domain"
	"photobook/internal/middleware"
	"photobook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service  *Service
	tokenTTL time.Duration
}

func NewHandler(service *Service, tokenTTL time.Duration) *Handler {
	return &Handler{service: service, tokenTTL: tokenTTL}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.RegisterClient)
		authGroup.POST("/register/photographer", h.RegisterPhotographer)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	userGroup := protected.Group("/users")
	{
		userGroup.GET("/me", h.GetMe)
		userGroup.PUT("/me", h.UpdateProfile)
	}
}

// RegisterClient creates a client account and signs it in.
// @Summary		Register a client
// @Tags		Auth
// @Param		request	body	RegisterRequest	true	"name, email, password, phone"
// @Success		201	{object}	AuthResponse
// @Failure		400	{object}	response.Envelope
// @Failure		409	{object}	response.Envelope	"Email already registered"
// @Router		/auth/register [POST]
func (h *Handler) RegisterClient(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.RegisterClient(c.Request.Context(), req)
	h.writeAuth(c, http.StatusCreated, res, err)
}

// RegisterPhotographer creates a photographer account and signs it in.
// @Summary		Register a photographer
// @Tags		Auth
// @Param		request	body	RegisterRequest	true	"name, email, password, phone"
// @Success		201	{object}	AuthResponse
// @Failure		409	{object}	response.Envelope	"Email already registered"
// @Router		/auth/register/photographer [POST]
func (h *Handler) RegisterPhotographer(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.RegisterPhotographer(c.Request.Context(), req)
	h.writeAuth(c, http.StatusCreated, res, err)
}

// Login exchanges credentials for an access token.
// @Summary		Log in
// @Tags		Auth
// @Param		request	body	LoginRequest	true	"email, password"
// @Success		200	{object}	AuthResponse
// @Failure		401	{object}	response.Envelope
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	h.writeAuth(c, http.StatusOK, res, err)
}

func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.GetCurrentUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPublic(user))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPublic(user))
}

func (h *Handler) writeAuth(c *gin.Context, status int, res *LoginResult, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, status, AuthResponse{
		User:      toPublic(res.User),
		Token:     res.AccessToken,
		ExpiresIn: int64(h.tokenTTL.Seconds()),
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmailAlreadyExists):
		response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
	}
}

func toPublic(u *domain.User) UserPublic {
	return UserPublic{ID: u.ID, Role: string(u.Role), Name: u.Name, Email: u.Email, Phone: u.Phone}
}
