package handlers

import (
	"errors"
	"net/http"

	"food-marketplace/internal/middleware"
	"food-marketplace/internal/services"
	"food-marketplace/pkg/logging"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService AuthServiceInterface
}

func NewAuthHandler(authService AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the routes for authentication
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", authMiddleware.AuthRequired(), h.Logout)
	}
}

// @Summary Login user
// @Description Authenticate user and return JWT token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Login request"
// @Success 200 {object} services.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Message: err.Error()})
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.authError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Refresh access token
// @Description Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RefreshRequest true "Refresh request"
// @Success 200 {object} services.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req services.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Message: err.Error()})
		return
	}

	response, err := h.authService.Refresh(c.Request.Context(), &req)
	if err != nil {
		h.authError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Logout user
// @Description Invalidate the stored refresh token
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.CurrentIdentity(c)); err != nil {
		h.authError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) authError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Message: "Invalid email or password"})
	case errors.Is(err, services.ErrInvalidRefresh):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Message: "Invalid refresh token"})
	case errors.Is(err, services.ErrLoginRequired):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Message: msgLoginRequired})
	case errors.Is(err, services.ErrInactiveUser):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden", Message: "Account is not active"})
	default:
		logging.FromContext(c.Request.Context()).Error("auth request failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Authentication failed", Message: msgInternal})
	}
}
