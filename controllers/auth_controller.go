package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/logger"
	"github.com/HSouheill/dispensary_backend/middleware"
	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/services"
)

// AuthController contains authentication logic
type AuthController struct {
	auth *services.AuthService
}

// NewAuthController creates a new auth controller
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Login handles POST /api/auth/login. Its errors use the bare {error} body
// the dashboard login form expects rather than the usual envelope.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorBody{Error: "Email and password are required"})
	}

	resp, err := ac.auth.Login(ctx, req.Email, req.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, resp)
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, models.ErrorBody{Error: "Invalid credentials"})
	case errors.Is(err, services.ErrAccountDisabled):
		return c.JSON(http.StatusForbidden, models.ErrorBody{Error: "Account is disabled"})
	case errors.Is(err, services.ErrTooManyAttempts):
		return c.JSON(http.StatusTooManyRequests, models.ErrorBody{Error: "Too many failed login attempts. Please try again later."})
	}

	logger.WithError(err).Error("login failed")
	return c.JSON(http.StatusInternalServerError, models.ErrorBody{Error: "Internal server error"})
}

// Me returns the profile of the authenticated user
func (ac *AuthController) Me(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	userID, err := middleware.UserID(c)
	if err != nil {
		return respond(c, http.StatusUnauthorized, "Invalid token", nil)
	}
	user, err := ac.auth.Me(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "User retrieved successfully", user)
}

// Logout invalidates the token used for this request
func (ac *AuthController) Logout(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := ac.auth.Logout(ctx, middleware.RawToken(c)); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return respond(c, http.StatusUnauthorized, "Invalid token", nil)
		}
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Logged out successfully", nil)
}

// Register creates a user account (Admin only)
func (ac *AuthController) Register(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req models.RegisterRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := ac.auth.Register(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "User registered successfully", user)
}
