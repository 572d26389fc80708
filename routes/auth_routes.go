package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/controllers"
	"github.com/HSouheill/dispensary_backend/middleware"
	"github.com/HSouheill/dispensary_backend/models"
)

// RegisterAuthRoutes sets up all authentication routes
func RegisterAuthRoutes(public, protected *echo.Group, auth *controllers.AuthController) {
	public.POST("/auth/login", auth.Login)

	protected.GET("/auth/me", auth.Me)
	protected.POST("/auth/logout", auth.Logout)
	protected.POST("/auth/register", auth.Register, middleware.RequireRole(models.RoleAdmin))
}
