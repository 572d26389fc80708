package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/controllers"
)

// RegisterNotificationRoutes sets up notification routes for every signed in user
func RegisterNotificationRoutes(protected *echo.Group, nc *controllers.NotificationController) {
	protected.GET("/notifications", nc.List)
	protected.PUT("/notifications/:id/read", nc.MarkRead)
	protected.GET("/ws", nc.Connect)
}
