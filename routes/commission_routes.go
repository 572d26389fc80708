package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/controllers"
	"github.com/HSouheill/dispensary_backend/middleware"
	"github.com/HSouheill/dispensary_backend/models"
)

func RegisterCommissionRoutes(protected *echo.Group, cc *controllers.CommissionController) {
	g := protected.Group("/commissions", middleware.RequireRole(models.RoleAdmin))
	g.GET("", cc.List)
	g.POST("", cc.Create)
	g.PUT("/:id/status", cc.UpdateStatus)
	g.POST("/generate", cc.Generate)
}
