package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/controllers"
	"github.com/HSouheill/dispensary_backend/middleware"
	"github.com/HSouheill/dispensary_backend/models"
)

// RegisterResellerRoutes sets up partner and consultant administration and
// their self-service portals
func RegisterResellerRoutes(protected *echo.Group, c Controllers) {
	admin := middleware.RequireRole(models.RoleAdmin)

	registerResellerAdmin(protected.Group("/partners", admin), c.Partners)
	registerResellerAdmin(protected.Group("/consultants", admin), c.Consultants)

	partner := protected.Group("/partner", middleware.RequireRole(models.RolePartner), middleware.RequireReseller())
	partner.GET("/dashboard", c.PartnerPortal.Dashboard)
	partner.GET("/clients", c.PartnerPortal.ListClients)
	partner.GET("/referrals", c.PartnerPortal.ListReferrals)
	partner.POST("/referrals", c.PartnerPortal.CreateReferral)
	partner.PUT("/referrals/:id", c.PartnerPortal.UpdateReferral)
	partner.GET("/commissions", c.PartnerPortal.Commissions)
	partner.GET("/white-label", c.PartnerPortal.GetWhiteLabel)
	partner.PUT("/white-label", c.PartnerPortal.UpdateWhiteLabel)
	partner.GET("/referral-qr", c.PartnerPortal.ReferralQR)

	consultant := protected.Group("/consultant", middleware.RequireRole(models.RoleConsultant), middleware.RequireReseller())
	consultant.GET("/dashboard", c.ConsultPortal.Dashboard)
	consultant.GET("/clients", c.ConsultPortal.ListClients)
	consultant.POST("/clients", c.ConsultPortal.CreateClient)
	consultant.PUT("/clients/:id", c.ConsultPortal.UpdateClient)
	consultant.DELETE("/clients/:id", c.ConsultPortal.DeleteClient)
	consultant.GET("/onboarding", c.ConsultPortal.ListOnboarding)
	consultant.POST("/onboarding", c.ConsultPortal.StartOnboarding)
	consultant.PUT("/onboarding/:id/steps/:key", c.ConsultPortal.CompleteStep)
	consultant.GET("/commissions", c.ConsultPortal.Commissions)
	consultant.GET("/white-label", c.ConsultPortal.GetWhiteLabel)
	consultant.PUT("/white-label", c.ConsultPortal.UpdateWhiteLabel)
}

func registerResellerAdmin(g *echo.Group, rc *controllers.ResellerController) {
	g.GET("", rc.List)
	g.POST("", rc.Create)
	g.GET("/:id", rc.Get)
	g.PUT("/:id", rc.Update)
	g.DELETE("/:id", rc.Delete)
}
