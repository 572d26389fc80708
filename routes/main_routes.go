package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/controllers"
)

// Controllers bundles every handler the API exposes
type Controllers struct {
	Auth          *controllers.AuthController
	Accounting    *controllers.AccountingController
	Deliveries    *controllers.DeliveryController
	Inventory     *controllers.InventoryController
	QR            *controllers.QRController
	Reports       *controllers.ReportController
	Settings      *controllers.SettingsController
	Partners      *controllers.ResellerController
	Consultants   *controllers.ResellerController
	PartnerPortal *controllers.PortalController
	ConsultPortal *controllers.PortalController
	Commissions   *controllers.CommissionController
	Notifications *controllers.NotificationController
}

// SetupRoutes configures all API routes by calling individual route
// registration functions. jwt authenticates every group except the public
// login and verify endpoints.
func SetupRoutes(e *echo.Echo, jwt echo.MiddlewareFunc, c Controllers) {
	api := e.Group("/api")
	protected := e.Group("/api", jwt)

	RegisterAuthRoutes(api, protected, c.Auth)
	RegisterStoreRoutes(api, protected, c)
	RegisterResellerRoutes(protected, c)
	RegisterCommissionRoutes(protected, c.Commissions)
	RegisterNotificationRoutes(protected, c.Notifications)
}
