package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/middleware"
	"github.com/HSouheill/dispensary_backend/models"
)

// RegisterStoreRoutes sets up the tenant scoped dispensary API. The store
// always comes from the token.
func RegisterStoreRoutes(public, protected *echo.Group, c Controllers) {
	public.GET("/verify/:code", c.QR.Verify)

	store := protected.Group("", middleware.RequireStore())
	management := middleware.RequireRole(models.RoleOwner, models.RoleManager)
	counter := middleware.RequireRole(models.RoleOwner, models.RoleManager, models.RoleEmployee)
	floor := middleware.RequireRole(models.RoleOwner, models.RoleManager, models.RoleEmployee, models.RoleDriver)

	// Accounting
	store.GET("/expenses", c.Accounting.ListExpenses, management)
	store.POST("/expenses", c.Accounting.CreateExpense, management)
	store.PUT("/expenses/:id", c.Accounting.UpdateExpense, management)
	store.DELETE("/expenses/:id", c.Accounting.DeleteExpense, management)
	store.GET("/sales", c.Accounting.ListSales, counter)
	store.POST("/sales", c.Accounting.CreateSale, counter)
	store.GET("/sales/:id", c.Accounting.GetSale, counter)
	store.PUT("/sales/:id/status", c.Accounting.UpdateSaleStatus, management)
	store.GET("/accounting/summary", c.Accounting.Summary, management)

	// Delivery
	store.GET("/deliveries", c.Deliveries.List, floor)
	store.POST("/deliveries", c.Deliveries.Create, counter)
	store.PUT("/deliveries/:id", c.Deliveries.Update, counter)
	store.DELETE("/deliveries/:id", c.Deliveries.Delete, management)
	store.PUT("/deliveries/:id/status", c.Deliveries.UpdateStatus, floor)

	// Inventory
	store.GET("/products/low-stock", c.Inventory.LowStock, counter)
	store.GET("/products", c.Inventory.List, counter)
	store.POST("/products", c.Inventory.Create, management)
	store.GET("/products/:id", c.Inventory.Get, counter)
	store.PUT("/products/:id", c.Inventory.Update, management)
	store.DELETE("/products/:id", c.Inventory.Delete, management)

	// QR authentication
	store.POST("/qr-codes", c.QR.Generate, management)
	store.GET("/qr-codes", c.QR.List, management)
	store.GET("/qr-codes/:id/image", c.QR.Image, management)
	store.PUT("/qr-codes/:id/revoke", c.QR.Revoke, management)

	// Reports
	store.GET("/reports/sales", c.Reports.Sales, management)
	store.GET("/reports/inventory", c.Reports.Inventory, management)
	store.GET("/reports/deliveries", c.Reports.Deliveries, management)

	// Settings
	store.GET("/settings", c.Settings.Get, floor)
	store.PUT("/settings", c.Settings.Update, middleware.RequireRole(models.RoleOwner))
}
