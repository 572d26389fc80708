package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/services"
)

type ReportController struct {
	reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

// Sales handles GET /api/reports/sales?from&to&groupBy=day|month
func (rc *ReportController) Sales(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	opts, err := listOptions(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters", err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	groupBy := strings.ToLower(strings.TrimSpace(c.QueryParam("groupBy")))
	report, err := rc.reports.Sales(ctx, storeID, opts, groupBy)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Sales report generated successfully", report)
}

func (rc *ReportController) Inventory(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	report, err := rc.reports.Inventory(ctx, storeID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Inventory report generated successfully", report)
}

func (rc *ReportController) Deliveries(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	opts, err := listOptions(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters", err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	report, err := rc.reports.Deliveries(ctx, storeID, opts)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Delivery report generated successfully", report)
}
