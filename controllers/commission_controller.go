package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/commission"
	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
	"github.com/HSouheill/dispensary_backend/services"
)

// CommissionController is the admin view over every commission record
type CommissionController struct {
	commissions *services.CommissionService
	now         func() time.Time
}

func NewCommissionController(commissions *services.CommissionService) *CommissionController {
	return &CommissionController{commissions: commissions, now: time.Now}
}

type createCommissionRequest struct {
	ResellerType string `json:"resellerType" validate:"required"`
	models.CommissionInput
}

// List accepts resellerType, resellerId and month filters on top of paging
func (cc *CommissionController) List(c echo.Context) error {
	opts, err := listOptions(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters", err)
	}
	filter := repositories.CommissionFilter{Month: c.QueryParam("month")}
	if raw := c.QueryParam("resellerType"); raw != "" {
		if filter.ResellerType, err = models.ParseResellerType(strings.ToUpper(raw)); err != nil {
			return respondError(c, err)
		}
	}
	if raw := c.QueryParam("resellerId"); raw != "" {
		if filter.ResellerID, err = primitive.ObjectIDFromHex(raw); err != nil {
			return badRequest(c, "Invalid reseller ID", nil)
		}
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	items, total, err := cc.commissions.List(ctx, filter, opts)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, "Commissions retrieved successfully", items, opts, total)
}

// Create records a commission by hand
func (cc *CommissionController) Create(c echo.Context) error {
	var req createCommissionRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	typ, err := models.ParseResellerType(strings.ToUpper(req.ResellerType))
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	rec, err := cc.commissions.Create(ctx, typ, req.CommissionInput)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Commission created successfully", rec)
}

// UpdateStatus approves, pays, fails or cancels a commission
func (cc *CommissionController) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid commission ID", nil)
	}
	var in models.CommissionStatusInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	rec, err := cc.commissions.UpdateStatus(ctx, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Commission status updated successfully", rec)
}

// Generate runs the monthly generation on demand. month defaults to the
// previous calendar month in UTC. It walks every reseller, so the timeout is
// longer than a normal request.
func (cc *CommissionController) Generate(c echo.Context) error {
	month := strings.TrimSpace(c.QueryParam("month"))
	if month == "" {
		month = commission.PreviousMonthKey(cc.now().UTC())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Minute)
	defer cancel()

	report, err := cc.commissions.GenerateMonth(ctx, month)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Commission generation completed", report)
}
