package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/services"
)

// ResellerController is the admin CRUD for one reseller hierarchy. The same
// controller serves /api/partners and /api/consultants.
type ResellerController struct {
	typ       models.ResellerType
	resellers *services.ResellerService
}

func NewResellerController(typ models.ResellerType, resellers *services.ResellerService) *ResellerController {
	return &ResellerController{typ: typ, resellers: resellers}
}

func (rc *ResellerController) noun() string {
	if rc.typ == models.ResellerConsultant {
		return "Consultant"
	}
	return "Partner"
}

func (rc *ResellerController) List(c echo.Context) error {
	opts, err := listOptions(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters", err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	items, total, err := rc.resellers.List(ctx, rc.typ, opts)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, rc.noun()+"s retrieved successfully", items, opts, total)
}

func (rc *ResellerController) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid "+rc.noun()+" ID", nil)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	reseller, err := rc.resellers.Get(ctx, rc.typ, id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, rc.noun()+" retrieved successfully", reseller)
}

func (rc *ResellerController) Create(c echo.Context) error {
	var in models.ResellerInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	reseller, err := rc.resellers.Create(ctx, rc.typ, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, rc.noun()+" created successfully", reseller)
}

func (rc *ResellerController) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid "+rc.noun()+" ID", nil)
	}
	var in models.ResellerInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	reseller, err := rc.resellers.Update(ctx, rc.typ, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, rc.noun()+" updated successfully", reseller)
}

func (rc *ResellerController) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid "+rc.noun()+" ID", nil)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := rc.resellers.Delete(ctx, rc.typ, id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, rc.noun()+" deleted successfully", nil)
}
