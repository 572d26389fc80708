package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/services"
)

type DeliveryController struct {
	deliveries *services.DeliveryService
}

func NewDeliveryController(deliveries *services.DeliveryService) *DeliveryController {
	return &DeliveryController{deliveries: deliveries}
}

func (dc *DeliveryController) List(c echo.Context) error {
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

	items, total, err := dc.deliveries.List(ctx, storeID, opts)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, "Deliveries retrieved successfully", items, opts, total)
}

func (dc *DeliveryController) Create(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	var in models.DeliveryInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	delivery, err := dc.deliveries.Create(ctx, storeID, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Delivery created successfully", delivery)
}

func (dc *DeliveryController) Update(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid delivery ID", nil)
	}
	var in models.DeliveryInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	delivery, err := dc.deliveries.Update(ctx, storeID, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Delivery updated successfully", delivery)
}

func (dc *DeliveryController) Delete(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid delivery ID", nil)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := dc.deliveries.Delete(ctx, storeID, id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Delivery deleted successfully", nil)
}

// UpdateStatus moves a delivery to its next state
func (dc *DeliveryController) UpdateStatus(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid delivery ID", nil)
	}
	var in models.DeliveryStatusInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	delivery, err := dc.deliveries.UpdateStatus(ctx, storeID, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Delivery status updated successfully", delivery)
}
