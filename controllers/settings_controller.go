package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/services"
)

type SettingsController struct {
	store *services.StoreService
}

func NewSettingsController(store *services.StoreService) *SettingsController {
	return &SettingsController{store: store}
}

func (sc *SettingsController) Get(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	settings, err := sc.store.Settings(ctx, storeID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Settings retrieved successfully", settings)
}

// Update replaces the store settings (owners and managers)
func (sc *SettingsController) Update(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	var in models.StoreSettings
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	settings, err := sc.store.UpdateSettings(ctx, storeID, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Settings updated successfully", settings)
}
