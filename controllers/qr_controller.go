package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/services"
)

// QRController issues product authentication codes and answers public scans
type QRController struct {
	verification *services.VerificationService
}

func NewQRController(verification *services.VerificationService) *QRController {
	return &QRController{verification: verification}
}

// Generate creates a batch of codes for one product
func (qc *QRController) Generate(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	var req models.AuthenticationCodeRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	codes, err := qc.verification.Generate(ctx, storeID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Authentication codes generated successfully", codes)
}

func (qc *QRController) List(c echo.Context) error {
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

	items, total, err := qc.verification.List(ctx, storeID, opts)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, "Authentication codes retrieved successfully", items, opts, total)
}

// Image serves the printable PNG of one code
func (qc *QRController) Image(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid code ID", nil)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	img, err := qc.verification.Image(ctx, storeID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", img)
}

func (qc *QRController) Revoke(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid code ID", nil)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	code, err := qc.verification.Revoke(ctx, storeID, id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Authentication code revoked successfully", code)
}

// Verify is the public endpoint behind every printed QR code
func (qc *QRController) Verify(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := qc.verification.Verify(ctx, c.Param("code"))
	if err != nil {
		return respondError(c, err)
	}
	message := "Product verified"
	if !result.Authentic {
		message = "Product could not be verified"
	}
	return respond(c, http.StatusOK, message, result)
}
