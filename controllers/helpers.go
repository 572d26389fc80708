package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/commission"
	"github.com/HSouheill/dispensary_backend/logger"
	"github.com/HSouheill/dispensary_backend/middleware"
	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
	"github.com/HSouheill/dispensary_backend/services"
	"github.com/HSouheill/dispensary_backend/utils"
)

const requestTimeout = 10 * time.Second

// requestContext bounds every repository call made for one request
func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

func badRequest(c echo.Context, message string, err error) error {
	var data interface{}
	if err != nil {
		data = err.Error()
	}
	return respond(c, http.StatusBadRequest, message, data)
}

// respondError maps domain errors onto HTTP statuses. Anything unknown is
// logged and reported as a 500 without details.
func respondError(c echo.Context, err error) error {
	var amountErr *models.InvalidAmountError
	var validationErr validator.ValidationErrors
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &httpErr):
		// malformed JSON from c.Bind
		return respond(c, httpErr.Code, "Invalid request body", nil)
	case errors.Is(err, repositories.ErrNotFound):
		return respond(c, http.StatusNotFound, "Resource not found", nil)
	case errors.Is(err, repositories.ErrDuplicate):
		return respond(c, http.StatusConflict, "Resource already exists", nil)
	case errors.Is(err, commission.ErrInvalidTransition),
		errors.Is(err, services.ErrInvalidReferral),
		errors.Is(err, services.ErrInvalidSaleStatus),
		errors.Is(err, services.ErrInvalidDelivery):
		return respond(c, http.StatusConflict, "Invalid status transition", err.Error())
	case errors.Is(err, services.ErrTooManyAttempts):
		return respond(c, http.StatusTooManyRequests, "Too many attempts", nil)
	case errors.As(err, &amountErr),
		errors.As(err, &validationErr),
		errors.Is(err, models.ErrInvalidEnum),
		errors.Is(err, commission.ErrInvalidRate),
		errors.Is(err, commission.ErrInvalidMonth),
		errors.Is(err, services.ErrInvalidID),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrInvalidGrouping),
		errors.Is(err, services.ErrInvalidPhone),
		errors.Is(err, services.ErrUnknownStep):
		return badRequest(c, "Validation failed", err)
	case errors.Is(err, context.DeadlineExceeded):
		return respond(c, http.StatusGatewayTimeout, "Request timed out", nil)
	}

	logger.WithError(err).WithField("path", c.Path()).Error("request failed")
	return respond(c, http.StatusInternalServerError, "Internal server error", nil)
}

// bind decodes the JSON body into v and runs the struct validator
func bind(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		var httpErr *echo.HTTPError
		var amountErr *models.InvalidAmountError
		if errors.As(err, &httpErr) && httpErr.Internal != nil && errors.As(httpErr.Internal, &amountErr) {
			return amountErr
		}
		return err
	}
	return c.Validate(v)
}

func pathID(c echo.Context, name string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Param(name))
}

func listOptions(c echo.Context) (repositories.ListOptions, error) {
	return utils.ParseListOptions(c)
}

func respondPage(c echo.Context, message string, items interface{}, opts repositories.ListOptions, total int64) error {
	return respond(c, http.StatusOK, message, models.NewPage(items, opts.Page, opts.Limit, total))
}

// storeScope returns the tenant of the caller, writing the 403 itself when
// the token carries none
func storeScope(c echo.Context) (primitive.ObjectID, bool, error) {
	storeID, err := middleware.StoreID(c)
	if err != nil {
		return primitive.NilObjectID, false, respond(c, http.StatusForbidden, "A store account is required", nil)
	}
	return storeID, true, nil
}
