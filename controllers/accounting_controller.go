package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/middleware"
	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/services"
)

// AccountingController serves expenses, sales and the profit summary of the caller's store
type AccountingController struct {
	store *services.StoreService
	sales *services.SaleService
}

func NewAccountingController(store *services.StoreService, sales *services.SaleService) *AccountingController {
	return &AccountingController{store: store, sales: sales}
}

func (ac *AccountingController) ListExpenses(c echo.Context) error {
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

	items, total, err := ac.store.ListExpenses(ctx, storeID, opts)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, "Expenses retrieved successfully", items, opts, total)
}

func (ac *AccountingController) CreateExpense(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	var in models.ExpenseInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	expense, err := ac.store.CreateExpense(ctx, storeID, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Expense created successfully", expense)
}

func (ac *AccountingController) UpdateExpense(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid expense ID", nil)
	}
	var in models.ExpenseInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	expense, err := ac.store.UpdateExpense(ctx, storeID, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Expense updated successfully", expense)
}

func (ac *AccountingController) DeleteExpense(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid expense ID", nil)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := ac.store.DeleteExpense(ctx, storeID, id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Expense deleted successfully", nil)
}

func (ac *AccountingController) ListSales(c echo.Context) error {
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

	items, total, err := ac.sales.List(ctx, storeID, opts)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, "Sales retrieved successfully", items, opts, total)
}

// CreateSale records a sale rung up by the authenticated employee
func (ac *AccountingController) CreateSale(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	employeeID, err := middleware.UserID(c)
	if err != nil {
		return respond(c, http.StatusUnauthorized, "Invalid token", nil)
	}
	var in models.SaleInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	sale, err := ac.sales.Create(ctx, storeID, employeeID, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Sale recorded successfully", sale)
}

func (ac *AccountingController) GetSale(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid sale ID", nil)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	sale, err := ac.sales.Get(ctx, storeID, id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Sale retrieved successfully", sale)
}

type saleStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateSaleStatus refunds or voids a completed sale
func (ac *AccountingController) UpdateSaleStatus(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid sale ID", nil)
	}
	var req saleStatusRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	sale, err := ac.sales.UpdateStatus(ctx, storeID, id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Sale status updated successfully", sale)
}

// Summary handles GET /api/accounting/summary?from&to
func (ac *AccountingController) Summary(c echo.Context) error {
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

	summary, err := ac.sales.Summary(ctx, storeID, opts)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Accounting summary retrieved successfully", summary)
}
