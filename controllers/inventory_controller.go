package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/services"
)

// InventoryController manages the product catalog of a store
type InventoryController struct {
	store *services.StoreService
}

func NewInventoryController(store *services.StoreService) *InventoryController {
	return &InventoryController{store: store}
}

func (ic *InventoryController) List(c echo.Context) error {
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

	items, total, err := ic.store.ListProducts(ctx, storeID, opts)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, "Products retrieved successfully", items, opts, total)
}

func (ic *InventoryController) Get(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID", nil)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	product, err := ic.store.GetProduct(ctx, storeID, id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Product retrieved successfully", product)
}

func (ic *InventoryController) Create(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	var in models.ProductInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	product, err := ic.store.CreateProduct(ctx, storeID, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Product created successfully", product)
}

func (ic *InventoryController) Update(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID", nil)
	}
	var in models.ProductInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	product, err := ic.store.UpdateProduct(ctx, storeID, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Product updated successfully", product)
}

func (ic *InventoryController) Delete(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID", nil)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := ic.store.DeleteProduct(ctx, storeID, id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Product deleted successfully", nil)
}

// LowStock lists active products at or below their reorder level
func (ic *InventoryController) LowStock(c echo.Context) error {
	storeID, ok, err := storeScope(c)
	if !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := ic.store.LowStock(ctx, storeID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Low stock products retrieved successfully", items)
}
