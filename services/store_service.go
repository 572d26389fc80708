package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
)

// StoreService owns the plain tenant CRUD: expenses, the product catalog and
// store settings
type StoreService struct {
	stores   repositories.StoreRepository
	expenses repositories.ExpenseRepository
	products repositories.ProductRepository
	now      func() time.Time
}

func NewStoreService(
	stores repositories.StoreRepository,
	expenses repositories.ExpenseRepository,
	products repositories.ProductRepository,
) *StoreService {
	return &StoreService{stores: stores, expenses: expenses, products: products, now: time.Now}
}

// Expenses

func (s *StoreService) ListExpenses(ctx context.Context, storeID primitive.ObjectID, opts repositories.ListOptions) ([]models.Expense, int64, error) {
	return s.expenses.List(ctx, storeID, opts)
}

func (s *StoreService) CreateExpense(ctx context.Context, storeID primitive.ObjectID, in models.ExpenseInput) (*models.Expense, error) {
	now := s.now()
	e := models.Expense{ID: primitive.NewObjectID(), StoreID: storeID, CreatedAt: now}
	if err := s.applyExpense(&e, in); err != nil {
		return nil, err
	}
	if err := s.expenses.Create(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *StoreService) UpdateExpense(ctx context.Context, storeID, id primitive.ObjectID, in models.ExpenseInput) (*models.Expense, error) {
	e, err := s.expenses.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyExpense(e, in); err != nil {
		return nil, err
	}
	if err := s.expenses.Update(ctx, storeID, id, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *StoreService) DeleteExpense(ctx context.Context, storeID, id primitive.ObjectID) error {
	return s.expenses.Delete(ctx, storeID, id)
}

func (s *StoreService) applyExpense(e *models.Expense, in models.ExpenseInput) error {
	if in.Amount.IsNegative() {
		return &models.InvalidAmountError{Value: in.Amount.String()}
	}
	status := models.ExpensePending
	if in.Status != "" {
		parsed, err := models.ParseExpenseStatus(strings.ToUpper(in.Status))
		if err != nil {
			return err
		}
		status = parsed
	}

	e.Category = strings.TrimSpace(in.Category)
	e.Description = strings.TrimSpace(in.Description)
	e.Amount = in.Amount.Cents()
	e.Date = in.Date
	if e.Date.IsZero() {
		e.Date = s.now()
	}
	e.Vendor = in.Vendor
	e.PaymentMethod = in.PaymentMethod
	e.Status = status
	e.ReceiptURL = in.ReceiptURL
	e.UpdatedAt = s.now()
	return nil
}

// Products

func (s *StoreService) ListProducts(ctx context.Context, storeID primitive.ObjectID, opts repositories.ListOptions) ([]models.Product, int64, error) {
	return s.products.List(ctx, storeID, opts)
}

func (s *StoreService) GetProduct(ctx context.Context, storeID, id primitive.ObjectID) (*models.Product, error) {
	return s.products.FindByID(ctx, storeID, id)
}

func (s *StoreService) LowStock(ctx context.Context, storeID primitive.ObjectID) ([]models.Product, error) {
	return s.products.ListLowStock(ctx, storeID)
}

// CreateProduct adds a catalog entry. Products are active unless the input says otherwise.
func (s *StoreService) CreateProduct(ctx context.Context, storeID primitive.ObjectID, in models.ProductInput) (*models.Product, error) {
	now := s.now()
	p := models.Product{ID: primitive.NewObjectID(), StoreID: storeID, IsActive: true, CreatedAt: now}
	if err := s.applyProduct(&p, in); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *StoreService) UpdateProduct(ctx context.Context, storeID, id primitive.ObjectID, in models.ProductInput) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProduct(p, in); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, storeID, id, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *StoreService) DeleteProduct(ctx context.Context, storeID, id primitive.ObjectID) error {
	return s.products.Delete(ctx, storeID, id)
}

func (s *StoreService) applyProduct(p *models.Product, in models.ProductInput) error {
	category, err := models.ParseProductCategory(strings.ToUpper(in.Category))
	if err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return &models.InvalidAmountError{Value: in.Price.String()}
	}
	if in.Cost.IsNegative() {
		return &models.InvalidAmountError{Value: in.Cost.String()}
	}

	p.Name = strings.TrimSpace(in.Name)
	p.SKU = strings.TrimSpace(in.SKU)
	p.Category = category
	p.StrainType = in.StrainType
	p.THC = in.THC
	p.CBD = in.CBD
	p.Price = in.Price.Cents()
	p.Cost = in.Cost.Cents()
	p.Quantity = in.Quantity
	p.ReorderLevel = in.ReorderLevel
	p.BatchNumber = in.BatchNumber
	p.Supplier = in.Supplier
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.UpdatedAt = s.now()
	return nil
}

// Settings

// Settings returns the store's settings, or the defaults when they were never saved
func (s *StoreService) Settings(ctx context.Context, storeID primitive.ObjectID) (models.StoreSettings, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return models.StoreSettings{}, err
	}
	if store.Settings.Currency == "" && store.Settings.Timezone == "" {
		return models.DefaultStoreSettings(), nil
	}
	return store.Settings, nil
}

func (s *StoreService) UpdateSettings(ctx context.Context, storeID primitive.ObjectID, in models.StoreSettings) (models.StoreSettings, error) {
	if in.DeliveryFee.IsNegative() {
		return models.StoreSettings{}, &models.InvalidAmountError{Value: in.DeliveryFee.String()}
	}
	if in.MinimumOrder.IsNegative() {
		return models.StoreSettings{}, &models.InvalidAmountError{Value: in.MinimumOrder.String()}
	}
	defaults := models.DefaultStoreSettings()
	if in.Currency == "" {
		in.Currency = defaults.Currency
	}
	in.Currency = strings.ToUpper(in.Currency)
	if in.Timezone == "" {
		in.Timezone = defaults.Timezone
	}
	if _, err := time.LoadLocation(in.Timezone); err != nil {
		return models.StoreSettings{}, fmt.Errorf("%w: timezone %q", models.ErrInvalidEnum, in.Timezone)
	}
	if err := s.stores.UpdateSettings(ctx, storeID, in); err != nil {
		return models.StoreSettings{}, err
	}
	return in, nil
}
