package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/logger"
	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
)

var hundred = decimal.NewFromInt(100)

// AccountingSummary is the profit and loss view of one store over a period
type AccountingSummary struct {
	From               *time.Time              `json:"from,omitempty"`
	To                 *time.Time              `json:"to,omitempty"`
	Revenue            models.Money            `json:"revenue"`
	TaxCollected       models.Money            `json:"taxCollected"`
	Discounts          models.Money            `json:"discounts"`
	SalesCount         int                     `json:"salesCount"`
	RefundedCount      int                     `json:"refundedCount"`
	AverageSale        models.Money            `json:"averageSale"`
	Expenses           models.Money            `json:"expenses"`
	PaidExpenses       models.Money            `json:"paidExpenses"`
	PendingExpenses    models.Money            `json:"pendingExpenses"`
	ExpensesByCategory map[string]models.Money `json:"expensesByCategory"`
	NetProfit          models.Money            `json:"netProfit"`
}

// SaleService records point of sale transactions against inventory
type SaleService struct {
	sales    repositories.SaleRepository
	products repositories.ProductRepository
	expenses repositories.ExpenseRepository
	stores   repositories.StoreRepository
	now      func() time.Time
}

func NewSaleService(
	sales repositories.SaleRepository,
	products repositories.ProductRepository,
	expenses repositories.ExpenseRepository,
	stores repositories.StoreRepository,
) *SaleService {
	return &SaleService{sales: sales, products: products, expenses: expenses, stores: stores, now: time.Now}
}

// Create prices the sale from the catalog, takes the items out of stock and
// stores it. Tax uses the store's tax rate on the discounted subtotal.
func (s *SaleService) Create(ctx context.Context, storeID, employeeID primitive.ObjectID, in models.SaleInput) (*models.Sale, error) {
	method, err := models.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if in.Discount.IsNegative() {
		return nil, &models.InvalidAmountError{Value: in.Discount.String()}
	}
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}

	items := make([]models.SaleItem, 0, len(in.Items))
	subtotal := decimal.Zero
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInsufficientStock)
		}
		product, err := s.products.FindByID(ctx, storeID, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", item.ProductID.Hex(), err)
		}
		if !product.IsActive {
			return nil, fmt.Errorf("product %s: %w", product.Name, repositories.ErrNotFound)
		}
		line := models.SaleItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		}
		if !item.UnitPrice.IsZero() {
			if item.UnitPrice.IsNegative() {
				return nil, &models.InvalidAmountError{Value: item.UnitPrice.String()}
			}
			line.UnitPrice = item.UnitPrice
		}
		subtotal = subtotal.Add(line.LineTotal())
		items = append(items, line)
	}

	discount := in.Discount.Decimal()
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(decimal.NewFromFloat(store.Settings.TaxRate)).Div(hundred).Round(2)

	if err := s.takeStock(ctx, storeID, items); err != nil {
		return nil, err
	}

	now := s.now()
	sale := models.Sale{
		ID:            primitive.NewObjectID(),
		StoreID:       storeID,
		Items:         items,
		Subtotal:      models.MoneyFromDecimal(subtotal.Round(2)),
		Tax:           models.MoneyFromDecimal(tax),
		Discount:      models.MoneyFromDecimal(discount.Round(2)),
		Total:         models.MoneyFromDecimal(taxable.Add(tax).Round(2)),
		PaymentMethod: method,
		EmployeeID:    employeeID,
		Status:        models.SaleCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.CustomerID != "" {
		customerID, err := primitive.ObjectIDFromHex(in.CustomerID)
		if err != nil {
			s.restock(ctx, storeID, items)
			return nil, fmt.Errorf("%w: customer id", ErrInvalidID)
		}
		sale.CustomerID = &customerID
	}

	if err := s.sales.Create(ctx, &sale); err != nil {
		s.restock(ctx, storeID, items)
		return nil, err
	}
	return &sale, nil
}

// takeStock decrements every line, undoing earlier lines when one fails
func (s *SaleService) takeStock(ctx context.Context, storeID primitive.ObjectID, items []models.SaleItem) error {
	for i, item := range items {
		err := s.products.AdjustQuantity(ctx, storeID, item.ProductID, -item.Quantity)
		if err == nil {
			continue
		}
		s.restock(ctx, storeID, items[:i])
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrInsufficientStock, item.Name)
		}
		return err
	}
	return nil
}

func (s *SaleService) restock(ctx context.Context, storeID primitive.ObjectID, items []models.SaleItem) {
	for _, item := range items {
		if err := s.products.AdjustQuantity(ctx, storeID, item.ProductID, item.Quantity); err != nil {
			logger.WithError(err).WithField("productId", item.ProductID.Hex()).Error("failed to restock product")
		}
	}
}

func (s *SaleService) Get(ctx context.Context, storeID, id primitive.ObjectID) (*models.Sale, error) {
	return s.sales.FindByID(ctx, storeID, id)
}

func (s *SaleService) List(ctx context.Context, storeID primitive.ObjectID, opts repositories.ListOptions) ([]models.Sale, int64, error) {
	return s.sales.List(ctx, storeID, opts)
}

// UpdateStatus refunds or voids a completed sale and puts its items back in stock
func (s *SaleService) UpdateStatus(ctx context.Context, storeID, id primitive.ObjectID, status string) (*models.Sale, error) {
	to, err := models.ParseSaleStatus(status)
	if err != nil {
		return nil, err
	}
	sale, err := s.sales.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if sale.Status != models.SaleCompleted || to == models.SaleCompleted {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidSaleStatus, sale.Status, to)
	}

	// only the request that flips COMPLETED restocks
	updated, err := s.sales.SetStatus(ctx, storeID, id, models.SaleCompleted, to, s.now())
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: sale is no longer %s", ErrInvalidSaleStatus, models.SaleCompleted)
	}
	if err != nil {
		return nil, err
	}
	s.restock(ctx, storeID, updated.Items)
	return updated, nil
}

// Summary totals completed sales and expenses in [opts.From, opts.To]
func (s *SaleService) Summary(ctx context.Context, storeID primitive.ObjectID, opts repositories.ListOptions) (AccountingSummary, error) {
	window := repositories.ListOptions{From: opts.From, To: opts.To}

	sales, err := s.sales.ListAll(ctx, storeID, window)
	if err != nil {
		return AccountingSummary{}, err
	}
	expenses, err := s.expenses.ListAll(ctx, storeID, window)
	if err != nil {
		return AccountingSummary{}, err
	}

	revenue, tax, discounts := decimal.Zero, decimal.Zero, decimal.Zero
	out := AccountingSummary{From: opts.From, To: opts.To, ExpensesByCategory: map[string]models.Money{}}
	for _, sale := range sales {
		if !sale.Status.CountsAsRevenue() {
			out.RefundedCount++
			continue
		}
		out.SalesCount++
		revenue = revenue.Add(sale.Total.Decimal())
		tax = tax.Add(sale.Tax.Decimal())
		discounts = discounts.Add(sale.Discount.Decimal())
	}

	spent, paid, pending := decimal.Zero, decimal.Zero, decimal.Zero
	byCategory := map[string]decimal.Decimal{}
	for _, e := range expenses {
		amount := e.Amount.Decimal()
		spent = spent.Add(amount)
		byCategory[e.Category] = byCategory[e.Category].Add(amount)
		switch e.Status {
		case models.ExpensePaid:
			paid = paid.Add(amount)
		case models.ExpensePending:
			pending = pending.Add(amount)
		}
	}
	for category, total := range byCategory {
		out.ExpensesByCategory[category] = models.MoneyFromDecimal(total.Round(2))
	}

	average := decimal.Zero
	if out.SalesCount > 0 {
		average = revenue.Div(decimal.NewFromInt(int64(out.SalesCount)))
	}

	out.Revenue = models.MoneyFromDecimal(revenue.Round(2))
	out.TaxCollected = models.MoneyFromDecimal(tax.Round(2))
	out.Discounts = models.MoneyFromDecimal(discounts.Round(2))
	out.AverageSale = models.MoneyFromDecimal(average.Round(2))
	out.Expenses = models.MoneyFromDecimal(spent.Round(2))
	out.PaidExpenses = models.MoneyFromDecimal(paid.Round(2))
	out.PendingExpenses = models.MoneyFromDecimal(pending.Round(2))
	// tax is owed to the state, not profit
	out.NetProfit = models.MoneyFromDecimal(revenue.Sub(tax).Sub(spent).Round(2))
	return out, nil
}
