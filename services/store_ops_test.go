package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
	"github.com/HSouheill/dispensary_backend/repositories/memory"
)

type storeFixture struct {
	storeID    primitive.ObjectID
	stores     *memory.StoreRepository
	products   *memory.ProductRepository
	sales      repositories.SaleRepository
	expenses   repositories.ExpenseRepository
	deliveries repositories.DeliveryRepository
	codes      *memory.AuthenticationCodeRepository

	storeSvc    *StoreService
	saleSvc     *SaleService
	deliverySvc *DeliveryService
	reportSvc   *ReportService
	verifySvc   *VerificationService
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()
	f := &storeFixture{
		storeID:    primitive.NewObjectID(),
		stores:     memory.NewStoreRepository(),
		products:   memory.NewProductRepository(),
		sales:      memory.NewSaleRepository(),
		expenses:   memory.NewExpenseRepository(),
		deliveries: memory.NewDeliveryRepository(),
		codes:      memory.NewAuthenticationCodeRepository(),
	}
	require.NoError(t, f.stores.Create(context.Background(), &models.Store{
		ID:       f.storeID,
		Name:     "Greenleaf Dispensary",
		Settings: models.StoreSettings{TaxRate: 10, Currency: "USD", Timezone: "UTC"},
	}))

	clock := func() time.Time { return fixedNow }
	f.storeSvc = NewStoreService(f.stores, f.expenses, f.products)
	f.storeSvc.now = clock
	f.saleSvc = NewSaleService(f.sales, f.products, f.expenses, f.stores)
	f.saleSvc.now = clock
	f.deliverySvc = NewDeliveryService(f.deliveries, f.sales)
	f.deliverySvc.now = clock
	f.reportSvc = NewReportService(f.sales, f.products, f.deliveries, f.stores)
	f.verifySvc = NewVerificationService(f.codes, f.products, f.stores, NewQRRenderer("https://verify.test"), nil)
	f.verifySvc.now = clock
	return f
}

func (f *storeFixture) product(t *testing.T, name string, price float64, qty int) *models.Product {
	t.Helper()
	p, err := f.storeSvc.CreateProduct(context.Background(), f.storeID, models.ProductInput{
		Name: name, SKU: strings.ToUpper(name), Category: "flower",
		Price: models.NewMoney(price), Cost: models.NewMoney(price / 2),
		Quantity: qty, ReorderLevel: 3, BatchNumber: "B-" + name,
	})
	require.NoError(t, err)
	return p
}

func (f *storeFixture) stock(t *testing.T, id primitive.ObjectID) int {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), f.storeID, id)
	require.NoError(t, err)
	return p.Quantity
}

func TestSaleService_CreatePricesTaxesAndTakesStock(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	kush := f.product(t, "kush", 20, 10)
	gummies := f.product(t, "gummies", 5.5, 2)

	sale, err := f.saleSvc.Create(ctx, f.storeID, primitive.NewObjectID(), models.SaleInput{
		Items: []models.SaleItem{
			{ProductID: kush.ID, Quantity: 2},
			{ProductID: gummies.ID, Quantity: 1},
		},
		Discount:      models.NewMoney(5.5),
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)
	assert.Equal(t, "45.50", sale.Subtotal.StringFixed())
	assert.Equal(t, "4.00", sale.Tax.StringFixed())
	assert.Equal(t, "44.00", sale.Total.StringFixed())
	assert.Equal(t, models.SaleCompleted, sale.Status)
	assert.Equal(t, "kush", sale.Items[0].Name)

	assert.Equal(t, 8, f.stock(t, kush.ID))
	assert.Equal(t, 1, f.stock(t, gummies.ID))
}

func TestSaleService_InsufficientStockRollsBack(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	kush := f.product(t, "kush", 20, 10)
	gummies := f.product(t, "gummies", 5.5, 2)

	_, err := f.saleSvc.Create(ctx, f.storeID, primitive.NewObjectID(), models.SaleInput{
		Items: []models.SaleItem{
			{ProductID: kush.ID, Quantity: 1},
			{ProductID: gummies.ID, Quantity: 5},
		},
		PaymentMethod: "CARD",
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 10, f.stock(t, kush.ID))
	assert.Equal(t, 2, f.stock(t, gummies.ID))

	_, err = f.saleSvc.Create(ctx, f.storeID, primitive.NewObjectID(), models.SaleInput{
		Items:         []models.SaleItem{{ProductID: kush.ID, Quantity: 1}},
		PaymentMethod: "BITCOIN",
	})
	assert.ErrorIs(t, err, models.ErrInvalidEnum)
}

func TestSaleService_DiscountCappedAtSubtotal(t *testing.T) {
	f := newStoreFixture(t)
	kush := f.product(t, "kush", 20, 10)

	sale, err := f.saleSvc.Create(context.Background(), f.storeID, primitive.NewObjectID(), models.SaleInput{
		Items:         []models.SaleItem{{ProductID: kush.ID, Quantity: 1}},
		Discount:      models.NewMoney(50),
		PaymentMethod: "DEBIT",
	})
	require.NoError(t, err)
	assert.Equal(t, "20.00", sale.Discount.StringFixed())
	assert.Equal(t, "0.00", sale.Total.StringFixed())
}

func TestSaleService_RefundRestocks(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	kush := f.product(t, "kush", 20, 10)

	sale, err := f.saleSvc.Create(ctx, f.storeID, primitive.NewObjectID(), models.SaleInput{
		Items:         []models.SaleItem{{ProductID: kush.ID, Quantity: 4}},
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, f.stock(t, kush.ID))

	refunded, err := f.saleSvc.UpdateStatus(ctx, f.storeID, sale.ID, "REFUNDED")
	require.NoError(t, err)
	assert.Equal(t, models.SaleRefunded, refunded.Status)
	assert.Equal(t, 10, f.stock(t, kush.ID))

	_, err = f.saleSvc.UpdateStatus(ctx, f.storeID, sale.ID, "VOIDED")
	assert.ErrorIs(t, err, ErrInvalidSaleStatus)

	_, err = f.saleSvc.UpdateStatus(ctx, primitive.NewObjectID(), sale.ID, "VOIDED")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestSaleService_Summary(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	kush := f.product(t, "kush", 20, 10)

	for _, qty := range []int{2, 1, 1} {
		_, err := f.saleSvc.Create(ctx, f.storeID, primitive.NewObjectID(), models.SaleInput{
			Items:         []models.SaleItem{{ProductID: kush.ID, Quantity: qty}},
			PaymentMethod: "CASH",
		})
		require.NoError(t, err)
	}
	sales, _, err := f.saleSvc.List(ctx, f.storeID, repositories.ListOptions{})
	require.NoError(t, err)
	require.Len(t, sales, 3)
	// refund one of the single unit sales
	for _, s := range sales {
		if s.Items[0].Quantity == 1 {
			_, err = f.saleSvc.UpdateStatus(ctx, f.storeID, s.ID, "REFUNDED")
			require.NoError(t, err)
			break
		}
	}

	_, err = f.storeSvc.CreateExpense(ctx, f.storeID, models.ExpenseInput{Category: "rent", Description: "March", Amount: models.NewMoney(10), Status: "paid"})
	require.NoError(t, err)
	_, err = f.storeSvc.CreateExpense(ctx, f.storeID, models.ExpenseInput{Category: "supplies", Description: "Bags", Amount: models.NewMoney(5)})
	require.NoError(t, err)

	summary, err := f.saleSvc.Summary(ctx, f.storeID, repositories.ListOptions{})
	require.NoError(t, err)
	// 44 + 22 gross, 4 + 2 tax
	assert.Equal(t, "66.00", summary.Revenue.StringFixed())
	assert.Equal(t, "6.00", summary.TaxCollected.StringFixed())
	assert.Equal(t, 2, summary.SalesCount)
	assert.Equal(t, 1, summary.RefundedCount)
	assert.Equal(t, "33.00", summary.AverageSale.StringFixed())
	assert.Equal(t, "15.00", summary.Expenses.StringFixed())
	assert.Equal(t, "10.00", summary.PaidExpenses.StringFixed())
	assert.Equal(t, "5.00", summary.PendingExpenses.StringFixed())
	assert.Equal(t, "10.00", summary.ExpensesByCategory["rent"].StringFixed())
	assert.Equal(t, "45.00", summary.NetProfit.StringFixed())
}

func TestStoreService_ExpenseScopedToStore(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	e, err := f.storeSvc.CreateExpense(ctx, f.storeID, models.ExpenseInput{Category: "rent", Description: "April", Amount: models.NewMoney(1200)})
	require.NoError(t, err)
	assert.Equal(t, models.ExpensePending, e.Status)
	assert.True(t, e.Date.Equal(fixedNow))

	other := primitive.NewObjectID()
	items, total, err := f.storeSvc.ListExpenses(ctx, other, repositories.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)

	_, err = f.storeSvc.UpdateExpense(ctx, other, e.ID, models.ExpenseInput{Category: "rent", Description: "x"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, f.storeSvc.DeleteExpense(ctx, other, e.ID), repositories.ErrNotFound)

	_, err = f.storeSvc.CreateExpense(ctx, f.storeID, models.ExpenseInput{Category: "rent", Description: "x", Status: "LATE"})
	assert.ErrorIs(t, err, models.ErrInvalidEnum)
}

func TestStoreService_ProductsAndLowStock(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	f.product(t, "kush", 20, 10)
	low := f.product(t, "gummies", 5, 2)

	items, err := f.storeSvc.LowStock(ctx, f.storeID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
	assert.Equal(t, models.CategoryFlower, items[0].Category)

	inactive := false
	_, err = f.storeSvc.UpdateProduct(ctx, f.storeID, low.ID, models.ProductInput{
		Name: "gummies", SKU: "G", Category: "EDIBLE", Quantity: 2, ReorderLevel: 3, IsActive: &inactive,
	})
	require.NoError(t, err)
	items, err = f.storeSvc.LowStock(ctx, f.storeID)
	require.NoError(t, err)
	assert.Empty(t, items, "inactive products never need reordering")

	_, err = f.storeSvc.CreateProduct(ctx, f.storeID, models.ProductInput{Name: "x", SKU: "x", Category: "SEEDS"})
	assert.ErrorIs(t, err, models.ErrInvalidEnum)
}

func TestStoreService_Settings(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStoreRepository()
	blank := &models.Store{ID: primitive.NewObjectID(), Name: "New"}
	require.NoError(t, stores.Create(ctx, blank))
	svc := NewStoreService(stores, memory.NewExpenseRepository(), memory.NewProductRepository())

	got, err := svc.Settings(ctx, blank.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultStoreSettings(), got)

	saved, err := svc.UpdateSettings(ctx, blank.ID, models.StoreSettings{TaxRate: 8.25, Currency: "cad", Timezone: "UTC", DeliveryEnabled: true})
	require.NoError(t, err)
	assert.Equal(t, "CAD", saved.Currency)

	got, err = svc.Settings(ctx, blank.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.25, got.TaxRate)
	assert.True(t, got.DeliveryEnabled)

	_, err = svc.UpdateSettings(ctx, blank.ID, models.StoreSettings{Timezone: "Mars/Olympus"})
	assert.ErrorIs(t, err, models.ErrInvalidEnum)

	_, err = svc.Settings(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDeliveryService_Lifecycle(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	driver := primitive.NewObjectID().Hex()

	assigned, err := f.deliverySvc.Create(ctx, f.storeID, models.DeliveryInput{CustomerName: "Ana", Address: "1 Main St", DriverID: driver})
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryAssigned, assigned.Status)

	d, err := f.deliverySvc.Create(ctx, f.storeID, models.DeliveryInput{CustomerName: " Ben ", Address: "2 Oak Ave", Fee: models.NewMoney(7.5)})
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryPending, d.Status)
	assert.Equal(t, "Ben", d.CustomerName)

	_, err = f.deliverySvc.UpdateStatus(ctx, f.storeID, d.ID, models.DeliveryStatusInput{Status: "ASSIGNED"})
	assert.ErrorIs(t, err, ErrInvalidDelivery, "assigning needs a driver")

	_, err = f.deliverySvc.UpdateStatus(ctx, f.storeID, d.ID, models.DeliveryStatusInput{Status: "DELIVERED"})
	assert.ErrorIs(t, err, ErrInvalidDelivery)

	d, err = f.deliverySvc.UpdateStatus(ctx, f.storeID, d.ID, models.DeliveryStatusInput{Status: "ASSIGNED", DriverID: driver})
	require.NoError(t, err)
	d, err = f.deliverySvc.UpdateStatus(ctx, f.storeID, d.ID, models.DeliveryStatusInput{Status: "IN_TRANSIT"})
	require.NoError(t, err)
	d, err = f.deliverySvc.UpdateStatus(ctx, f.storeID, d.ID, models.DeliveryStatusInput{Status: "DELIVERED"})
	require.NoError(t, err)
	require.NotNil(t, d.DeliveredAt)

	_, err = f.deliverySvc.UpdateStatus(ctx, f.storeID, d.ID, models.DeliveryStatusInput{Status: "CANCELLED"})
	assert.ErrorIs(t, err, ErrInvalidDelivery)
}

func TestDeliveryService_SaleMustBelongToStore(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	kush := f.product(t, "kush", 20, 10)
	sale, err := f.saleSvc.Create(ctx, f.storeID, primitive.NewObjectID(), models.SaleInput{
		Items: []models.SaleItem{{ProductID: kush.ID, Quantity: 1}}, PaymentMethod: "CASH",
	})
	require.NoError(t, err)

	d, err := f.deliverySvc.Create(ctx, f.storeID, models.DeliveryInput{SaleID: sale.ID.Hex(), CustomerName: "Ana", Address: "1 Main St"})
	require.NoError(t, err)
	require.NotNil(t, d.SaleID)

	_, err = f.deliverySvc.Create(ctx, primitive.NewObjectID(), models.DeliveryInput{SaleID: sale.ID.Hex(), CustomerName: "Ana", Address: "1 Main St"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = f.deliverySvc.Create(ctx, f.storeID, models.DeliveryInput{SaleID: "nope", CustomerName: "Ana", Address: "1 Main St"})
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestReportService_SalesByDay(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	kush := f.product(t, "kush", 20, 10)
	gummies := f.product(t, "gummies", 5, 10)

	sell := func(at time.Time, items ...models.SaleItem) {
		f.saleSvc.now = func() time.Time { return at }
		_, err := f.saleSvc.Create(ctx, f.storeID, primitive.NewObjectID(), models.SaleInput{Items: items, PaymentMethod: "CASH"})
		require.NoError(t, err)
	}
	yesterday := fixedNow.Add(-24 * time.Hour)
	sell(yesterday, models.SaleItem{ProductID: kush.ID, Quantity: 1})
	sell(fixedNow, models.SaleItem{ProductID: gummies.ID, Quantity: 3})
	sell(fixedNow.Add(time.Hour), models.SaleItem{ProductID: kush.ID, Quantity: 1})

	report, err := f.reportSvc.Sales(ctx, f.storeID, repositories.ListOptions{}, "")
	require.NoError(t, err)
	assert.Equal(t, "day", report.GroupBy)
	require.Len(t, report.Buckets, 2)
	assert.Equal(t, "2024-03-14", report.Buckets[0].Period)
	assert.Equal(t, "2024-03-15", report.Buckets[1].Period)
	assert.Equal(t, 2, report.Buckets[1].Sales)
	assert.Equal(t, 4, report.Buckets[1].Units)
	assert.Equal(t, 3, report.Sales)
	// 22 + 16.50 + 22
	assert.Equal(t, "60.50", report.Revenue.StringFixed())
	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "gummies", report.TopProducts[0].Name)

	monthly, err := f.reportSvc.Sales(ctx, f.storeID, repositories.ListOptions{}, "month")
	require.NoError(t, err)
	require.Len(t, monthly.Buckets, 1)
	assert.Equal(t, "2024-03", monthly.Buckets[0].Period)

	_, err = f.reportSvc.Sales(ctx, f.storeID, repositories.ListOptions{}, "week")
	assert.ErrorIs(t, err, ErrInvalidGrouping)
}

func TestReportService_Inventory(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	f.product(t, "kush", 20, 10)
	f.product(t, "gummies", 5, 2)

	report, err := f.reportSvc.Inventory(ctx, f.storeID)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Products)
	assert.Equal(t, 12, report.Units)
	assert.Equal(t, "210.00", report.RetailValue.StringFixed())
	assert.Equal(t, "105.00", report.CostValue.StringFixed())
	require.Len(t, report.LowStock, 1)
	assert.Equal(t, 2, report.ByCategory[models.CategoryFlower].Products)
}

func TestReportService_Deliveries(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	driver := primitive.NewObjectID().Hex()

	d, err := f.deliverySvc.Create(ctx, f.storeID, models.DeliveryInput{CustomerName: "Ana", Address: "1 Main St", DriverID: driver, Fee: models.NewMoney(5)})
	require.NoError(t, err)
	_, err = f.deliverySvc.Create(ctx, f.storeID, models.DeliveryInput{CustomerName: "Ben", Address: "2 Oak Ave", Fee: models.NewMoney(5)})
	require.NoError(t, err)

	_, err = f.deliverySvc.UpdateStatus(ctx, f.storeID, d.ID, models.DeliveryStatusInput{Status: "IN_TRANSIT"})
	require.NoError(t, err)
	f.deliverySvc.now = func() time.Time { return fixedNow.Add(30 * time.Minute) }
	_, err = f.deliverySvc.UpdateStatus(ctx, f.storeID, d.ID, models.DeliveryStatusInput{Status: "DELIVERED"})
	require.NoError(t, err)

	report, err := f.reportSvc.Deliveries(ctx, f.storeID, repositories.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.ByStatus[models.DeliveryDelivered])
	assert.Equal(t, 1, report.ByStatus[models.DeliveryPending])
	assert.Equal(t, "5.00", report.FeesCollected.StringFixed())
	assert.Equal(t, 50.0, report.CompletionRate)
	assert.Equal(t, 30.0, report.AverageDeliveryMinutes)
}

func TestVerificationService_GenerateAndVerify(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	kush := f.product(t, "kush", 20, 10)

	codes, err := f.verifySvc.Generate(ctx, f.storeID, models.AuthenticationCodeRequest{ProductID: kush.ID.Hex(), Count: 3})
	require.NoError(t, err)
	require.Len(t, codes, 3)
	assert.Equal(t, "B-kush", codes[0].BatchNumber)
	assert.NotEqual(t, codes[0].Code, codes[1].Code)

	result, err := f.verifySvc.Verify(ctx, " "+strings.ToLower(codes[0].Code)+" ")
	require.NoError(t, err)
	assert.True(t, result.Authentic)
	assert.Equal(t, "kush", result.ProductName)
	assert.Equal(t, "Greenleaf Dispensary", result.StoreName)
	assert.Equal(t, 1, result.ScanCount)
	assert.Empty(t, result.Warning)

	_, err = f.verifySvc.Revoke(ctx, f.storeID, codes[1].ID)
	require.NoError(t, err)
	result, err = f.verifySvc.Verify(ctx, codes[1].Code)
	require.NoError(t, err)
	assert.False(t, result.Authentic)
	assert.NotEmpty(t, result.Warning)

	result, err = f.verifySvc.Verify(ctx, "NOTAREALCODE")
	require.NoError(t, err)
	assert.False(t, result.Authentic)
	assert.NotEmpty(t, result.Warning)

	for i := 0; i < SuspiciousScanCount; i++ {
		result, err = f.verifySvc.Verify(ctx, codes[2].Code)
		require.NoError(t, err)
	}
	assert.Empty(t, result.Warning)
	result, err = f.verifySvc.Verify(ctx, codes[2].Code)
	require.NoError(t, err)
	assert.True(t, result.Authentic)
	assert.Contains(t, result.Warning, "scanned 6 times")

	img, err := f.verifySvc.Image(ctx, f.storeID, codes[0].ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))
}

func TestVerificationService_GenerateIsStoreScoped(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	kush := f.product(t, "kush", 20, 10)

	_, err := f.verifySvc.Generate(ctx, primitive.NewObjectID(), models.AuthenticationCodeRequest{ProductID: kush.ID.Hex(), Count: 1})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = f.verifySvc.Generate(ctx, f.storeID, models.AuthenticationCodeRequest{ProductID: "bad", Count: 1})
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = f.verifySvc.Revoke(ctx, primitive.NewObjectID(), kush.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
