package services

import (
	"context"
	"sort"
	"time"
	// store timezones must resolve on images without zoneinfo
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
)

const topProductsLimit = 10

type SalesBucket struct {
	Period  string       `json:"period"`
	Sales   int          `json:"sales"`
	Units   int          `json:"units"`
	Revenue models.Money `json:"revenue"`
	Tax     models.Money `json:"tax"`
}

type ProductSales struct {
	ProductID string       `json:"productId"`
	Name      string       `json:"name"`
	Units     int          `json:"units"`
	Revenue   models.Money `json:"revenue"`
}

type SalesReport struct {
	GroupBy     string         `json:"groupBy"`
	Buckets     []SalesBucket  `json:"buckets"`
	TopProducts []ProductSales `json:"topProducts"`
	Revenue     models.Money   `json:"revenue"`
	Sales       int            `json:"sales"`
}

type CategoryStock struct {
	Products    int          `json:"products"`
	Units       int          `json:"units"`
	RetailValue models.Money `json:"retailValue"`
}

type InventoryReport struct {
	Products    int                                      `json:"products"`
	Active      int                                      `json:"active"`
	Units       int                                      `json:"units"`
	CostValue   models.Money                             `json:"costValue"`
	RetailValue models.Money                             `json:"retailValue"`
	LowStock    []models.Product                         `json:"lowStock"`
	ByCategory  map[models.ProductCategory]CategoryStock `json:"byCategory"`
}

type DeliveryReport struct {
	Total                  int                           `json:"total"`
	ByStatus               map[models.DeliveryStatus]int `json:"byStatus"`
	FeesCollected          models.Money                  `json:"feesCollected"`
	CompletionRate         float64                       `json:"completionRate"`
	AverageDeliveryMinutes float64                       `json:"averageDeliveryMinutes"`
}

// ReportService builds read only store reports from the operational collections
type ReportService struct {
	sales      repositories.SaleRepository
	products   repositories.ProductRepository
	deliveries repositories.DeliveryRepository
	stores     repositories.StoreRepository
}

func NewReportService(
	sales repositories.SaleRepository,
	products repositories.ProductRepository,
	deliveries repositories.DeliveryRepository,
	stores repositories.StoreRepository,
) *ReportService {
	return &ReportService{sales: sales, products: products, deliveries: deliveries, stores: stores}
}

// location returns the store's configured timezone, UTC when unset or unknown
func (s *ReportService) location(ctx context.Context, storeID primitive.ObjectID) *time.Location {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil || store.Settings.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(store.Settings.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Sales buckets completed sales by local day or month of the store
func (s *ReportService) Sales(ctx context.Context, storeID primitive.ObjectID, opts repositories.ListOptions, groupBy string) (SalesReport, error) {
	layout := ""
	switch groupBy {
	case "", "day":
		groupBy, layout = "day", "2006-01-02"
	case "month":
		layout = "2006-01"
	default:
		return SalesReport{}, ErrInvalidGrouping
	}

	sales, err := s.sales.ListAll(ctx, storeID, repositories.ListOptions{From: opts.From, To: opts.To})
	if err != nil {
		return SalesReport{}, err
	}
	loc := s.location(ctx, storeID)

	type acc struct {
		sales, units int
		revenue, tax decimal.Decimal
	}
	buckets := map[string]*acc{}
	type productAcc struct {
		name    string
		units   int
		revenue decimal.Decimal
	}
	products := map[primitive.ObjectID]*productAcc{}
	total := decimal.Zero
	count := 0

	for _, sale := range sales {
		if !sale.Status.CountsAsRevenue() {
			continue
		}
		key := sale.CreatedAt.In(loc).Format(layout)
		b, ok := buckets[key]
		if !ok {
			b = &acc{}
			buckets[key] = b
		}
		b.sales++
		b.revenue = b.revenue.Add(sale.Total.Decimal())
		b.tax = b.tax.Add(sale.Tax.Decimal())
		total = total.Add(sale.Total.Decimal())
		count++

		for _, item := range sale.Items {
			b.units += item.Quantity
			p, ok := products[item.ProductID]
			if !ok {
				p = &productAcc{name: item.Name}
				products[item.ProductID] = p
			}
			p.units += item.Quantity
			p.revenue = p.revenue.Add(item.LineTotal())
		}
	}

	report := SalesReport{
		GroupBy:     groupBy,
		Buckets:     make([]SalesBucket, 0, len(buckets)),
		TopProducts: make([]ProductSales, 0, len(products)),
		Revenue:     models.MoneyFromDecimal(total.Round(2)),
		Sales:       count,
	}
	for period, b := range buckets {
		report.Buckets = append(report.Buckets, SalesBucket{
			Period:  period,
			Sales:   b.sales,
			Units:   b.units,
			Revenue: models.MoneyFromDecimal(b.revenue.Round(2)),
			Tax:     models.MoneyFromDecimal(b.tax.Round(2)),
		})
	}
	sort.Slice(report.Buckets, func(i, j int) bool { return report.Buckets[i].Period < report.Buckets[j].Period })

	for id, p := range products {
		report.TopProducts = append(report.TopProducts, ProductSales{
			ProductID: id.Hex(),
			Name:      p.name,
			Units:     p.units,
			Revenue:   models.MoneyFromDecimal(p.revenue.Round(2)),
		})
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		a, b := report.TopProducts[i], report.TopProducts[j]
		if a.Units != b.Units {
			return a.Units > b.Units
		}
		return a.Name < b.Name
	})
	if len(report.TopProducts) > topProductsLimit {
		report.TopProducts = report.TopProducts[:topProductsLimit]
	}
	return report, nil
}

// Inventory values stock on hand at cost and at retail
func (s *ReportService) Inventory(ctx context.Context, storeID primitive.ObjectID) (InventoryReport, error) {
	products, err := s.products.ListAll(ctx, storeID, repositories.ListOptions{})
	if err != nil {
		return InventoryReport{}, err
	}

	cost, retail := decimal.Zero, decimal.Zero
	categoryRetail := map[models.ProductCategory]decimal.Decimal{}
	report := InventoryReport{
		Products:   len(products),
		LowStock:   []models.Product{},
		ByCategory: map[models.ProductCategory]CategoryStock{},
	}
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		units := decimal.NewFromInt(int64(p.Quantity))
		report.Active++
		report.Units += p.Quantity
		cost = cost.Add(p.Cost.Decimal().Mul(units))
		value := p.Price.Decimal().Mul(units)
		retail = retail.Add(value)

		cs := report.ByCategory[p.Category]
		cs.Products++
		cs.Units += p.Quantity
		report.ByCategory[p.Category] = cs
		categoryRetail[p.Category] = categoryRetail[p.Category].Add(value)

		if p.LowStock() {
			report.LowStock = append(report.LowStock, p)
		}
	}
	for category, value := range categoryRetail {
		cs := report.ByCategory[category]
		cs.RetailValue = models.MoneyFromDecimal(value.Round(2))
		report.ByCategory[category] = cs
	}
	report.CostValue = models.MoneyFromDecimal(cost.Round(2))
	report.RetailValue = models.MoneyFromDecimal(retail.Round(2))
	return report, nil
}

// Deliveries counts deliveries per status in the window and measures how
// long completed ones took
func (s *ReportService) Deliveries(ctx context.Context, storeID primitive.ObjectID, opts repositories.ListOptions) (DeliveryReport, error) {
	deliveries, err := s.deliveries.ListAll(ctx, storeID, repositories.ListOptions{From: opts.From, To: opts.To})
	if err != nil {
		return DeliveryReport{}, err
	}

	report := DeliveryReport{Total: len(deliveries), ByStatus: map[models.DeliveryStatus]int{}}
	fees := decimal.Zero
	var minutes float64
	timed := 0
	for _, d := range deliveries {
		report.ByStatus[d.Status]++
		if d.Status != models.DeliveryDelivered {
			continue
		}
		fees = fees.Add(d.Fee.Decimal())
		if d.DeliveredAt != nil {
			minutes += d.DeliveredAt.Sub(d.CreatedAt).Minutes()
			timed++
		}
	}

	report.FeesCollected = models.MoneyFromDecimal(fees.Round(2))
	if report.Total > 0 {
		report.CompletionRate = roundTo(float64(report.ByStatus[models.DeliveryDelivered])*100/float64(report.Total), 2)
	}
	if timed > 0 {
		report.AverageDeliveryMinutes = roundTo(minutes/float64(timed), 1)
	}
	return report, nil
}

func roundTo(f float64, places int32) float64 {
	v, _ := decimal.NewFromFloat(f).Round(places).Float64()
	return v
}
