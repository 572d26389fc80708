package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
)

// StoreScoped is the in-memory counterpart of the tenant owned Mongo collections
type StoreScoped[T any] struct {
	t     *table[T]
	store func(*T) primitive.ObjectID
	// matches applies the search/status/category/date filters of ListOptions
	matches func(*T, repositories.ListOptions) bool
}

func newStoreScoped[T any](
	id, store func(*T) primitive.ObjectID,
	unique func(a, b *T) bool,
	matches func(*T, repositories.ListOptions) bool,
) *StoreScoped[T] {
	return &StoreScoped[T]{t: newTable(id, unique), store: store, matches: matches}
}

func (r *StoreScoped[T]) in(storeID primitive.ObjectID) func(*T) bool {
	return func(doc *T) bool { return r.store(doc) == storeID }
}

func (r *StoreScoped[T]) byID(storeID, id primitive.ObjectID) func(*T) bool {
	return func(doc *T) bool { return r.t.id(doc) == id && r.store(doc) == storeID }
}

func (r *StoreScoped[T]) Create(_ context.Context, doc *T) error {
	return r.t.insert(*doc)
}

func (r *StoreScoped[T]) Update(_ context.Context, storeID, id primitive.ObjectID, doc *T) error {
	if r.t.id(doc) != id || r.store(doc) != storeID {
		return repositories.ErrNotFound
	}
	return r.t.replace(*doc, r.in(storeID))
}

func (r *StoreScoped[T]) Delete(_ context.Context, storeID, id primitive.ObjectID) error {
	return r.t.remove(r.byID(storeID, id))
}

func (r *StoreScoped[T]) FindByID(_ context.Context, storeID, id primitive.ObjectID) (*T, error) {
	return r.t.find(r.byID(storeID, id))
}

func (r *StoreScoped[T]) List(_ context.Context, storeID primitive.ObjectID, opts repositories.ListOptions) ([]T, int64, error) {
	opts = opts.Normalize()
	in := r.in(storeID)
	items, total := r.t.page(func(doc *T) bool { return in(doc) && r.matches(doc, opts) }, opts)
	return items, total, nil
}

func (r *StoreScoped[T]) ListAll(_ context.Context, storeID primitive.ObjectID, opts repositories.ListOptions) ([]T, error) {
	opts = opts.Normalize()
	in := r.in(storeID)
	return r.t.filter(func(doc *T) bool { return in(doc) && r.matches(doc, opts) }), nil
}

func NewExpenseRepository() *StoreScoped[models.Expense] {
	return newStoreScoped(
		func(e *models.Expense) primitive.ObjectID { return e.ID },
		func(e *models.Expense) primitive.ObjectID { return e.StoreID },
		nil,
		func(e *models.Expense, o repositories.ListOptions) bool {
			return eqOrEmpty(o.Status, string(e.Status)) &&
				eqOrEmpty(o.Category, e.Category) &&
				o.InRange(e.Date) &&
				containsFold(o.Search, e.Description, e.Vendor)
		},
	)
}

type SaleRepository struct {
	*StoreScoped[models.Sale]
}

func NewSaleRepository() *SaleRepository {
	return &SaleRepository{newStoreScoped(
		func(s *models.Sale) primitive.ObjectID { return s.ID },
		func(s *models.Sale) primitive.ObjectID { return s.StoreID },
		nil,
		func(s *models.Sale, o repositories.ListOptions) bool {
			names := make([]string, 0, len(s.Items))
			for _, item := range s.Items {
				names = append(names, item.Name)
			}
			return eqOrEmpty(o.Status, string(s.Status)) &&
				eqOrEmpty(o.Category, string(s.PaymentMethod)) &&
				o.InRange(s.CreatedAt) &&
				containsFold(o.Search, names...)
		},
	)}
}

func (r *SaleRepository) SetStatus(_ context.Context, storeID, id primitive.ObjectID, from, to models.SaleStatus, at time.Time) (*models.Sale, error) {
	return r.t.mutate(r.byID(storeID, id), func(s *models.Sale) bool {
		if s.Status != from {
			return false
		}
		s.Status = to
		s.UpdatedAt = at
		return true
	})
}

func NewDeliveryRepository() *StoreScoped[models.Delivery] {
	return newStoreScoped(
		func(d *models.Delivery) primitive.ObjectID { return d.ID },
		func(d *models.Delivery) primitive.ObjectID { return d.StoreID },
		nil,
		func(d *models.Delivery, o repositories.ListOptions) bool {
			return eqOrEmpty(o.Status, string(d.Status)) &&
				o.InRange(d.CreatedAt) &&
				containsFold(o.Search, d.CustomerName, d.Address)
		},
	)
}

var (
	_ repositories.ExpenseRepository  = (*StoreScoped[models.Expense])(nil)
	_ repositories.SaleRepository     = (*SaleRepository)(nil)
	_ repositories.DeliveryRepository = (*StoreScoped[models.Delivery])(nil)
)

type ProductRepository struct {
	*StoreScoped[models.Product]
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{newStoreScoped(
		func(p *models.Product) primitive.ObjectID { return p.ID },
		func(p *models.Product) primitive.ObjectID { return p.StoreID },
		nil,
		func(p *models.Product, o repositories.ListOptions) bool {
			return eqOrEmpty(o.Category, string(p.Category)) &&
				containsFold(o.Search, p.Name, p.SKU, p.BatchNumber, p.Supplier)
		},
	)}
}

var _ repositories.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) ListLowStock(_ context.Context, storeID primitive.ObjectID) ([]models.Product, error) {
	out := r.t.filter(func(p *models.Product) bool { return p.StoreID == storeID && p.LowStock() })
	sortBy(out, func(a, b *models.Product) bool { return a.Quantity < b.Quantity })
	return out, nil
}

func (r *ProductRepository) AdjustQuantity(_ context.Context, storeID, id primitive.ObjectID, delta int) error {
	_, err := r.t.mutate(r.byID(storeID, id), func(p *models.Product) bool {
		if p.Quantity+delta < 0 {
			return false
		}
		p.Quantity += delta
		p.UpdatedAt = time.Now()
		return true
	})
	return err
}

type AuthenticationCodeRepository struct {
	*StoreScoped[models.AuthenticationCode]
}

func NewAuthenticationCodeRepository() *AuthenticationCodeRepository {
	return &AuthenticationCodeRepository{newStoreScoped(
		func(a *models.AuthenticationCode) primitive.ObjectID { return a.ID },
		func(a *models.AuthenticationCode) primitive.ObjectID { return a.StoreID },
		func(a, b *models.AuthenticationCode) bool { return a.Code == b.Code },
		func(a *models.AuthenticationCode, o repositories.ListOptions) bool {
			return eqOrEmpty(o.Status, string(a.Status)) &&
				o.InRange(a.CreatedAt) &&
				containsFold(o.Search, a.Code, a.ProductName, a.BatchNumber)
		},
	)}
}

var _ repositories.AuthenticationCodeRepository = (*AuthenticationCodeRepository)(nil)

func (r *AuthenticationCodeRepository) CreateMany(_ context.Context, codes []models.AuthenticationCode) error {
	return r.t.insertMany(codes)
}

func (r *AuthenticationCodeRepository) RecordScan(_ context.Context, code string, at time.Time) (*models.AuthenticationCode, error) {
	return r.t.mutate(func(a *models.AuthenticationCode) bool { return a.Code == code }, func(a *models.AuthenticationCode) bool {
		a.ScanCount++
		a.LastScannedAt = &at
		if a.FirstScannedAt == nil {
			a.FirstScannedAt = &at
		}
		return true
	})
}
