package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/dispensary_backend/config"
	"github.com/HSouheill/dispensary_backend/models"
)

type ExpenseRepository = StoreScoped[models.Expense]

type SaleRepository interface {
	StoreScoped[models.Sale]
	// SetStatus moves a sale from one status to another in a single write.
	// It returns ErrNotFound when the sale is missing or no longer in from.
	SetStatus(ctx context.Context, storeID, id primitive.ObjectID, from, to models.SaleStatus, at time.Time) (*models.Sale, error)
}

type DeliveryRepository = StoreScoped[models.Delivery]

func NewExpenseRepository(db *mongo.Database) ExpenseRepository {
	return &mongoStoreScoped[models.Expense]{
		coll: newCollection[models.Expense](db, config.ExpensesCollection),
		filters: filterSpec{
			search:   []string{"description", "vendor"},
			status:   "status",
			category: "category",
			date:     "date",
		},
		sort: bson.D{{Key: "date", Value: -1}},
	}
}

type mongoSaleRepository struct {
	*mongoStoreScoped[models.Sale]
}

func NewSaleRepository(db *mongo.Database) SaleRepository {
	return &mongoSaleRepository{&mongoStoreScoped[models.Sale]{
		coll: newCollection[models.Sale](db, config.SalesCollection),
		filters: filterSpec{
			search:   []string{"items.name"},
			status:   "status",
			category: "paymentMethod",
			date:     "createdAt",
		},
		sort: newestFirst,
	}}
}

func (r *mongoSaleRepository) SetStatus(ctx context.Context, storeID, id primitive.ObjectID, from, to models.SaleStatus, at time.Time) (*models.Sale, error) {
	filter := scoped(storeID, id)
	filter["status"] = from
	return r.coll.findOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"status": to, "updatedAt": at}})
}

func NewDeliveryRepository(db *mongo.Database) DeliveryRepository {
	return &mongoStoreScoped[models.Delivery]{
		coll: newCollection[models.Delivery](db, config.DeliveriesCollection),
		filters: filterSpec{
			search: []string{"customerName", "address"},
			status: "status",
			date:   "createdAt",
		},
		sort: newestFirst,
	}
}
