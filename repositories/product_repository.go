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

type ProductRepository interface {
	StoreScoped[models.Product]
	ListLowStock(ctx context.Context, storeID primitive.ObjectID) ([]models.Product, error)
	// AdjustQuantity adds delta to the stock level. A decrement that would
	// take stock below zero fails with ErrNotFound and changes nothing.
	AdjustQuantity(ctx context.Context, storeID, id primitive.ObjectID, delta int) error
}

type MongoProductRepository struct {
	mongoStoreScoped[models.Product]
}

func NewProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{mongoStoreScoped[models.Product]{
		coll: newCollection[models.Product](db, config.ProductsCollection),
		filters: filterSpec{
			search:   []string{"name", "sku", "batchNumber", "supplier"},
			category: "category",
		},
		sort: bson.D{{Key: "name", Value: 1}},
	}}
}

func (r *MongoProductRepository) ListLowStock(ctx context.Context, storeID primitive.ObjectID) ([]models.Product, error) {
	filter := bson.M{
		"storeId":  storeID,
		"isActive": true,
		"$expr":    bson.M{"$lte": bson.A{"$quantity", "$reorderLevel"}},
	}
	return r.coll.findAll(ctx, filter, bson.D{{Key: "quantity", Value: 1}})
}

func (r *MongoProductRepository) AdjustQuantity(ctx context.Context, storeID, id primitive.ObjectID, delta int) error {
	filter := scoped(storeID, id)
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}
	return r.coll.updateOne(ctx, filter, bson.M{
		"$inc": bson.M{"quantity": delta},
		"$set": bson.M{"updatedAt": time.Now()},
	})
}
