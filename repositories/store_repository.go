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

type StoreRepository interface {
	Create(ctx context.Context, s *models.Store) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Store, error)
	UpdateSettings(ctx context.Context, id primitive.ObjectID, settings models.StoreSettings) error
}

type MongoStoreRepository struct {
	stores collection[models.Store]
}

func NewStoreRepository(db *mongo.Database) *MongoStoreRepository {
	return &MongoStoreRepository{stores: newCollection[models.Store](db, config.StoresCollection)}
}

func (r *MongoStoreRepository) Create(ctx context.Context, s *models.Store) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	return r.stores.insert(ctx, s)
}

func (r *MongoStoreRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Store, error) {
	return r.stores.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoStoreRepository) UpdateSettings(ctx context.Context, id primitive.ObjectID, settings models.StoreSettings) error {
	return r.stores.updateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"settings": settings, "updatedAt": time.Now()},
	})
}
