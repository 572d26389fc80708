package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/dispensary_backend/config"
	"github.com/HSouheill/dispensary_backend/models"
)

type AuthenticationCodeRepository interface {
	StoreScoped[models.AuthenticationCode]
	CreateMany(ctx context.Context, codes []models.AuthenticationCode) error
	// RecordScan bumps the scan counter of an existing code and returns it
	// after the update
	RecordScan(ctx context.Context, code string, at time.Time) (*models.AuthenticationCode, error)
}

type MongoAuthenticationCodeRepository struct {
	mongoStoreScoped[models.AuthenticationCode]
}

func NewAuthenticationCodeRepository(db *mongo.Database) *MongoAuthenticationCodeRepository {
	return &MongoAuthenticationCodeRepository{mongoStoreScoped[models.AuthenticationCode]{
		coll: newCollection[models.AuthenticationCode](db, config.AuthenticationCodesCollection),
		filters: filterSpec{
			search: []string{"code", "productName", "batchNumber"},
			status: "status",
			date:   "createdAt",
		},
		sort: newestFirst,
	}}
}

func (r *MongoAuthenticationCodeRepository) CreateMany(ctx context.Context, codes []models.AuthenticationCode) error {
	return r.coll.insertMany(ctx, codes)
}

func (r *MongoAuthenticationCodeRepository) RecordScan(ctx context.Context, code string, at time.Time) (*models.AuthenticationCode, error) {
	// $min keeps the first scan time once set
	return r.coll.findOneAndUpdate(ctx, bson.M{"code": code}, bson.M{
		"$inc": bson.M{"scanCount": 1},
		"$set": bson.M{"lastScannedAt": at},
		"$min": bson.M{"firstScannedAt": at},
	})
}
