package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/dispensary_backend/config"
	"github.com/HSouheill/dispensary_backend/models"
)

type OnboardingRepository interface {
	Create(ctx context.Context, o *models.OnboardingRecord) error
	Update(ctx context.Context, o *models.OnboardingRecord) error
	FindByID(ctx context.Context, owner ClientOwner, id primitive.ObjectID) (*models.OnboardingRecord, error)
	List(ctx context.Context, owner ClientOwner, opts ListOptions) ([]models.OnboardingRecord, int64, error)
}

type MongoOnboardingRepository struct {
	records collection[models.OnboardingRecord]
}

func NewOnboardingRepository(db *mongo.Database) *MongoOnboardingRepository {
	return &MongoOnboardingRepository{records: newCollection[models.OnboardingRecord](db, config.OnboardingCollection)}
}

func onboardingOwner(owner ClientOwner) bson.M {
	return bson.M{"resellerType": owner.Type, "resellerId": owner.ID}
}

func (r *MongoOnboardingRepository) Create(ctx context.Context, o *models.OnboardingRecord) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	return r.records.insert(ctx, o)
}

func (r *MongoOnboardingRepository) Update(ctx context.Context, o *models.OnboardingRecord) error {
	filter := onboardingOwner(ClientOwner{Type: o.ResellerType, ID: o.ResellerID})
	filter["_id"] = o.ID
	return r.records.replaceOne(ctx, filter, o)
}

func (r *MongoOnboardingRepository) FindByID(ctx context.Context, owner ClientOwner, id primitive.ObjectID) (*models.OnboardingRecord, error) {
	filter := onboardingOwner(owner)
	filter["_id"] = id
	return r.records.findOne(ctx, filter)
}

func (r *MongoOnboardingRepository) List(ctx context.Context, owner ClientOwner, opts ListOptions) ([]models.OnboardingRecord, int64, error) {
	filter := filterSpec{status: "status"}.apply(onboardingOwner(owner), opts.Normalize())
	return r.records.findPage(ctx, filter, newestFirst, opts)
}
