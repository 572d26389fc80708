package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/dispensary_backend/config"
	"github.com/HSouheill/dispensary_backend/models"
)

// ResellerRepository serves partners and consultants. Every call is scoped
// to one reseller type so a partner id never resolves to a consultant.
type ResellerRepository interface {
	Create(ctx context.Context, r *models.Reseller) error
	Update(ctx context.Context, r *models.Reseller) error
	Delete(ctx context.Context, typ models.ResellerType, id primitive.ObjectID) error
	FindByID(ctx context.Context, typ models.ResellerType, id primitive.ObjectID) (*models.Reseller, error)
	FindByReferralCode(ctx context.Context, code string) (*models.Reseller, error)
	List(ctx context.Context, typ models.ResellerType, opts ListOptions) ([]models.Reseller, int64, error)
	ListActive(ctx context.Context, typ models.ResellerType) ([]models.Reseller, error)
}

var resellerFilters = filterSpec{
	search:   []string{"name", "email", "company", "referralCode"},
	status:   "status",
	category: "tier",
}

type MongoResellerRepository struct {
	resellers collection[models.Reseller]
}

func NewResellerRepository(db *mongo.Database) *MongoResellerRepository {
	return &MongoResellerRepository{resellers: newCollection[models.Reseller](db, config.ResellersCollection)}
}

func (r *MongoResellerRepository) Create(ctx context.Context, rs *models.Reseller) error {
	if rs.ID.IsZero() {
		rs.ID = primitive.NewObjectID()
	}
	return r.resellers.insert(ctx, rs)
}

func (r *MongoResellerRepository) Update(ctx context.Context, rs *models.Reseller) error {
	return r.resellers.replaceOne(ctx, bson.M{"_id": rs.ID, "type": rs.Type}, rs)
}

func (r *MongoResellerRepository) Delete(ctx context.Context, typ models.ResellerType, id primitive.ObjectID) error {
	return r.resellers.deleteOne(ctx, bson.M{"_id": id, "type": typ})
}

func (r *MongoResellerRepository) FindByID(ctx context.Context, typ models.ResellerType, id primitive.ObjectID) (*models.Reseller, error) {
	return r.resellers.findOne(ctx, bson.M{"_id": id, "type": typ})
}

func (r *MongoResellerRepository) FindByReferralCode(ctx context.Context, code string) (*models.Reseller, error) {
	return r.resellers.findOne(ctx, bson.M{"referralCode": code})
}

func (r *MongoResellerRepository) List(ctx context.Context, typ models.ResellerType, opts ListOptions) ([]models.Reseller, int64, error) {
	filter := resellerFilters.apply(bson.M{"type": typ}, opts.Normalize())
	return r.resellers.findPage(ctx, filter, newestFirst, opts)
}

func (r *MongoResellerRepository) ListActive(ctx context.Context, typ models.ResellerType) ([]models.Reseller, error) {
	return r.resellers.findAll(ctx, bson.M{"type": typ, "status": models.ResellerActive}, newestFirst)
}
