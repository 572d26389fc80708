package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/dispensary_backend/config"
	"github.com/HSouheill/dispensary_backend/models"
)

type ReferralRepository interface {
	Create(ctx context.Context, r *models.Referral) error
	// Update replaces the referral only while it is still in status from and
	// returns ErrNotFound otherwise
	Update(ctx context.Context, r *models.Referral, from models.ReferralStatus) error
	FindByID(ctx context.Context, partnerID, id primitive.ObjectID) (*models.Referral, error)
	List(ctx context.Context, partnerID primitive.ObjectID, opts ListOptions) ([]models.Referral, int64, error)
}

var referralFilters = filterSpec{
	search: []string{"referredEmail", "referredName", "businessName"},
	status: "status",
	date:   "createdAt",
}

type MongoReferralRepository struct {
	referrals collection[models.Referral]
}

func NewReferralRepository(db *mongo.Database) *MongoReferralRepository {
	return &MongoReferralRepository{referrals: newCollection[models.Referral](db, config.ReferralsCollection)}
}

func (r *MongoReferralRepository) Create(ctx context.Context, ref *models.Referral) error {
	if ref.ID.IsZero() {
		ref.ID = primitive.NewObjectID()
	}
	return r.referrals.insert(ctx, ref)
}

func (r *MongoReferralRepository) Update(ctx context.Context, ref *models.Referral, from models.ReferralStatus) error {
	return r.referrals.replaceOne(ctx, bson.M{"_id": ref.ID, "partnerId": ref.PartnerID, "status": from}, ref)
}

func (r *MongoReferralRepository) FindByID(ctx context.Context, partnerID, id primitive.ObjectID) (*models.Referral, error) {
	return r.referrals.findOne(ctx, bson.M{"_id": id, "partnerId": partnerID})
}

func (r *MongoReferralRepository) List(ctx context.Context, partnerID primitive.ObjectID, opts ListOptions) ([]models.Referral, int64, error) {
	filter := referralFilters.apply(bson.M{"partnerId": partnerID}, opts.Normalize())
	return r.referrals.findPage(ctx, filter, newestFirst, opts)
}
