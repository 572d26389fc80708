package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/dispensary_backend/config"
	"github.com/HSouheill/dispensary_backend/models"
)

// CommissionFilter narrows the admin listing. Zero values do not filter.
type CommissionFilter struct {
	ResellerType models.ResellerType
	ResellerID   primitive.ObjectID
	Month        string
}

func (f CommissionFilter) Matches(c *models.Commission) bool {
	if f.ResellerType != "" && c.ResellerType != f.ResellerType {
		return false
	}
	if !f.ResellerID.IsZero() && c.ResellerID != f.ResellerID {
		return false
	}
	if f.Month != "" && c.Month != f.Month {
		return false
	}
	return true
}

func (f CommissionFilter) toBSON() bson.M {
	filter := bson.M{}
	if f.ResellerType != "" {
		filter["resellerType"] = f.ResellerType
	}
	if !f.ResellerID.IsZero() {
		filter["resellerId"] = f.ResellerID
	}
	if f.Month != "" {
		filter["month"] = f.Month
	}
	return filter
}

type CommissionRepository interface {
	// Create returns ErrDuplicate when the reseller already has a record for
	// the client and month
	Create(ctx context.Context, c *models.Commission) error
	// Update replaces the record only while it is still in status from and
	// returns ErrNotFound otherwise
	Update(ctx context.Context, c *models.Commission, from models.CommissionStatus) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Commission, error)
	List(ctx context.Context, f CommissionFilter, opts ListOptions) ([]models.Commission, int64, error)
	// ListAll returns every matching record, oldest month first
	ListAll(ctx context.Context, f CommissionFilter) ([]models.Commission, error)
}

var commissionFilters = filterSpec{
	search: []string{"clientName", "month"},
	status: "status",
}

type MongoCommissionRepository struct {
	commissions collection[models.Commission]
}

func NewCommissionRepository(db *mongo.Database) *MongoCommissionRepository {
	return &MongoCommissionRepository{commissions: newCollection[models.Commission](db, config.CommissionsCollection)}
}

func (r *MongoCommissionRepository) Create(ctx context.Context, c *models.Commission) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	return r.commissions.insert(ctx, c)
}

func (r *MongoCommissionRepository) Update(ctx context.Context, c *models.Commission, from models.CommissionStatus) error {
	return r.commissions.replaceOne(ctx, bson.M{"_id": c.ID, "status": from}, c)
}

func (r *MongoCommissionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Commission, error) {
	return r.commissions.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoCommissionRepository) List(ctx context.Context, f CommissionFilter, opts ListOptions) ([]models.Commission, int64, error) {
	filter := commissionFilters.apply(f.toBSON(), opts.Normalize())
	sort := bson.D{{Key: "month", Value: -1}, {Key: "createdAt", Value: -1}}
	return r.commissions.findPage(ctx, filter, sort, opts)
}

func (r *MongoCommissionRepository) ListAll(ctx context.Context, f CommissionFilter) ([]models.Commission, error) {
	sort := bson.D{{Key: "month", Value: 1}, {Key: "createdAt", Value: 1}}
	return r.commissions.findAll(ctx, f.toBSON(), sort)
}
