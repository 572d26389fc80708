package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/dispensary_backend/config"
	"github.com/HSouheill/dispensary_backend/models"
)

// ClientOwner scopes client queries to one reseller
type ClientOwner struct {
	Type models.ResellerType
	ID   primitive.ObjectID
}

func (o ClientOwner) Owns(c *models.Client) bool {
	switch o.Type {
	case models.ResellerPartner:
		return c.PartnerID != nil && *c.PartnerID == o.ID
	case models.ResellerConsultant:
		return c.ConsultantID != nil && *c.ConsultantID == o.ID
	}
	return false
}

type ClientRepository interface {
	Create(ctx context.Context, c *models.Client) error
	Update(ctx context.Context, owner ClientOwner, c *models.Client) error
	Delete(ctx context.Context, owner ClientOwner, id primitive.ObjectID) error
	FindByID(ctx context.Context, owner ClientOwner, id primitive.ObjectID) (*models.Client, error)
	List(ctx context.Context, owner ClientOwner, opts ListOptions) ([]models.Client, int64, error)
	// ListAll returns every client of the owner regardless of status, for aggregation
	ListAll(ctx context.Context, owner ClientOwner) ([]models.Client, error)
}

var clientFilters = filterSpec{
	search: []string{"name", "email", "planName"},
	status: "status",
}

type MongoClientRepository struct {
	clients collection[models.Client]
}

func NewClientRepository(db *mongo.Database) *MongoClientRepository {
	return &MongoClientRepository{clients: newCollection[models.Client](db, config.ClientsCollection)}
}

func ownerFilter(owner ClientOwner) bson.M {
	return bson.M{owner.Type.ClientField(): owner.ID}
}

func (r *MongoClientRepository) Create(ctx context.Context, c *models.Client) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	return r.clients.insert(ctx, c)
}

func (r *MongoClientRepository) Update(ctx context.Context, owner ClientOwner, c *models.Client) error {
	filter := ownerFilter(owner)
	filter["_id"] = c.ID
	return r.clients.replaceOne(ctx, filter, c)
}

func (r *MongoClientRepository) Delete(ctx context.Context, owner ClientOwner, id primitive.ObjectID) error {
	filter := ownerFilter(owner)
	filter["_id"] = id
	return r.clients.deleteOne(ctx, filter)
}

func (r *MongoClientRepository) FindByID(ctx context.Context, owner ClientOwner, id primitive.ObjectID) (*models.Client, error) {
	filter := ownerFilter(owner)
	filter["_id"] = id
	return r.clients.findOne(ctx, filter)
}

func (r *MongoClientRepository) List(ctx context.Context, owner ClientOwner, opts ListOptions) ([]models.Client, int64, error) {
	filter := clientFilters.apply(ownerFilter(owner), opts.Normalize())
	return r.clients.findPage(ctx, filter, newestFirst, opts)
}

func (r *MongoClientRepository) ListAll(ctx context.Context, owner ClientOwner) ([]models.Client, error) {
	return r.clients.findAll(ctx, ownerFilter(owner), newestFirst)
}
