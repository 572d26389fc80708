package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/dispensary_backend/config"
	"github.com/HSouheill/dispensary_backend/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID primitive.ObjectID, opts ListOptions) ([]models.Notification, int64, error)
	MarkRead(ctx context.Context, userID, id primitive.ObjectID) error
}

type MongoNotificationRepository struct {
	notifications collection[models.Notification]
}

func NewNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{notifications: newCollection[models.Notification](db, config.NotificationsCollection)}
}

func (r *MongoNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	return r.notifications.insert(ctx, n)
}

func (r *MongoNotificationRepository) List(ctx context.Context, userID primitive.ObjectID, opts ListOptions) ([]models.Notification, int64, error) {
	return r.notifications.findPage(ctx, bson.M{"userId": userID}, newestFirst, opts)
}

func (r *MongoNotificationRepository) MarkRead(ctx context.Context, userID, id primitive.ObjectID) error {
	return r.notifications.updateOne(ctx, bson.M{"_id": id, "userId": userID}, bson.M{
		"$set": bson.M{"isRead": true},
	})
}
