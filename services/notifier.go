package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/logger"
	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
	"github.com/HSouheill/dispensary_backend/websocket"
)

// Message is one notification addressed to a user
type Message struct {
	UserID primitive.ObjectID
	Email  string
	Title  string
	Body   string
	Type   string
	Data   interface{}
}

// Notifier stores an in-app notification, pushes it over the websocket
// when the user is online and mails it when an address is known. Only the
// database write can fail the call.
type Notifier struct {
	notifications repositories.NotificationRepository
	hub           *websocket.Hub
	mailer        Mailer
	now           func() time.Time
}

func NewNotifier(repo repositories.NotificationRepository, hub *websocket.Hub, mailer Mailer) *Notifier {
	return &Notifier{notifications: repo, hub: hub, mailer: mailer, now: time.Now}
}

func (n *Notifier) Notify(ctx context.Context, msg Message) error {
	if n == nil {
		return nil
	}

	record := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    msg.UserID,
		Title:     msg.Title,
		Message:   msg.Body,
		Type:      msg.Type,
		Data:      msg.Data,
		CreatedAt: n.now(),
	}
	if err := n.notifications.Create(ctx, &record); err != nil {
		return err
	}

	if n.hub != nil {
		err := n.hub.SendToUser(msg.UserID, websocket.Notification{
			Type:    msg.Type,
			Title:   msg.Title,
			Message: msg.Body,
			Data:    msg.Data,
		})
		if err != nil && !errors.Is(err, websocket.ErrNotConnected) {
			logger.WithError(err).Warn("failed to push notification")
		}
	}

	if n.mailer != nil && msg.Email != "" {
		// sent in the background
		go func(to, subject, body string) {
			if err := n.mailer.Send(to, subject, body); err != nil {
				logger.WithError(err).Warn("failed to email notification")
			}
		}(msg.Email, msg.Title, msg.Body)
	}
	return nil
}
