package memory

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
)

type UserRepository struct {
	t *table[models.User]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{t: newTable(
		func(u *models.User) primitive.ObjectID { return u.ID },
		func(a, b *models.User) bool { return a.Email == b.Email },
	)}
}

var _ repositories.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return r.t.insert(*u)
}

func (r *UserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.t.find(func(u *models.User) bool { return u.ID == id })
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.t.find(func(u *models.User) bool { return u.Email == email })
}

func (r *UserRepository) FindByReseller(_ context.Context, resellerID primitive.ObjectID) (*models.User, error) {
	return r.t.find(func(u *models.User) bool { return u.ResellerID != nil && *u.ResellerID == resellerID })
}

func (r *UserRepository) UpdateLastLogin(_ context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.t.mutate(func(u *models.User) bool { return u.ID == id }, func(u *models.User) bool {
		u.LastLogin = &at
		u.UpdatedAt = at
		return true
	})
	return err
}

type StoreRepository struct {
	t *table[models.Store]
}

func NewStoreRepository() *StoreRepository {
	return &StoreRepository{t: newTable(func(s *models.Store) primitive.ObjectID { return s.ID }, nil)}
}

var _ repositories.StoreRepository = (*StoreRepository)(nil)

func (r *StoreRepository) Create(_ context.Context, s *models.Store) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	return r.t.insert(*s)
}

func (r *StoreRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Store, error) {
	return r.t.find(func(s *models.Store) bool { return s.ID == id })
}

func (r *StoreRepository) UpdateSettings(_ context.Context, id primitive.ObjectID, settings models.StoreSettings) error {
	_, err := r.t.mutate(func(s *models.Store) bool { return s.ID == id }, func(s *models.Store) bool {
		s.Settings = settings
		s.UpdatedAt = time.Now()
		return true
	})
	return err
}

type NotificationRepository struct {
	t *table[models.Notification]
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{t: newTable(func(n *models.Notification) primitive.ObjectID { return n.ID }, nil)}
}

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(_ context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	return r.t.insert(*n)
}

func (r *NotificationRepository) List(_ context.Context, userID primitive.ObjectID, opts repositories.ListOptions) ([]models.Notification, int64, error) {
	items, total := r.t.page(func(n *models.Notification) bool { return n.UserID == userID }, opts)
	return items, total, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, userID, id primitive.ObjectID) error {
	_, err := r.t.mutate(func(n *models.Notification) bool { return n.ID == id && n.UserID == userID }, func(n *models.Notification) bool {
		n.IsRead = true
		return true
	})
	return err
}
