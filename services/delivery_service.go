package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
	"github.com/HSouheill/dispensary_backend/utils"
)

type DeliveryService struct {
	deliveries repositories.DeliveryRepository
	sales      repositories.SaleRepository
	now        func() time.Time
}

func NewDeliveryService(deliveries repositories.DeliveryRepository, sales repositories.SaleRepository) *DeliveryService {
	return &DeliveryService{deliveries: deliveries, sales: sales, now: time.Now}
}

func (s *DeliveryService) List(ctx context.Context, storeID primitive.ObjectID, opts repositories.ListOptions) ([]models.Delivery, int64, error) {
	return s.deliveries.List(ctx, storeID, opts)
}

// Create schedules a delivery. A delivery created with a driver starts ASSIGNED.
func (s *DeliveryService) Create(ctx context.Context, storeID primitive.ObjectID, in models.DeliveryInput) (*models.Delivery, error) {
	now := s.now()
	d := models.Delivery{
		ID:        primitive.NewObjectID(),
		StoreID:   storeID,
		Status:    models.DeliveryPending,
		CreatedAt: now,
	}
	if err := s.apply(ctx, storeID, &d, in); err != nil {
		return nil, err
	}
	if d.DriverID != nil {
		d.Status = models.DeliveryAssigned
	}
	d.UpdatedAt = now

	if err := s.deliveries.Create(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DeliveryService) Update(ctx context.Context, storeID, id primitive.ObjectID, in models.DeliveryInput) (*models.Delivery, error) {
	d, err := s.deliveries.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, storeID, d, in); err != nil {
		return nil, err
	}
	d.UpdatedAt = s.now()
	if err := s.deliveries.Update(ctx, storeID, id, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DeliveryService) Delete(ctx context.Context, storeID, id primitive.ObjectID) error {
	return s.deliveries.Delete(ctx, storeID, id)
}

// UpdateStatus moves a delivery along PENDING → ASSIGNED → IN_TRANSIT →
// DELIVERED. Assigning needs a driver; delivering stamps deliveredAt.
func (s *DeliveryService) UpdateStatus(ctx context.Context, storeID, id primitive.ObjectID, in models.DeliveryStatusInput) (*models.Delivery, error) {
	to, err := models.ParseDeliveryStatus(in.Status)
	if err != nil {
		return nil, err
	}
	d, err := s.deliveries.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if !d.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidDelivery, d.Status, to)
	}

	if in.DriverID != "" {
		driverID, err := primitive.ObjectIDFromHex(in.DriverID)
		if err != nil {
			return nil, fmt.Errorf("%w: driver id", ErrInvalidID)
		}
		d.DriverID = &driverID
	}

	now := s.now()
	switch to {
	case models.DeliveryAssigned:
		if d.DriverID == nil {
			return nil, fmt.Errorf("%w: a driver is required", ErrInvalidDelivery)
		}
	case models.DeliveryPending:
		d.DriverID = nil
	case models.DeliveryDelivered:
		d.DeliveredAt = &now
	}
	d.Status = to
	d.UpdatedAt = now

	if err := s.deliveries.Update(ctx, storeID, id, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DeliveryService) apply(ctx context.Context, storeID primitive.ObjectID, d *models.Delivery, in models.DeliveryInput) error {
	if in.Fee.IsNegative() {
		return &models.InvalidAmountError{Value: in.Fee.String()}
	}
	phone, err := cleanPhone(in.Phone)
	if err != nil {
		return err
	}
	d.CustomerName = strings.TrimSpace(in.CustomerName)
	d.Address = strings.TrimSpace(in.Address)
	d.Phone = phone
	d.ScheduledFor = in.ScheduledFor
	d.Fee = in.Fee
	d.Notes = utils.SanitizeInput(in.Notes)

	d.SaleID = nil
	if in.SaleID != "" {
		saleID, err := primitive.ObjectIDFromHex(in.SaleID)
		if err != nil {
			return fmt.Errorf("%w: sale id", ErrInvalidID)
		}
		// the sale must belong to the same store
		if _, err := s.sales.FindByID(ctx, storeID, saleID); err != nil {
			return fmt.Errorf("sale %s: %w", in.SaleID, err)
		}
		d.SaleID = &saleID
	}
	if in.DriverID != "" {
		driverID, err := primitive.ObjectIDFromHex(in.DriverID)
		if err != nil {
			return fmt.Errorf("%w: driver id", ErrInvalidID)
		}
		d.DriverID = &driverID
	}
	return nil
}
