package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryAssigned  DeliveryStatus = "ASSIGNED"
	DeliveryInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryCancelled DeliveryStatus = "CANCELLED"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryPending, DeliveryAssigned, DeliveryInTransit, DeliveryDelivered, DeliveryCancelled:
		return true
	}
	return false
}

func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	st := DeliveryStatus(s)
	if !st.Valid() {
		return "", enumError("delivery status", s)
	}
	return st, nil
}

// CanTransitionTo reports whether a delivery may move from s to next
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	switch s {
	case DeliveryPending:
		return next == DeliveryAssigned || next == DeliveryCancelled
	case DeliveryAssigned:
		return next == DeliveryInTransit || next == DeliveryPending || next == DeliveryCancelled
	case DeliveryInTransit:
		return next == DeliveryDelivered || next == DeliveryCancelled
	case DeliveryDelivered, DeliveryCancelled:
		return false
	}
	return false
}

type Delivery struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	StoreID      primitive.ObjectID  `json:"storeId" bson:"storeId"`
	SaleID       *primitive.ObjectID `json:"saleId,omitempty" bson:"saleId,omitempty"`
	CustomerName string              `json:"customerName" bson:"customerName"`
	Address      string              `json:"address" bson:"address"`
	Phone        string              `json:"phone,omitempty" bson:"phone,omitempty"`
	DriverID     *primitive.ObjectID `json:"driverId,omitempty" bson:"driverId,omitempty"`
	Status       DeliveryStatus      `json:"status" bson:"status"`
	ScheduledFor *time.Time          `json:"scheduledFor,omitempty" bson:"scheduledFor,omitempty"`
	DeliveredAt  *time.Time          `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	Fee          Money               `json:"fee" bson:"fee"`
	Notes        string              `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt    time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type DeliveryInput struct {
	SaleID       string     `json:"saleId,omitempty"`
	CustomerName string     `json:"customerName" validate:"required"`
	Address      string     `json:"address" validate:"required"`
	Phone        string     `json:"phone,omitempty"`
	DriverID     string     `json:"driverId,omitempty"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
	Fee          Money      `json:"fee"`
	Notes        string     `json:"notes,omitempty"`
}

type DeliveryStatusInput struct {
	Status   string `json:"status" validate:"required"`
	DriverID string `json:"driverId,omitempty"`
}
