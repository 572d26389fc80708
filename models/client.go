package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
)

func (b BillingCycle) Valid() bool {
	switch b {
	case BillingMonthly, BillingYearly:
		return true
	}
	return false
}

func ParseBillingCycle(s string) (BillingCycle, error) {
	b := BillingCycle(s)
	if !b.Valid() {
		return "", enumError("billing cycle", s)
	}
	return b, nil
}

type ClientStatus string

const (
	ClientActive     ClientStatus = "ACTIVE"
	ClientInactive   ClientStatus = "INACTIVE"
	ClientSuspended  ClientStatus = "SUSPENDED"
	ClientTerminated ClientStatus = "TERMINATED"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientActive, ClientInactive, ClientSuspended, ClientTerminated:
		return true
	}
	return false
}

func ParseClientStatus(s string) (ClientStatus, error) {
	st := ClientStatus(s)
	if !st.Valid() {
		return "", enumError("client status", s)
	}
	return st, nil
}

// Client is a subscribing dispensary business
type Client struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string              `json:"name" bson:"name"`
	Email        string              `json:"email" bson:"email"`
	Phone        string              `json:"phone,omitempty" bson:"phone,omitempty"`
	BillingCycle BillingCycle        `json:"billingCycle" bson:"billingCycle"`
	MonthlyFee   Money               `json:"monthlyFee" bson:"monthlyFee"`
	YearlyFee    Money               `json:"yearlyFee" bson:"yearlyFee"`
	Status       ClientStatus        `json:"status" bson:"status"`
	PlanName     string              `json:"planName" bson:"planName"`
	StoreCount   int                 `json:"storeCount" bson:"storeCount"`
	StoreID      *primitive.ObjectID `json:"storeId,omitempty" bson:"storeId,omitempty"`
	PartnerID    *primitive.ObjectID `json:"partnerId,omitempty" bson:"partnerId,omitempty"`
	ConsultantID *primitive.ObjectID `json:"consultantId,omitempty" bson:"consultantId,omitempty"`
	CreatedAt    time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// ClientInput is the create/update payload for a client
type ClientInput struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone,omitempty"`
	BillingCycle string `json:"billingCycle" validate:"required"`
	MonthlyFee   Money  `json:"monthlyFee"`
	YearlyFee    Money  `json:"yearlyFee"`
	Status       string `json:"status,omitempty"`
	PlanName     string `json:"planName" validate:"required"`
	StoreCount   int    `json:"storeCount" validate:"gte=0"`
}
