package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommissionStatus string

const (
	CommissionPending   CommissionStatus = "PENDING"
	CommissionApproved  CommissionStatus = "APPROVED"
	CommissionPaid      CommissionStatus = "PAID"
	CommissionFailed    CommissionStatus = "FAILED"
	CommissionCancelled CommissionStatus = "CANCELLED"
)

func (s CommissionStatus) Valid() bool {
	switch s {
	case CommissionPending, CommissionApproved, CommissionPaid, CommissionFailed, CommissionCancelled:
		return true
	}
	return false
}

func ParseCommissionStatus(s string) (CommissionStatus, error) {
	st := CommissionStatus(s)
	if !st.Valid() {
		return "", enumError("commission status", s)
	}
	return st, nil
}

// Commission is one reseller's commission on one client for one billing month
type Commission struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ResellerType     ResellerType       `json:"resellerType" bson:"resellerType"`
	ResellerID       primitive.ObjectID `json:"resellerId" bson:"resellerId"`
	ClientID         primitive.ObjectID `json:"clientId" bson:"clientId"`
	ClientName       string             `json:"clientName,omitempty" bson:"clientName,omitempty"`
	Amount           Money              `json:"amount" bson:"amount"`
	CommissionRate   float64            `json:"commissionRate" bson:"commissionRate"`
	CommissionAmount Money              `json:"commissionAmount" bson:"commissionAmount"`
	Month            string             `json:"month" bson:"month"`
	Status           CommissionStatus   `json:"status" bson:"status"`
	PaidDate         *time.Time         `json:"paidDate,omitempty" bson:"paidDate,omitempty"`
	PaymentMethod    string             `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	Notes            string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CommissionInput struct {
	ResellerID string `json:"resellerId" validate:"required"`
	ClientID   string `json:"clientId" validate:"required"`
	Amount     Money  `json:"amount"`
	// Rate falls back to the reseller's rate when omitted; 0 is a valid rate
	Rate  *float64 `json:"commissionRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	Month string   `json:"month" validate:"required"`
	Notes string   `json:"notes,omitempty"`
}

type CommissionStatusInput struct {
	Status        string `json:"status" validate:"required"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	Notes         string `json:"notes,omitempty"`
}
