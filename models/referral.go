package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReferralStatus string

const (
	ReferralPending   ReferralStatus = "PENDING"
	ReferralContacted ReferralStatus = "CONTACTED"
	ReferralConverted ReferralStatus = "CONVERTED"
	ReferralLost      ReferralStatus = "LOST"
	ReferralCancelled ReferralStatus = "CANCELLED"
)

func (s ReferralStatus) Valid() bool {
	switch s {
	case ReferralPending, ReferralContacted, ReferralConverted, ReferralLost, ReferralCancelled:
		return true
	}
	return false
}

func ParseReferralStatus(s string) (ReferralStatus, error) {
	st := ReferralStatus(s)
	if !st.Valid() {
		return "", enumError("referral status", s)
	}
	return st, nil
}

// CanTransitionTo reports whether a referral may move from s to next
func (s ReferralStatus) CanTransitionTo(next ReferralStatus) bool {
	switch s {
	case ReferralPending:
		return next == ReferralContacted || next == ReferralConverted || next == ReferralLost || next == ReferralCancelled
	case ReferralContacted:
		return next == ReferralConverted || next == ReferralLost || next == ReferralCancelled
	case ReferralConverted, ReferralLost, ReferralCancelled:
		return false
	}
	return false
}

// Referral is a lead a partner brought to the platform
type Referral struct {
	ID               primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	PartnerID        primitive.ObjectID  `json:"partnerId" bson:"partnerId"`
	ReferredEmail    string              `json:"referredEmail" bson:"referredEmail"`
	ReferredName     string              `json:"referredName,omitempty" bson:"referredName,omitempty"`
	BusinessName     string              `json:"businessName,omitempty" bson:"businessName,omitempty"`
	Status           ReferralStatus      `json:"status" bson:"status"`
	ConversionDate   *time.Time          `json:"conversionDate,omitempty" bson:"conversionDate,omitempty"`
	CommissionAmount Money               `json:"commissionAmount" bson:"commissionAmount"`
	Plan             string              `json:"plan,omitempty" bson:"plan,omitempty"`
	ClientID         *primitive.ObjectID `json:"clientId,omitempty" bson:"clientId,omitempty"`
	Notes            string              `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt        time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type ReferralInput struct {
	ReferredEmail string `json:"referredEmail" validate:"required,email"`
	ReferredName  string `json:"referredName,omitempty"`
	BusinessName  string `json:"businessName,omitempty"`
	Plan          string `json:"plan,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// ReferralUpdateInput moves a referral along its pipeline. Converting with a
// billing cycle and fee also creates the attributed client.
type ReferralUpdateInput struct {
	Status       string `json:"status" validate:"required"`
	Notes        string `json:"notes,omitempty"`
	Plan         string `json:"plan,omitempty"`
	BillingCycle string `json:"billingCycle,omitempty"`
	Fee          Money  `json:"fee"`
	StoreCount   int    `json:"storeCount,omitempty"`
}
