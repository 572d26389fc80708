package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResellerType separates the two reseller hierarchies sharing the resellers collection
type ResellerType string

const (
	ResellerPartner    ResellerType = "PARTNER"
	ResellerConsultant ResellerType = "CONSULTANT"
)

func (t ResellerType) Valid() bool {
	switch t {
	case ResellerPartner, ResellerConsultant:
		return true
	}
	return false
}

func ParseResellerType(s string) (ResellerType, error) {
	t := ResellerType(s)
	if !t.Valid() {
		return "", enumError("reseller type", s)
	}
	return t, nil
}

// Role returns the account role that owns a reseller of this type
func (t ResellerType) Role() Role {
	switch t {
	case ResellerPartner:
		return RolePartner
	case ResellerConsultant:
		return RoleConsultant
	}
	return ""
}

// ClientField is the clients collection field attributing a client to this type
func (t ResellerType) ClientField() string {
	switch t {
	case ResellerPartner:
		return "partnerId"
	case ResellerConsultant:
		return "consultantId"
	}
	return ""
}

type Tier string

const (
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

func (t Tier) Valid() bool {
	switch t {
	case TierBronze, TierSilver, TierGold, TierPlatinum:
		return true
	}
	return false
}

func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", enumError("tier", s)
	}
	return t, nil
}

type ResellerStatus string

const (
	ResellerPending   ResellerStatus = "PENDING"
	ResellerActive    ResellerStatus = "ACTIVE"
	ResellerSuspended ResellerStatus = "SUSPENDED"
)

func (s ResellerStatus) Valid() bool {
	switch s {
	case ResellerPending, ResellerActive, ResellerSuspended:
		return true
	}
	return false
}

func ParseResellerStatus(s string) (ResellerStatus, error) {
	st := ResellerStatus(s)
	if !st.Valid() {
		return "", enumError("reseller status", s)
	}
	return st, nil
}

// Branding is the white-label identity a reseller presents to its clients
type Branding struct {
	CompanyName    string `json:"companyName,omitempty" bson:"companyName,omitempty"`
	LogoURL        string `json:"logoUrl,omitempty" bson:"logoUrl,omitempty" validate:"omitempty,url"`
	PrimaryColor   string `json:"primaryColor,omitempty" bson:"primaryColor,omitempty" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondaryColor,omitempty" bson:"secondaryColor,omitempty" validate:"omitempty,hexcolor"`
	AccentColor    string `json:"accentColor,omitempty" bson:"accentColor,omitempty" validate:"omitempty,hexcolor"`
	SupportEmail   string `json:"supportEmail,omitempty" bson:"supportEmail,omitempty" validate:"omitempty,email"`
	SupportPhone   string `json:"supportPhone,omitempty" bson:"supportPhone,omitempty"`
	CustomCSS      string `json:"customCss,omitempty" bson:"customCss,omitempty"`
}

// Reseller is either a partner (affiliate) or a consultant (in-house reseller)
type Reseller struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Type              ResellerType       `json:"type" bson:"type"`
	Name              string             `json:"name" bson:"name"`
	Email             string             `json:"email" bson:"email"`
	Phone             string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Company           string             `json:"company,omitempty" bson:"company,omitempty"`
	Region            string             `json:"region,omitempty" bson:"region,omitempty"`
	CommissionRate    float64            `json:"commissionRate" bson:"commissionRate"`
	Tier              Tier               `json:"tier" bson:"tier"`
	ReferralCode      string             `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	Status            ResellerStatus     `json:"status" bson:"status"`
	WhiteLabelEnabled bool               `json:"whiteLabelEnabled" bson:"whiteLabelEnabled"`
	CustomDomain      string             `json:"customDomain,omitempty" bson:"customDomain,omitempty"`
	Branding          Branding           `json:"branding" bson:"branding"`
	PaymentMethod     string             `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ResellerInput is the admin create/update payload. A nil CommissionRate
// means "use the tier default".
type ResellerInput struct {
	Name           string   `json:"name" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	Phone          string   `json:"phone,omitempty"`
	Company        string   `json:"company,omitempty"`
	Region         string   `json:"region,omitempty"`
	CommissionRate *float64 `json:"commissionRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	Tier           string   `json:"tier" validate:"required"`
	Status         string   `json:"status,omitempty"`
	PaymentMethod  string   `json:"paymentMethod,omitempty"`
}

// WhiteLabelInput toggles white-label mode and updates the branding
type WhiteLabelInput struct {
	Enabled      bool     `json:"enabled"`
	CustomDomain string   `json:"customDomain,omitempty" validate:"omitempty,fqdn"`
	Branding     Branding `json:"branding"`
}
