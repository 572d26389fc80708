package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is a dispensary tenant
type Store struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	LicenseNumber string             `json:"licenseNumber" bson:"licenseNumber"`
	Address       string             `json:"address" bson:"address"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Email         string             `json:"email,omitempty" bson:"email,omitempty"`
	Settings      StoreSettings      `json:"settings" bson:"settings"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type StoreSettings struct {
	TaxRate         float64           `json:"taxRate" bson:"taxRate" validate:"gte=0,lte=100"`
	Currency        string            `json:"currency" bson:"currency" validate:"omitempty,len=3"`
	Timezone        string            `json:"timezone" bson:"timezone"`
	DeliveryEnabled bool              `json:"deliveryEnabled" bson:"deliveryEnabled"`
	DeliveryFee     Money             `json:"deliveryFee" bson:"deliveryFee"`
	MinimumOrder    Money             `json:"minimumOrder" bson:"minimumOrder"`
	LoyaltyEnabled  bool              `json:"loyaltyEnabled" bson:"loyaltyEnabled"`
	OpeningHours    map[string]string `json:"openingHours,omitempty" bson:"openingHours,omitempty"`
}

// DefaultStoreSettings is what a store sees before saving settings for the first time
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		Currency: "USD",
		Timezone: "America/Los_Angeles",
	}
}
