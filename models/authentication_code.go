package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuthenticationCodeStatus string

const (
	AuthCodeActive  AuthenticationCodeStatus = "ACTIVE"
	AuthCodeRevoked AuthenticationCodeStatus = "REVOKED"
)

func (s AuthenticationCodeStatus) Valid() bool {
	switch s {
	case AuthCodeActive, AuthCodeRevoked:
		return true
	}
	return false
}

// AuthenticationCode is a QR code printed on a package so buyers can verify
// the product came from a licensed store
type AuthenticationCode struct {
	ID             primitive.ObjectID       `json:"id,omitempty" bson:"_id,omitempty"`
	StoreID        primitive.ObjectID       `json:"storeId" bson:"storeId"`
	ProductID      primitive.ObjectID       `json:"productId" bson:"productId"`
	ProductName    string                   `json:"productName" bson:"productName"`
	BatchNumber    string                   `json:"batchNumber,omitempty" bson:"batchNumber,omitempty"`
	Code           string                   `json:"code" bson:"code"`
	Status         AuthenticationCodeStatus `json:"status" bson:"status"`
	ScanCount      int                      `json:"scanCount" bson:"scanCount"`
	FirstScannedAt *time.Time               `json:"firstScannedAt,omitempty" bson:"firstScannedAt,omitempty"`
	LastScannedAt  *time.Time               `json:"lastScannedAt,omitempty" bson:"lastScannedAt,omitempty"`
	CreatedAt      time.Time                `json:"createdAt" bson:"createdAt"`
}

type AuthenticationCodeRequest struct {
	ProductID   string `json:"productId" validate:"required"`
	BatchNumber string `json:"batchNumber,omitempty"`
	Count       int    `json:"count" validate:"required,gte=1,lte=500"`
}

// VerificationResult is what the public verify endpoint returns to a scanner
type VerificationResult struct {
	Authentic      bool       `json:"authentic"`
	Code           string     `json:"code"`
	ProductName    string     `json:"productName,omitempty"`
	BatchNumber    string     `json:"batchNumber,omitempty"`
	StoreName      string     `json:"storeName,omitempty"`
	ScanCount      int        `json:"scanCount"`
	FirstScannedAt *time.Time `json:"firstScannedAt,omitempty"`
	Warning        string     `json:"warning,omitempty"`
}
