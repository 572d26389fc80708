package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "CASH"
	PaymentCard  PaymentMethod = "CARD"
	PaymentDebit PaymentMethod = "DEBIT"
	PaymentOther PaymentMethod = "OTHER"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentDebit, PaymentOther:
		return true
	}
	return false
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	p := PaymentMethod(s)
	if !p.Valid() {
		return "", enumError("payment method", s)
	}
	return p, nil
}

type SaleStatus string

const (
	SaleCompleted SaleStatus = "COMPLETED"
	SaleRefunded  SaleStatus = "REFUNDED"
	SaleVoided    SaleStatus = "VOIDED"
)

func (s SaleStatus) Valid() bool {
	switch s {
	case SaleCompleted, SaleRefunded, SaleVoided:
		return true
	}
	return false
}

// CountsAsRevenue reports whether a sale in this state contributes to revenue totals
func (s SaleStatus) CountsAsRevenue() bool {
	switch s {
	case SaleCompleted:
		return true
	case SaleRefunded, SaleVoided:
		return false
	}
	return false
}

func ParseSaleStatus(s string) (SaleStatus, error) {
	st := SaleStatus(s)
	if !st.Valid() {
		return "", enumError("sale status", s)
	}
	return st, nil
}

type SaleItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Name      string             `json:"name" bson:"name"`
	Quantity  int                `json:"quantity" bson:"quantity" validate:"gt=0"`
	UnitPrice Money              `json:"unitPrice" bson:"unitPrice"`
}

// LineTotal is quantity × unit price
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Decimal().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Sale struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	StoreID       primitive.ObjectID  `json:"storeId" bson:"storeId"`
	Items         []SaleItem          `json:"items" bson:"items"`
	Subtotal      Money               `json:"subtotal" bson:"subtotal"`
	Tax           Money               `json:"tax" bson:"tax"`
	Discount      Money               `json:"discount" bson:"discount"`
	Total         Money               `json:"total" bson:"total"`
	PaymentMethod PaymentMethod       `json:"paymentMethod" bson:"paymentMethod"`
	CustomerID    *primitive.ObjectID `json:"customerId,omitempty" bson:"customerId,omitempty"`
	EmployeeID    primitive.ObjectID  `json:"employeeId" bson:"employeeId"`
	Status        SaleStatus          `json:"status" bson:"status"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type SaleInput struct {
	Items         []SaleItem `json:"items" validate:"required,min=1,dive"`
	Discount      Money      `json:"discount"`
	PaymentMethod string     `json:"paymentMethod" validate:"required"`
	CustomerID    string     `json:"customerId,omitempty"`
}
