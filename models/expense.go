package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ExpenseStatus string

const (
	ExpensePending ExpenseStatus = "PENDING"
	ExpensePaid    ExpenseStatus = "PAID"
)

func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpensePending, ExpensePaid:
		return true
	}
	return false
}

func ParseExpenseStatus(s string) (ExpenseStatus, error) {
	st := ExpenseStatus(s)
	if !st.Valid() {
		return "", enumError("expense status", s)
	}
	return st, nil
}

type Expense struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	StoreID       primitive.ObjectID `json:"storeId" bson:"storeId"`
	Category      string             `json:"category" bson:"category"`
	Description   string             `json:"description" bson:"description"`
	Amount        Money              `json:"amount" bson:"amount"`
	Date          time.Time          `json:"date" bson:"date"`
	Vendor        string             `json:"vendor,omitempty" bson:"vendor,omitempty"`
	PaymentMethod string             `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	Status        ExpenseStatus      `json:"status" bson:"status"`
	ReceiptURL    string             `json:"receiptUrl,omitempty" bson:"receiptUrl,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ExpenseInput struct {
	Category      string    `json:"category" validate:"required"`
	Description   string    `json:"description" validate:"required"`
	Amount        Money     `json:"amount"`
	Date          time.Time `json:"date"`
	Vendor        string    `json:"vendor,omitempty"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	Status        string    `json:"status,omitempty"`
	ReceiptURL    string    `json:"receiptUrl,omitempty" validate:"omitempty,url"`
}
