// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of account roles carried in the JWT
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleOwner      Role = "OWNER"
	RoleManager    Role = "MANAGER"
	RoleEmployee   Role = "EMPLOYEE"
	RoleDriver     Role = "DRIVER"
	RolePartner    Role = "PARTNER"
	RoleConsultant Role = "CONSULTANT"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleManager, RoleEmployee, RoleDriver, RolePartner, RoleConsultant:
		return true
	}
	return false
}

// StoreBound reports whether accounts with this role must belong to a store
func (r Role) StoreBound() bool {
	switch r {
	case RoleOwner, RoleManager, RoleEmployee, RoleDriver:
		return true
	case RoleAdmin, RolePartner, RoleConsultant:
		return false
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", enumError("role", s)
	}
	return r, nil
}

// User model
type User struct {
	ID         primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Email      string              `json:"email" bson:"email"`
	Password   string              `json:"-" bson:"password"`
	Name       string              `json:"name" bson:"name"`
	Role       Role                `json:"role" bson:"role"`
	StoreID    *primitive.ObjectID `json:"storeId,omitempty" bson:"storeId,omitempty"`
	ResellerID *primitive.ObjectID `json:"resellerId,omitempty" bson:"resellerId,omitempty"`
	IsActive   bool                `json:"isActive" bson:"isActive"`
	LastLogin  *time.Time          `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	CreatedAt  time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// StoreIDHex returns the tenant id or "" for accounts outside any store
func (u *User) StoreIDHex() string {
	if u.StoreID == nil {
		return ""
	}
	return u.StoreID.Hex()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser is the user view returned by the login endpoint
type LoginUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	StoreID string `json:"storeId,omitempty"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// ErrorBody is the error shape of the login contract
type ErrorBody struct {
	Error string `json:"error"`
}

type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Name       string `json:"name" validate:"required"`
	Role       string `json:"role" validate:"required"`
	StoreID    string `json:"storeId,omitempty"`
	ResellerID string `json:"resellerId,omitempty"`
}

// Response is the envelope used by every JSON endpoint except login
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Page wraps a list endpoint result
type Page struct {
	Items      interface{} `json:"items"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int64       `json:"totalPages"`
}

func NewPage(items interface{}, page, limit int, total int64) Page {
	var pages int64
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Page{Items: items, Page: page, Limit: limit, Total: total, TotalPages: pages}
}
