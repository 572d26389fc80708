package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductCategory string

const (
	CategoryFlower      ProductCategory = "FLOWER"
	CategoryPreRoll     ProductCategory = "PRE_ROLL"
	CategoryEdible      ProductCategory = "EDIBLE"
	CategoryConcentrate ProductCategory = "CONCENTRATE"
	CategoryVape        ProductCategory = "VAPE"
	CategoryTopical     ProductCategory = "TOPICAL"
	CategoryTincture    ProductCategory = "TINCTURE"
	CategoryAccessory   ProductCategory = "ACCESSORY"
	CategoryOther       ProductCategory = "OTHER"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryFlower, CategoryPreRoll, CategoryEdible, CategoryConcentrate, CategoryVape,
		CategoryTopical, CategoryTincture, CategoryAccessory, CategoryOther:
		return true
	}
	return false
}

func ParseProductCategory(s string) (ProductCategory, error) {
	c := ProductCategory(s)
	if !c.Valid() {
		return "", enumError("product category", s)
	}
	return c, nil
}

// Product is an inventory item held by one store
type Product struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	StoreID      primitive.ObjectID `json:"storeId" bson:"storeId"`
	Name         string             `json:"name" bson:"name"`
	SKU          string             `json:"sku" bson:"sku"`
	Category     ProductCategory    `json:"category" bson:"category"`
	StrainType   string             `json:"strainType,omitempty" bson:"strainType,omitempty"`
	THC          float64            `json:"thc" bson:"thc"`
	CBD          float64            `json:"cbd" bson:"cbd"`
	Price        Money              `json:"price" bson:"price"`
	Cost         Money              `json:"cost" bson:"cost"`
	Quantity     int                `json:"quantity" bson:"quantity"`
	ReorderLevel int                `json:"reorderLevel" bson:"reorderLevel"`
	BatchNumber  string             `json:"batchNumber,omitempty" bson:"batchNumber,omitempty"`
	Supplier     string             `json:"supplier,omitempty" bson:"supplier,omitempty"`
	IsActive     bool               `json:"isActive" bson:"isActive"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// LowStock reports whether the product is at or below its reorder level
func (p *Product) LowStock() bool {
	return p.IsActive && p.Quantity <= p.ReorderLevel
}

type ProductInput struct {
	Name         string  `json:"name" validate:"required"`
	SKU          string  `json:"sku" validate:"required"`
	Category     string  `json:"category" validate:"required"`
	StrainType   string  `json:"strainType,omitempty"`
	THC          float64 `json:"thc" validate:"gte=0,lte=100"`
	CBD          float64 `json:"cbd" validate:"gte=0,lte=100"`
	Price        Money   `json:"price"`
	Cost         Money   `json:"cost"`
	Quantity     int     `json:"quantity" validate:"gte=0"`
	ReorderLevel int     `json:"reorderLevel" validate:"gte=0"`
	BatchNumber  string  `json:"batchNumber,omitempty"`
	Supplier     string  `json:"supplier,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}
