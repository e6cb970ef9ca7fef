package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a price book entry (equipment or part) used to prefill line
// items. UnitPrice is a starting point; the deal's line item price wins.
type Product struct {
	Id          string  `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description"`
	Category    string  `json:"category" gorm:"index"` // equipment | part
	SKU         string  `json:"sku" gorm:"index"`
	UnitPrice   float64 `json:"unit_price"`
	Active      bool    `json:"-"`
}

func (product *Product) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	product.Id = uuid.NewString()
	return
}
