package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a catalog entry the deal form picks from; the builder copies
// its fields into the document's customer section.
type Customer struct {
	Id            string `json:"id" gorm:"primaryKey"`
	Name          string `json:"name" gorm:"not null;unique"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" gorm:"index"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	City          string `json:"city"`
	Region        string `json:"region"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	Active        bool   `json:"-"`
}

func (customer *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if customer.Id == "" {
		customer.Id = uuid.NewString()
	}
	return
}
