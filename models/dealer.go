package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dealer is a dealership/branch record; the deal form copies it into the
// document's dealer section.
type Dealer struct {
	Id          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null;unique"`
	BranchId    string `json:"branch_id"`
	Salesperson string `json:"salesperson"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

func (dealer *Dealer) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if dealer.Id == "" {
		dealer.Id = uuid.NewString()
	}
	return
}
