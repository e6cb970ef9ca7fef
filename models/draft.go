package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Draft holds one serialized in-progress deal document. Payload is the draft
// codec's JSON form; the storage layer never looks inside it.
type Draft struct {
	ID        string         `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null;index"`
	Payload   datatypes.JSON `json:"payload" gorm:"type:jsonb"`
	CreatedBy string         `json:"created_by" gorm:"index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (draft *Draft) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	draft.ID = uuid.NewString()
	return
}
