package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Instructor struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"size:150;not null" json:"name"`
	NationalID string    `gorm:"size:14;not null;uniqueIndex" json:"national_id"`
	Phone      string    `gorm:"size:20" json:"phone"`
	Email      string    `gorm:"size:150;not null;uniqueIndex" json:"email"`
	Specialty  string    `gorm:"size:100" json:"specialty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (i *Instructor) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
