package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Member struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string         `gorm:"size:150;not null;index" json:"name"`
	NationalID   string         `gorm:"size:14;not null;uniqueIndex" json:"national_id"`
	BirthDate    datatypes.Date `gorm:"not null" json:"birth_date"`
	Address      string         `gorm:"size:250" json:"address"`
	Phone        string         `gorm:"size:20;not null" json:"phone"`
	Email        string         `gorm:"size:150;not null;uniqueIndex" json:"email"`
	PIN          *string        `gorm:"column:pin;size:5;uniqueIndex" json:"-"`
	RegisteredAt time.Time      `gorm:"not null;index" json:"registered_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Enrollments  []Enrollment   `gorm:"foreignKey:MemberID" json:"enrollments,omitempty"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// HasPIN reports whether the member can use the kiosk keypad.
func (m *Member) HasPIN() bool {
	return m.PIN != nil && *m.PIN != ""
}
