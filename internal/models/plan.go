package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan is catalog reference data. Rows are never updated after creation so
// enrollments keep pointing at the terms they were sold under.
type Plan struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	PriceCents      int64     `gorm:"not null" json:"price_cents"`
	DurationDays    int       `gorm:"not null" json:"duration_days"`
	MaxInstallments int       `gorm:"not null;default:1" json:"max_installments"`
	CreatedAt       time.Time `json:"created_at"`
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
