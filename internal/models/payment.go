package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SettlementStatus string

const (
	PaymentPending   SettlementStatus = "Pending"
	PaymentConfirmed SettlementStatus = "Confirmed"
	PaymentCancelled SettlementStatus = "Cancelled"
	PaymentArchived  SettlementStatus = "Archived"
)

type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "Cartão de Crédito"
	MethodPix        PaymentMethod = "PIX"
	MethodDebit      PaymentMethod = "Débito"
	MethodCash       PaymentMethod = "Dinheiro"
)

var PaymentMethods = []PaymentMethod{MethodCreditCard, MethodPix, MethodDebit, MethodCash}

// Immediate reports whether the method settles at the counter (no installments).
func (m PaymentMethod) Immediate() bool {
	switch m {
	case MethodPix, MethodDebit, MethodCash:
		return true
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	return m == MethodCreditCard || m.Immediate()
}

// Payment rows are never deleted; Archived hides them from default listings.
type Payment struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID uuid.UUID        `gorm:"type:uuid;not null;index" json:"enrollment_id"`
	AmountCents  int64            `gorm:"not null" json:"amount_cents"`
	Method       PaymentMethod    `gorm:"size:50;not null" json:"method"`
	Installments int              `gorm:"not null;default:1" json:"installments"`
	Status       SettlementStatus `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	PaidAt       time.Time        `gorm:"not null;index" json:"paid_at"`
	ConfirmedAt  *time.Time       `json:"confirmed_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Enrollment   *Enrollment      `gorm:"foreignKey:EnrollmentID" json:"enrollment,omitempty"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
