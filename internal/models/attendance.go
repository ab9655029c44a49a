package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const AttendanceEntry = "Entry"

// Gate outcomes recorded on every check-in attempt.
const (
	GateAuthorized               = "Liberado"
	GateBlockedPrefix            = "Bloqueado"
	GateBlockedInvalidEnrollment = GateBlockedPrefix + " - Matrícula Inválida"
)

// Attendance is an audit event written once per check-in attempt and never
// updated afterwards.
type Attendance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MemberID    uuid.UUID `gorm:"type:uuid;not null;index" json:"member_id"`
	Type        string    `gorm:"size:10;not null" json:"type"`
	GateOutcome string    `gorm:"size:60;not null;default:'Indefinido'" json:"gate_outcome"`
	CheckedAt   time.Time `gorm:"not null;index" json:"checked_at"`
	Member      *Member   `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

func (a *Attendance) Authorized() bool {
	return a.GateOutcome == GateAuthorized
}

func (a *Attendance) Blocked() bool {
	return strings.HasPrefix(a.GateOutcome, GateBlockedPrefix)
}

// BlockReason is the text after "Bloqueado - ", or "" when access was granted.
func (a *Attendance) BlockReason() string {
	if !a.Blocked() {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(a.GateOutcome, GateBlockedPrefix), " -"))
}
