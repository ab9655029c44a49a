package models

import (
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "Active"
	EnrollmentCancelled EnrollmentStatus = "Cancelled"
)

// Display statuses derived at read time.
const (
	StatusActive          = "Active"
	StatusExpired         = "Expired"
	StatusExpiresToday    = "Expires today"
	StatusExpiresTomorrow = "Expires tomorrow"
)

// expiryWarningDays is how far ahead an upcoming end date is announced.
const expiryWarningDays = 7

// Enrollment covers the half-open period [StartDate, EndDate). EndDate is
// fixed at creation; renewals create a new row.
type Enrollment struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	MemberID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"member_id"`
	PlanID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"plan_id"`
	StartDate    datatypes.Date   `gorm:"not null" json:"start_date"`
	EndDate      datatypes.Date   `gorm:"not null;index" json:"end_date"`
	ManualStatus EnrollmentStatus `gorm:"size:20;not null;default:'Active';index" json:"manual_status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Member       *Member          `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Plan         *Plan            `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Payments     []Payment        `gorm:"foreignKey:EnrollmentID" json:"payments,omitempty"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

// End returns the end date as a calendar date.
func (e *Enrollment) End() time.Time {
	return clock.Date(time.Time(e.EndDate))
}

// DisplayStatus resolves the status shown to staff for the given local date.
func (e *Enrollment) DisplayStatus(today time.Time) string {
	return ResolveStatus(e.ManualStatus, e.End(), today)
}

// ResolveStatus derives the display status of an enrollment. A manual status
// other than Active always wins; otherwise the answer depends on how many days
// remain until endDate. The result must never be stored.
func ResolveStatus(manual EnrollmentStatus, endDate, today time.Time) string {
	if manual != EnrollmentActive {
		return string(manual)
	}

	daysLeft := clock.DaysBetween(today, endDate)
	switch {
	case daysLeft < 0:
		return StatusExpired
	case daysLeft == 0:
		return StatusExpiresToday
	case daysLeft == 1:
		return StatusExpiresTomorrow
	case daysLeft <= expiryWarningDays:
		return fmt.Sprintf("Expires in %d days", daysLeft)
	default:
		return StatusActive
	}
}
