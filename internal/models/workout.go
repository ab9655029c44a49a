package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workout is a training template written by an instructor and assigned to
// members.
type Workout struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string      `gorm:"size:150;not null" json:"name"`
	Description  string      `gorm:"type:text" json:"description"`
	InstructorID uuid.UUID   `gorm:"type:uuid;not null;index" json:"instructor_id"`
	CreatedAt    time.Time   `json:"created_at"`
	Instructor   *Instructor `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
}

func (w *Workout) BeforeCreate(tx *gorm.DB) error {
	ensureID(&w.ID)
	return nil
}

type WorkoutMember struct {
	WorkoutID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"workout_id"`
	MemberID   uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"member_id"`
	AssignedAt time.Time `json:"assigned_at"`
}
