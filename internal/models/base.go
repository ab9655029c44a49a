package models

import "github.com/google/uuid"

// ensureID assigns a fresh UUID when the primary key was left empty.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// AllModels lists every table managed by AutoMigrate, parents first.
func AllModels() []interface{} {
	return []interface{}{
		&Staff{},
		&Member{},
		&Plan{},
		&Enrollment{},
		&Payment{},
		&Attendance{},
		&Instructor{},
		&Workout{},
		&WorkoutMember{},
		&Announcement{},
		&SystemLog{},
	}
}
