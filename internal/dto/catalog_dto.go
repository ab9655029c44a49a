package dto

import (
	"time"

	"github.com/google/uuid"
)

type PlanRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Description     string `json:"description"`
	PriceCents      int64  `json:"price_cents" validate:"gt=0"`
	DurationDays    int    `json:"duration_days" validate:"gt=0"`
	MaxInstallments int    `json:"max_installments" validate:"gte=0,max=24"`
}

type InstructorRequest struct {
	Name       string `json:"name" validate:"required,min=3,max=150"`
	NationalID string `json:"national_id" validate:"required,min=11,max=14"`
	Email      string `json:"email" validate:"required,email,max=150"`
	Phone      string `json:"phone" validate:"required,min=10,max=20"`
	Specialty  string `json:"specialty" validate:"required,max=100"`
}

type WorkoutRequest struct {
	Name         string `json:"name" validate:"required,max=150"`
	Description  string `json:"description" validate:"required"`
	InstructorID string `json:"instructor_id" validate:"required,uuid"`
}

type AssignMemberRequest struct {
	MemberID string `json:"member_id" validate:"required,uuid"`
}

type WorkoutResponse struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	InstructorID   uuid.UUID        `json:"instructor_id"`
	InstructorName string           `json:"instructor_name"`
	Members        []MemberResponse `json:"members,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

type AnnouncementRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}
