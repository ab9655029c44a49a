package dto

import (
	"time"

	"github.com/google/uuid"
)

type MemberRequest struct {
	Name       string `json:"name" validate:"required,min=3,max=150"`
	NationalID string `json:"national_id" validate:"required,min=11,max=14"`
	BirthDate  string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Address    string `json:"address" validate:"max=250"`
	Phone      string `json:"phone" validate:"required,min=10,max=20"`
	Email      string `json:"email" validate:"required,email,max=150"`
	PIN        string `json:"pin" validate:"omitempty,len=5,numeric"`
}

type MemberResponse struct {
	ID           uuid.UUID            `json:"id"`
	Name         string               `json:"name"`
	NationalID   string               `json:"national_id"`
	BirthDate    string               `json:"birth_date"`
	Address      string               `json:"address"`
	Phone        string               `json:"phone"`
	Email        string               `json:"email"`
	HasPIN       bool                 `json:"has_pin"`
	RegisteredAt time.Time            `json:"registered_at"`
	Enrollments  []EnrollmentResponse `json:"enrollments,omitempty"`
}

type MemberListResponse struct {
	Members []MemberResponse `json:"members"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}
