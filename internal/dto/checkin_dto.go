package dto

import (
	"time"

	"github.com/google/uuid"
)

type CheckInRequest struct {
	Query string `json:"query" validate:"required,max=150"`
}

type PINCheckInRequest struct {
	PIN string `json:"pin" validate:"required,len=5,numeric"`
}

// CheckInResponse is the kiosk/desk answer for one check-in attempt.
type CheckInResponse struct {
	Outcome      string    `json:"outcome"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason"`
	Message      string    `json:"message"`
	MemberID     uuid.UUID `json:"member_id"`
	MemberName   string    `json:"member_name"`
	AttendanceID uuid.UUID `json:"attendance_id"`
	Timestamp    time.Time `json:"timestamp"`
	LocalTime    string    `json:"local_time"`
}

type AttendanceResponse struct {
	ID          uuid.UUID `json:"id"`
	MemberID    uuid.UUID `json:"member_id"`
	MemberName  string    `json:"member_name"`
	Type        string    `json:"type"`
	GateOutcome string    `json:"gate_outcome"`
	CheckedAt   time.Time `json:"checked_at"`
	LocalTime   string    `json:"local_time"`
}

type AttendanceListResponse struct {
	Records []AttendanceResponse `json:"records"`
	Total   int64                `json:"total"`
	Page    int                  `json:"page"`
	PerPage int                  `json:"per_page"`
	Filter  string               `json:"filter"`
}
