package dto

import (
	"time"

	"github.com/google/uuid"
)

type EnrollmentRequest struct {
	MemberID      string `json:"member_id" validate:"required,uuid"`
	PlanID        string `json:"plan_id" validate:"required,uuid"`
	StartDate     string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod string `json:"payment_method" validate:"required"`
	Installments  int    `json:"installments" validate:"gte=0"`
}

type EnrollmentResponse struct {
	ID           uuid.UUID         `json:"id"`
	MemberID     uuid.UUID         `json:"member_id"`
	MemberName   string            `json:"member_name,omitempty"`
	PlanID       uuid.UUID         `json:"plan_id"`
	PlanName     string            `json:"plan_name,omitempty"`
	StartDate    string            `json:"start_date"`
	EndDate      string            `json:"end_date"`
	ManualStatus string            `json:"manual_status"`
	Status       string            `json:"status"`
	Payments     []PaymentResponse `json:"payments,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// EnrollmentCreatedResponse is the Enrollment+Payment pair written together.
type EnrollmentCreatedResponse struct {
	Enrollment      EnrollmentResponse `json:"enrollment"`
	Payment         PaymentResponse    `json:"payment"`
	DiscountApplied bool               `json:"discount_applied"`
	DiscountCents   int64              `json:"discount_cents"`
}

type PaymentResponse struct {
	ID           uuid.UUID  `json:"id"`
	EnrollmentID uuid.UUID  `json:"enrollment_id"`
	MemberName   string     `json:"member_name,omitempty"`
	PlanName     string     `json:"plan_name,omitempty"`
	AmountCents  int64      `json:"amount_cents"`
	Amount       string     `json:"amount"`
	Method       string     `json:"method"`
	Installments int        `json:"installments"`
	Status       string     `json:"status"`
	PaidAt       time.Time  `json:"paid_at"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
}

type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PerPage  int               `json:"per_page"`
}

// SettlementResponse reports the payment and enrollment state after a
// settlement action. Changed is false when the action was a no-op.
type SettlementResponse struct {
	Payment          PaymentResponse `json:"payment"`
	EnrollmentStatus string          `json:"enrollment_status"`
	ManualStatus     string          `json:"manual_status"`
	Changed          bool            `json:"changed"`
	Note             string          `json:"note,omitempty"`
}
