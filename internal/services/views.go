package services

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/models"
)

const localTimeLayout = "15:04"

func StaffView(s *models.Staff) dto.StaffResponse {
	return dto.StaffResponse{ID: s.ID, Username: s.Username, Email: s.Email, Role: s.Role}
}

// MemberView renders a member; enrollments are included when loaded, each
// with its status resolved for today.
func MemberView(m *models.Member, today time.Time) dto.MemberResponse {
	resp := dto.MemberResponse{
		ID:           m.ID,
		Name:         m.Name,
		NationalID:   m.NationalID,
		BirthDate:    clock.FormatDate(time.Time(m.BirthDate)),
		Address:      m.Address,
		Phone:        m.Phone,
		Email:        m.Email,
		HasPIN:       m.HasPIN(),
		RegisteredAt: m.RegisteredAt,
	}
	for i := range m.Enrollments {
		resp.Enrollments = append(resp.Enrollments, EnrollmentView(&m.Enrollments[i], today))
	}
	return resp
}

func EnrollmentView(e *models.Enrollment, today time.Time) dto.EnrollmentResponse {
	resp := dto.EnrollmentResponse{
		ID:           e.ID,
		MemberID:     e.MemberID,
		PlanID:       e.PlanID,
		StartDate:    clock.FormatDate(time.Time(e.StartDate)),
		EndDate:      clock.FormatDate(e.End()),
		ManualStatus: string(e.ManualStatus),
		Status:       e.DisplayStatus(today),
		CreatedAt:    e.CreatedAt,
	}
	if e.Member != nil {
		resp.MemberName = e.Member.Name
	}
	if e.Plan != nil {
		resp.PlanName = e.Plan.Name
	}
	for i := range e.Payments {
		resp.Payments = append(resp.Payments, PaymentView(&e.Payments[i]))
	}
	return resp
}

func PaymentView(p *models.Payment) dto.PaymentResponse {
	resp := dto.PaymentResponse{
		ID:           p.ID,
		EnrollmentID: p.EnrollmentID,
		AmountCents:  p.AmountCents,
		Amount:       FormatCents(p.AmountCents),
		Method:       string(p.Method),
		Installments: p.Installments,
		Status:       string(p.Status),
		PaidAt:       p.PaidAt,
		ConfirmedAt:  p.ConfirmedAt,
	}
	if e := p.Enrollment; e != nil {
		if e.Member != nil {
			resp.MemberName = e.Member.Name
		}
		if e.Plan != nil {
			resp.PlanName = e.Plan.Name
		}
	}
	return resp
}

func EnrollmentCreatedView(r *EnrollmentResult, today time.Time) dto.EnrollmentCreatedResponse {
	return dto.EnrollmentCreatedResponse{
		Enrollment:      EnrollmentView(&r.Enrollment, today),
		Payment:         PaymentView(&r.Payment),
		DiscountApplied: r.DiscountCents > 0,
		DiscountCents:   r.DiscountCents,
	}
}

func SettlementView(r *SettlementResult, today time.Time) dto.SettlementResponse {
	return dto.SettlementResponse{
		Payment:          PaymentView(&r.Payment),
		EnrollmentStatus: r.Enrollment.DisplayStatus(today),
		ManualStatus:     string(r.Enrollment.ManualStatus),
		Changed:          r.Changed,
		Note:             r.Note,
	}
}

// CheckInView renders a gate decision in the operational local time.
func CheckInView(r *CheckInResult, clk *clock.Clock) dto.CheckInResponse {
	outcome := "Blocked"
	if r.Authorized() {
		outcome = "Authorized"
	}
	return dto.CheckInResponse{
		Outcome:      outcome,
		Status:       r.Attendance.GateOutcome,
		Reason:       r.Attendance.BlockReason(),
		Message:      r.Message(),
		MemberID:     r.Member.ID,
		MemberName:   r.Member.Name,
		AttendanceID: r.Attendance.ID,
		Timestamp:    r.Attendance.CheckedAt,
		LocalTime:    clk.ToLocal(r.Attendance.CheckedAt).Format(localTimeLayout),
	}
}

func AttendanceView(a *models.Attendance, clk *clock.Clock) dto.AttendanceResponse {
	resp := dto.AttendanceResponse{
		ID:          a.ID,
		MemberID:    a.MemberID,
		Type:        a.Type,
		GateOutcome: a.GateOutcome,
		CheckedAt:   a.CheckedAt,
		LocalTime:   clk.ToLocal(a.CheckedAt).Format(localTimeLayout),
	}
	if a.Member != nil {
		resp.MemberName = a.Member.Name
	}
	return resp
}

func WorkoutView(w *models.Workout, members []models.Member, today time.Time) dto.WorkoutResponse {
	resp := dto.WorkoutResponse{
		ID:           w.ID,
		Name:         w.Name,
		Description:  w.Description,
		InstructorID: w.InstructorID,
		CreatedAt:    w.CreatedAt,
	}
	if w.Instructor != nil {
		resp.InstructorName = w.Instructor.Name
	}
	for i := range members {
		resp.Members = append(resp.Members, MemberView(&members[i], today))
	}
	return resp
}

func ReportView(r *Report) dto.ReportResponse {
	resp := dto.ReportResponse{
		Period: string(r.Period),
		Title:  r.Title,
		From:   clock.FormatDate(r.Window.First),
		To:     clock.FormatDate(r.Window.Last),
		Rows:   make([]dto.ReportRow, 0, len(r.Rows)),
	}
	for _, row := range r.Rows {
		resp.Rows = append(resp.Rows, dto.ReportRow{Name: row.Name, Value: row.Value})
	}
	return resp
}
