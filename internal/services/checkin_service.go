package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const AttendancePerPage = 25

// Attendance listing filters.
const (
	FilterAll        = "all"
	FilterAuthorized = "authorized"
	FilterBlocked    = "blocked"
)

// CheckInResult describes one gate decision and the attendance row that
// recorded it.
type CheckInResult struct {
	Member     models.Member
	Attendance models.Attendance
	Enrollment *models.Enrollment
}

func (r *CheckInResult) Authorized() bool { return r.Attendance.Authorized() }

// Message is the text shown on the kiosk screen.
func (r *CheckInResult) Message() string {
	if r.Authorized() {
		return fmt.Sprintf("Bem-vindo(a), %s!", r.Member.Name)
	}
	return fmt.Sprintf("Acesso Negado para %s. Matrícula irregular.", r.Member.Name)
}

// memberResolver finds the member a check-in is for, inside the check-in
// transaction.
type memberResolver func(tx *gorm.DB, member *models.Member) error

type CheckInService struct {
	db       *gorm.DB
	clock    *clock.Clock
	notifier Notifier
}

func NewCheckInService(db *gorm.DB, clk *clock.Clock, notifier Notifier) *CheckInService {
	return &CheckInService{db: db, clock: clk, notifier: notifier}
}

// CheckInByID runs the access gate for a member identified by id (QR code).
func (s *CheckInService) CheckInByID(ctx context.Context, memberID uuid.UUID) (*CheckInResult, error) {
	return s.checkIn(ctx, func(tx *gorm.DB, m *models.Member) error {
		return tx.Scopes(database.ForUpdate()).First(m, "id = ?", memberID).Error
	})
}

// CheckInByPIN runs the access gate for the member owning a 5-digit PIN.
func (s *CheckInService) CheckInByPIN(ctx context.Context, pin string) (*CheckInResult, error) {
	pin = strings.TrimSpace(pin)
	if len(pin) != 5 || strings.Trim(pin, "0123456789") != "" {
		return nil, invalid("pin", "must be exactly 5 digits")
	}
	return s.checkIn(ctx, func(tx *gorm.DB, m *models.Member) error {
		return tx.Scopes(database.ForUpdate()).First(m, "pin = ?", pin).Error
	})
}

// CheckInBySearch runs the access gate for the member matching a desk search:
// an exact national ID first, then a case-insensitive name substring. Several
// name matches resolve to the first one in name order.
func (s *CheckInService) CheckInBySearch(ctx context.Context, query string) (*CheckInResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("query", "is required")
	}
	return s.checkIn(ctx, func(tx *gorm.DB, m *models.Member) error {
		err := tx.Scopes(database.ForUpdate()).First(m, "national_id = ?", query).Error
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Scopes(database.ForUpdate()).
			Where(nameContains, containsPattern(query)).
			Order("name ASC").
			First(m).Error
	})
}

// checkIn resolves the member, decides the gate outcome and records exactly
// one attendance row, all in one transaction. An unknown member writes
// nothing. The member row lock serialises concurrent check-ins for the same
// member.
func (s *CheckInService) checkIn(ctx context.Context, resolve memberResolver) (*CheckInResult, error) {
	now := s.clock.Now()
	today := s.clock.DateOf(now)

	var result CheckInResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := resolve(tx, &result.Member); err != nil {
			return notFound(err, ErrMemberNotFound)
		}

		var valid []models.Enrollment
		err := tx.Scopes(database.ForUpdate()).
			Where("member_id = ? AND manual_status = ? AND end_date >= ?",
				result.Member.ID, models.EnrollmentActive, datatypes.Date(today)).
			Order("end_date DESC").
			Limit(1).
			Find(&valid).Error
		if err != nil {
			return fmt.Errorf("failed to load enrollments: %w", err)
		}

		outcome := models.GateBlockedInvalidEnrollment
		if len(valid) > 0 {
			outcome = models.GateAuthorized
			result.Enrollment = &valid[0]
		}

		result.Attendance = models.Attendance{
			MemberID:    result.Member.ID,
			Type:        models.AttendanceEntry,
			GateOutcome: outcome,
			CheckedAt:   now,
		}
		if err := tx.Create(&result.Attendance).Error; err != nil {
			return fmt.Errorf("failed to record attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "check-in recorded",
		"member_id", result.Member.ID.String(),
		"attendance_id", result.Attendance.ID.String(),
		"gate_outcome", result.Attendance.GateOutcome,
	)

	dispatch(ctx, s.notifier, Event{
		Type:       EventCheckInRecorded,
		MemberID:   result.Member.ID,
		MemberName: result.Member.Name,
		Email:      result.Member.Email,
		Detail:     result.Attendance.GateOutcome,
		OccurredAt: now,
	})
	return &result, nil
}

// Today lists today's attendance events, newest first. filter is one of
// FilterAll, FilterAuthorized or FilterBlocked; anything else means all.
func (s *CheckInService) Today(ctx context.Context, filter string, page int) ([]models.Attendance, int64, error) {
	if page < 1 {
		page = 1
	}
	today := s.clock.Today()
	from, to := s.clock.DayStartUTC(today), s.clock.DayEndUTC(today)

	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("checked_at >= ? AND checked_at < ?", from, to)
		switch filter {
		case FilterAuthorized:
			return db.Where("gate_outcome = ?", models.GateAuthorized)
		case FilterBlocked:
			return db.Where("gate_outcome LIKE ?", models.GateBlockedPrefix+"%")
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Attendance{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	var records []models.Attendance
	err := s.db.WithContext(ctx).Scopes(scope).
		Preload("Member").
		Order("checked_at DESC").
		Limit(AttendancePerPage).
		Offset((page - 1) * AttendancePerPage).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, total, nil
}

// NormalizeAttendanceFilter maps user-facing filter names, including the
// gate outcome labels, onto the listing filters.
func NormalizeAttendanceFilter(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case FilterAuthorized, strings.ToLower(models.GateAuthorized):
		return FilterAuthorized
	case FilterBlocked, strings.ToLower(models.GateBlockedPrefix):
		return FilterBlocked
	default:
		return FilterAll
	}
}
