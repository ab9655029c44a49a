package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrMemberNotFound       = fmt.Errorf("member %w", ErrNotFound)
	ErrPlanNotFound         = fmt.Errorf("plan %w", ErrNotFound)
	ErrEnrollmentNotFound   = fmt.Errorf("enrollment %w", ErrNotFound)
	ErrPaymentNotFound      = fmt.Errorf("payment %w", ErrNotFound)
	ErrInstructorNotFound   = fmt.Errorf("instructor %w", ErrNotFound)
	ErrWorkoutNotFound      = fmt.Errorf("workout %w", ErrNotFound)
	ErrAnnouncementNotFound = fmt.Errorf("announcement %w", ErrNotFound)

	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrEnrollmentHasPayments = errors.New("enrollment has payment history; archive its payments instead of deleting")
	ErrMemberHasPayments     = errors.New("member has payment history and cannot be deleted")
)

// ValidationError is returned for malformed or duplicate input before any
// write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Duplicate reports whether the failure is a uniqueness conflict.
func (e *ValidationError) Duplicate() bool {
	return e.Reason == reasonDuplicate
}

const reasonDuplicate = "already registered"

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func duplicate(field string) error {
	return &ValidationError{Field: field, Reason: reasonDuplicate}
}

// notFound maps gorm's missing-row error onto a domain sentinel.
func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// isUniqueViolation recognises unique-constraint failures from Postgres and
// SQLite. It backs up the explicit duplicate checks when two requests race.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
