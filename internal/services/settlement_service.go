package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SettlementAction string

const (
	ActionConfirm SettlementAction = "confirm"
	ActionCancel  SettlementAction = "cancel"
	ActionArchive SettlementAction = "archive"
)

func ParseSettlementAction(s string) (SettlementAction, error) {
	switch a := SettlementAction(s); a {
	case ActionConfirm, ActionCancel, ActionArchive:
		return a, nil
	}
	return "", invalid("action", "must be one of: confirm cancel archive")
}

// SettlementResult is the state after a settlement action. Changed is false
// when the action did not apply to the payment's current state; such actions
// are no-ops rather than errors.
type SettlementResult struct {
	Payment    models.Payment
	Enrollment models.Enrollment
	Changed    bool
	Note       string
}

// SettlementService moves payments through Pending → Confirmed | Cancelled
// and any → Archived, cascading confirm/cancel onto the owning enrollment.
type SettlementService struct {
	db    *gorm.DB
	clock *clock.Clock
}

func NewSettlementService(db *gorm.DB, clk *clock.Clock) *SettlementService {
	return &SettlementService{db: db, clock: clk}
}

// Apply runs one settlement action. Payment and enrollment rows are locked
// for the duration of the transaction so concurrent actions on the same
// enrollment serialise.
func (s *SettlementService) Apply(ctx context.Context, paymentID uuid.UUID, action SettlementAction) (*SettlementResult, error) {
	var (
		result *SettlementResult
		from   models.SettlementStatus
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Scopes(database.ForUpdate()).First(&payment, "id = ?", paymentID).Error; err != nil {
			return notFound(err, ErrPaymentNotFound)
		}
		var enrollment models.Enrollment
		if err := tx.Scopes(database.ForUpdate()).First(&enrollment, "id = ?", payment.EnrollmentID).Error; err != nil {
			return notFound(err, ErrEnrollmentNotFound)
		}
		from = payment.Status

		var err error
		result, err = settle(tx, &payment, &enrollment, action, s.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	if result.Changed {
		slog.InfoContext(ctx, "payment settled",
			"payment_id", paymentID.String(),
			"action", string(action),
			"from", string(from),
			"to", string(result.Payment.Status),
			"enrollment_id", result.Enrollment.ID.String(),
			"manual_status", string(result.Enrollment.ManualStatus),
		)
	} else {
		slog.InfoContext(ctx, "settlement action ignored",
			"payment_id", paymentID.String(),
			"action", string(action),
			"status", string(result.Payment.Status),
			"note", result.Note,
		)
	}
	return result, nil
}

// settle applies action inside tx. Both rows must already be locked.
func settle(tx *gorm.DB, p *models.Payment, e *models.Enrollment, action SettlementAction, now time.Time) (*SettlementResult, error) {
	res := &SettlementResult{}

	switch {
	case p.Status == models.PaymentArchived:
		res.Note = "payment is archived"

	case action == ActionArchive:
		if err := tx.Model(p).Update("status", models.PaymentArchived).Error; err != nil {
			return nil, fmt.Errorf("failed to archive payment: %w", err)
		}
		p.Status = models.PaymentArchived
		res.Changed = true

	case action == ActionConfirm && p.Status == models.PaymentConfirmed:
		res.Note = "payment already confirmed"
		if e.ManualStatus != models.EnrollmentActive {
			if err := setManualStatus(tx, e, models.EnrollmentActive); err != nil {
				return nil, err
			}
			res.Note = "payment already confirmed; enrollment reactivated"
			res.Changed = true
		}

	case action == ActionCancel && p.Status == models.PaymentCancelled:
		res.Note = "payment already cancelled"

	case p.Status != models.PaymentPending:
		res.Note = fmt.Sprintf("cannot %s a %s payment", action, p.Status)

	case action == ActionConfirm:
		if err := tx.Model(p).Updates(map[string]interface{}{
			"status":       models.PaymentConfirmed,
			"confirmed_at": now,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to confirm payment: %w", err)
		}
		p.Status = models.PaymentConfirmed
		p.ConfirmedAt = &now
		if err := setManualStatus(tx, e, models.EnrollmentActive); err != nil {
			return nil, err
		}
		res.Changed = true

	case action == ActionCancel:
		if err := tx.Model(p).Update("status", models.PaymentCancelled).Error; err != nil {
			return nil, fmt.Errorf("failed to cancel payment: %w", err)
		}
		p.Status = models.PaymentCancelled
		if err := setManualStatus(tx, e, models.EnrollmentCancelled); err != nil {
			return nil, err
		}
		res.Changed = true

	default:
		return nil, invalid("action", "unknown settlement action")
	}

	res.Payment = *p
	res.Enrollment = *e
	return res, nil
}

func setManualStatus(tx *gorm.DB, e *models.Enrollment, status models.EnrollmentStatus) error {
	if e.ManualStatus == status {
		return nil
	}
	if err := tx.Model(e).Update("manual_status", status).Error; err != nil {
		return fmt.Errorf("failed to update enrollment status: %w", err)
	}
	e.ManualStatus = status
	return nil
}

const PaymentsPerPage = 20

// List returns payments newest first. Archived payments are hidden unless
// includeArchived is set.
func (s *SettlementService) List(ctx context.Context, includeArchived bool, page int) ([]models.Payment, int64, error) {
	if page < 1 {
		page = 1
	}
	visible := func(db *gorm.DB) *gorm.DB {
		if includeArchived {
			return db
		}
		return db.Where("status <> ?", models.PaymentArchived)
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Payment{}).Scopes(visible).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	var payments []models.Payment
	err := s.db.WithContext(ctx).Scopes(visible).
		Preload("Enrollment").
		Preload("Enrollment.Member").
		Preload("Enrollment.Plan").
		Order("paid_at DESC").
		Limit(PaymentsPerPage).
		Offset((page - 1) * PaymentsPerPage).
		Find(&payments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, total, nil
}
