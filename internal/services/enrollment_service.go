package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnrollmentOptions carries the pricing and settlement settings.
type EnrollmentOptions struct {
	CashDiscountPercent float64
	ConfirmPolicy       string
}

// EnrollmentResult is the Enrollment and Payment written by one Create.
type EnrollmentResult struct {
	Enrollment    models.Enrollment
	Payment       models.Payment
	DiscountCents int64
}

type EnrollmentService struct {
	db       *gorm.DB
	clock    *clock.Clock
	notifier Notifier
	opts     EnrollmentOptions
}

func NewEnrollmentService(db *gorm.DB, clk *clock.Clock, notifier Notifier, opts EnrollmentOptions) *EnrollmentService {
	return &EnrollmentService{db: db, clock: clk, notifier: notifier, opts: opts}
}

// FinalPrice applies the cash discount to methods settled at the counter.
// Amounts are rounded to the nearest cent.
func FinalPrice(priceCents int64, method models.PaymentMethod, discountPercent float64) (final, discount int64) {
	if !method.Immediate() || discountPercent <= 0 {
		return priceCents, 0
	}
	discount = int64(math.Round(float64(priceCents) * discountPercent / 100))
	return priceCents - discount, discount
}

// autoConfirm reports whether a new payment skips the Pending stage.
func autoConfirm(policy string, method models.PaymentMethod) bool {
	switch policy {
	case config.ConfirmAll:
		return true
	case config.ConfirmImmediate:
		return method.Immediate()
	default:
		return false
	}
}

// Create enrolls a member in a plan and records the payment for it. Both rows
// are written in one transaction; the notification goes out after commit.
func (s *EnrollmentService) Create(ctx context.Context, req *dto.EnrollmentRequest) (*EnrollmentResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	memberID, _ := uuid.Parse(req.MemberID)
	planID, _ := uuid.Parse(req.PlanID)

	method := models.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return nil, invalid("payment_method", "unsupported payment method")
	}

	start := s.clock.Today()
	if req.StartDate != "" {
		d, err := clock.ParseDate(req.StartDate)
		if err != nil {
			return nil, invalid("start_date", "must be a date in YYYY-MM-DD format")
		}
		start = d
	}

	var (
		result EnrollmentResult
		member models.Member
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&member, "id = ?", memberID).Error; err != nil {
			return notFound(err, ErrMemberNotFound)
		}
		var plan models.Plan
		if err := tx.First(&plan, "id = ?", planID).Error; err != nil {
			return notFound(err, ErrPlanNotFound)
		}

		installments, err := installmentsFor(method, req.Installments, plan.MaxInstallments)
		if err != nil {
			return err
		}
		amount, discount := FinalPrice(plan.PriceCents, method, s.opts.CashDiscountPercent)

		result.Enrollment = models.Enrollment{
			MemberID:     member.ID,
			PlanID:       plan.ID,
			StartDate:    datatypes.Date(start),
			EndDate:      datatypes.Date(clock.AddDays(start, plan.DurationDays)),
			ManualStatus: models.EnrollmentActive,
		}
		if err := tx.Create(&result.Enrollment).Error; err != nil {
			return fmt.Errorf("failed to create enrollment: %w", err)
		}

		result.Payment = models.Payment{
			EnrollmentID: result.Enrollment.ID,
			AmountCents:  amount,
			Method:       method,
			Installments: installments,
			Status:       models.PaymentPending,
			PaidAt:       s.clock.Now(),
		}
		if err := tx.Create(&result.Payment).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		result.DiscountCents = discount

		if autoConfirm(s.opts.ConfirmPolicy, method) {
			if _, err := settle(tx, &result.Payment, &result.Enrollment, ActionConfirm, s.clock.Now()); err != nil {
				return err
			}
		}
		result.Enrollment.Plan = &plan
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Enrollment.Member = &member

	slog.InfoContext(ctx, "enrollment created",
		"enrollment_id", result.Enrollment.ID.String(),
		"member_id", member.ID.String(),
		"plan_id", result.Enrollment.PlanID.String(),
		"amount_cents", result.Payment.AmountCents,
		"payment_status", string(result.Payment.Status),
	)

	dispatch(ctx, s.notifier, Event{
		Type:       EventEnrollmentCreated,
		MemberID:   member.ID,
		MemberName: member.Name,
		Email:      member.Email,
		Detail:     fmt.Sprintf("%s until %s", result.Enrollment.Plan.Name, clock.FormatDate(result.Enrollment.End())),
		OccurredAt: s.clock.Now(),
	})
	return &result, nil
}

// installmentsFor returns the installment count for a payment. Only credit
// card payments may be split; every other method is charged in one go.
func installmentsFor(method models.PaymentMethod, requested, limit int) (int, error) {
	if method != models.MethodCreditCard {
		return 1, nil
	}
	if limit < 1 {
		limit = 1
	}
	if requested == 0 {
		return 1, nil
	}
	if requested < 1 || requested > limit {
		return 0, invalid("installments", fmt.Sprintf("must be between 1 and %d", limit))
	}
	return requested, nil
}

// ListValid returns enrollments that still grant access today, soonest to
// expire first.
func (s *EnrollmentService) ListValid(ctx context.Context) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.db.WithContext(ctx).
		Preload("Member").
		Preload("Plan").
		Where("manual_status = ? AND end_date >= ?", models.EnrollmentActive, datatypes.Date(s.clock.Today())).
		Order("end_date ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

func (s *EnrollmentService) Get(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.WithContext(ctx).
		Preload("Member").
		Preload("Plan").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at DESC") }).
		First(&enrollment, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrEnrollmentNotFound)
	}
	return &enrollment, nil
}

// Cancel marks an enrollment Cancelled and cancels its pending payments.
// Confirmed and archived payments keep their status; confirming such a
// payment again reactivates the enrollment.
func (s *EnrollmentService) Cancel(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	var cancelled, stillConfirmed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(database.ForUpdate()).First(&enrollment, "id = ?", id).Error; err != nil {
			return notFound(err, ErrEnrollmentNotFound)
		}
		if err := setManualStatus(tx, &enrollment, models.EnrollmentCancelled); err != nil {
			return err
		}
		res := tx.Model(&models.Payment{}).
			Where("enrollment_id = ? AND status = ?", id, models.PaymentPending).
			Update("status", models.PaymentCancelled)
		if res.Error != nil {
			return fmt.Errorf("failed to cancel pending payments: %w", res.Error)
		}
		cancelled = res.RowsAffected
		return tx.Model(&models.Payment{}).
			Where("enrollment_id = ? AND status = ?", id, models.PaymentConfirmed).
			Count(&stillConfirmed).Error
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "enrollment cancelled",
		"enrollment_id", id.String(),
		"payments_cancelled", cancelled,
	)
	if stillConfirmed > 0 {
		slog.WarnContext(ctx, "cancelled enrollment keeps confirmed payments",
			"enrollment_id", id.String(),
			"confirmed_payments", stillConfirmed,
		)
	}
	return &enrollment, nil
}

// Delete removes an enrollment that never had a payment. Payment history is
// kept forever, so enrollments with payments can only be cancelled.
func (s *EnrollmentService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enrollment models.Enrollment
		if err := tx.First(&enrollment, "id = ?", id).Error; err != nil {
			return notFound(err, ErrEnrollmentNotFound)
		}
		var payments int64
		if err := tx.Model(&models.Payment{}).Where("enrollment_id = ?", id).Count(&payments).Error; err != nil {
			return err
		}
		if payments > 0 {
			return ErrEnrollmentHasPayments
		}
		return tx.Delete(&enrollment).Error
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "enrollment deleted", "enrollment_id", id.String())
	return nil
}

// PruneResult summarises an orphan sweep.
type PruneResult struct {
	Removed int
	// Kept counts orphans left in place because they own payments.
	Kept int
}

// PruneOrphans deletes enrollments whose member no longer exists. Orphans that
// own payments are kept, since payment history is never deleted.
func (s *EnrollmentService) PruneOrphans(ctx context.Context) (PruneResult, error) {
	var res PruneResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		members := tx.Model(&models.Member{}).Select("id")
		var orphans []uuid.UUID
		if err := tx.Model(&models.Enrollment{}).Where("member_id NOT IN (?)", members).Pluck("id", &orphans).Error; err != nil {
			return fmt.Errorf("failed to find orphan enrollments: %w", err)
		}
		if len(orphans) == 0 {
			return nil
		}

		var paid []uuid.UUID
		if err := tx.Model(&models.Payment{}).Where("enrollment_id IN ?", orphans).
			Distinct().Pluck("enrollment_id", &paid).Error; err != nil {
			return fmt.Errorf("failed to find orphan payments: %w", err)
		}
		res.Kept = len(paid)

		q := tx.Where("id IN ?", orphans)
		if len(paid) > 0 {
			q = q.Where("id NOT IN ?", paid)
		}
		deleted := q.Delete(&models.Enrollment{})
		if deleted.Error != nil {
			return fmt.Errorf("failed to delete orphan enrollments: %w", deleted.Error)
		}
		res.Removed = int(deleted.RowsAffected)
		return nil
	})
	if err != nil {
		return PruneResult{}, err
	}

	slog.InfoContext(ctx, "orphan enrollments pruned", "removed", res.Removed, "kept", res.Kept)
	return res, nil
}
