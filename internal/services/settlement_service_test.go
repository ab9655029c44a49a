package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettlementAction(t *testing.T) {
	for _, s := range []string{"confirm", "cancel", "archive"} {
		a, err := ParseSettlementAction(s)
		require.NoError(t, err)
		assert.Equal(t, SettlementAction(s), a)
	}

	_, err := ParseSettlementAction("refund")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "action", verr.Field)
}

func TestSettlementTransitions(t *testing.T) {
	tests := []struct {
		name           string
		from           models.SettlementStatus
		enrollment     models.EnrollmentStatus
		action         SettlementAction
		wantStatus     models.SettlementStatus
		wantEnrollment models.EnrollmentStatus
		wantChanged    bool
	}{
		{"confirm pending", models.PaymentPending, models.EnrollmentCancelled, ActionConfirm, models.PaymentConfirmed, models.EnrollmentActive, true},
		{"cancel pending", models.PaymentPending, models.EnrollmentActive, ActionCancel, models.PaymentCancelled, models.EnrollmentCancelled, true},
		{"archive pending", models.PaymentPending, models.EnrollmentActive, ActionArchive, models.PaymentArchived, models.EnrollmentActive, true},
		{"archive confirmed keeps enrollment", models.PaymentConfirmed, models.EnrollmentActive, ActionArchive, models.PaymentArchived, models.EnrollmentActive, true},
		{"archive cancelled", models.PaymentCancelled, models.EnrollmentCancelled, ActionArchive, models.PaymentArchived, models.EnrollmentCancelled, true},
		{"confirm confirmed reactivates cancelled enrollment", models.PaymentConfirmed, models.EnrollmentCancelled, ActionConfirm, models.PaymentConfirmed, models.EnrollmentActive, true},
		{"confirm confirmed is idempotent", models.PaymentConfirmed, models.EnrollmentActive, ActionConfirm, models.PaymentConfirmed, models.EnrollmentActive, false},
		{"cancel cancelled is idempotent", models.PaymentCancelled, models.EnrollmentCancelled, ActionCancel, models.PaymentCancelled, models.EnrollmentCancelled, false},
		{"confirm cancelled is ignored", models.PaymentCancelled, models.EnrollmentCancelled, ActionConfirm, models.PaymentCancelled, models.EnrollmentCancelled, false},
		{"cancel confirmed is ignored", models.PaymentConfirmed, models.EnrollmentActive, ActionCancel, models.PaymentConfirmed, models.EnrollmentActive, false},
		{"confirm archived is ignored", models.PaymentArchived, models.EnrollmentActive, ActionConfirm, models.PaymentArchived, models.EnrollmentActive, false},
		{"cancel archived is ignored", models.PaymentArchived, models.EnrollmentActive, ActionCancel, models.PaymentArchived, models.EnrollmentActive, false},
		{"archive archived is ignored", models.PaymentArchived, models.EnrollmentActive, ActionArchive, models.PaymentArchived, models.EnrollmentActive, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "2026-10-19T15:00:00Z")
			svc := NewSettlementService(f.db, f.clk)
			plan := f.plan(t, "Mensal", 10000, 30, 1)
			e := f.enrollment(t, f.member(t, "Ana", "11111111111"), plan, 20, tt.enrollment)
			p := f.payment(t, e, 10000, tt.from)

			res, err := svc.Apply(context.Background(), p.ID, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, res.Changed)
			assert.Equal(t, tt.wantStatus, res.Payment.Status)
			assert.Equal(t, tt.wantEnrollment, res.Enrollment.ManualStatus)
			if !tt.wantChanged {
				assert.NotEmpty(t, res.Note)
			}

			var storedPayment models.Payment
			require.NoError(t, f.db.First(&storedPayment, "id = ?", p.ID).Error)
			assert.Equal(t, tt.wantStatus, storedPayment.Status)

			var storedEnrollment models.Enrollment
			require.NoError(t, f.db.First(&storedEnrollment, "id = ?", e.ID).Error)
			assert.Equal(t, tt.wantEnrollment, storedEnrollment.ManualStatus)
		})
	}
}

func TestConfirmSetsConfirmedAt(t *testing.T) {
	f := newFixture(t, "2026-10-19T15:00:00Z")
	svc := NewSettlementService(f.db, f.clk)
	plan := f.plan(t, "Mensal", 10000, 30, 1)
	e := f.enrollment(t, f.member(t, "Ana", "11111111111"), plan, 20, models.EnrollmentActive)
	p := f.payment(t, e, 10000, models.PaymentPending)

	res, err := svc.Apply(context.Background(), p.ID, ActionConfirm)
	require.NoError(t, err)
	require.NotNil(t, res.Payment.ConfirmedAt)
	assert.True(t, res.Payment.ConfirmedAt.Equal(f.clk.Now()))

	var stored models.Payment
	require.NoError(t, f.db.First(&stored, "id = ?", p.ID).Error)
	require.NotNil(t, stored.ConfirmedAt)
}

func TestArchivedPaymentCannotBeRevived(t *testing.T) {
	f := newFixture(t, "2026-10-19T15:00:00Z")
	svc := NewSettlementService(f.db, f.clk)
	plan := f.plan(t, "Mensal", 10000, 30, 1)
	e := f.enrollment(t, f.member(t, "Ana", "11111111111"), plan, 20, models.EnrollmentActive)
	p := f.payment(t, e, 10000, models.PaymentPending)

	_, err := svc.Apply(context.Background(), p.ID, ActionArchive)
	require.NoError(t, err)

	res, err := svc.Apply(context.Background(), p.ID, ActionConfirm)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, models.PaymentArchived, res.Payment.Status)
	assert.Nil(t, res.Payment.ConfirmedAt)
}

func TestSettlementNotFound(t *testing.T) {
	f := newFixture(t, "2026-10-19T15:00:00Z")
	svc := NewSettlementService(f.db, f.clk)

	_, err := svc.Apply(context.Background(), uuid.New(), ActionConfirm)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestArchivingKeepsRevenue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2026-10-19T15:00:00Z")
	settlements := NewSettlementService(f.db, f.clk)
	reports := NewReportService(f.db, f.clk)
	plan := f.plan(t, "Mensal", 10000, 30, 1)
	e := f.enrollment(t, f.member(t, "Ana", "11111111111"), plan, 20, models.EnrollmentActive)
	confirmed := f.payment(t, e, 12345, models.PaymentPending)
	neverConfirmed := f.payment(t, e, 5000, models.PaymentPending)

	_, err := settlements.Apply(ctx, confirmed.ID, ActionConfirm)
	require.NoError(t, err)

	before, err := reports.Generate(ctx, "daily")
	require.NoError(t, err)
	assert.Equal(t, "123.45", before.Value(MetricRevenue))

	_, err = settlements.Apply(ctx, confirmed.ID, ActionArchive)
	require.NoError(t, err)
	_, err = settlements.Apply(ctx, neverConfirmed.ID, ActionArchive)
	require.NoError(t, err)

	after, err := reports.Generate(ctx, "daily")
	require.NoError(t, err)
	assert.Equal(t, before.Value(MetricRevenue), after.Value(MetricRevenue))
}

func TestListPaymentsHidesArchived(t *testing.T) {
	f := newFixture(t, "2026-10-19T15:00:00Z")
	svc := NewSettlementService(f.db, f.clk)
	plan := f.plan(t, "Mensal", 10000, 30, 1)
	e := f.enrollment(t, f.member(t, "Ana", "11111111111"), plan, 20, models.EnrollmentActive)
	f.payment(t, e, 100, models.PaymentPending)
	f.payment(t, e, 200, models.PaymentConfirmed)
	f.payment(t, e, 300, models.PaymentArchived)

	visible, total, err := svc.List(context.Background(), false, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, visible, 2)
	for _, p := range visible {
		assert.NotEqual(t, models.PaymentArchived, p.Status)
		require.NotNil(t, p.Enrollment)
		assert.Equal(t, "Ana", p.Enrollment.Member.Name)
	}

	all, total, err := svc.List(context.Background(), true, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)
}
