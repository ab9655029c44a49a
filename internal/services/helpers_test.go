package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// fixture is an in-memory database with a clock frozen at a settable instant.
type fixture struct {
	db  *gorm.DB
	clk *clock.Clock
	now time.Time
}

func newFixture(t *testing.T, instant string) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.Options())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive for the whole test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	f := &fixture{db: db}
	f.setNow(t, instant)
	f.clk = clock.New(-3).WithNow(func() time.Time { return f.now })
	return f
}

func (f *fixture) setNow(t *testing.T, instant string) {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, instant)
	require.NoError(t, err)
	f.now = ts.UTC()
}

func (f *fixture) today() time.Time { return f.clk.Today() }

func (f *fixture) member(t *testing.T, name, nationalID string) models.Member {
	t.Helper()
	m := models.Member{
		Name:         name,
		NationalID:   nationalID,
		BirthDate:    datatypes.Date(time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC)),
		Phone:        "11999990000",
		Email:        nationalID + "@example.com",
		RegisteredAt: f.clk.Now(),
	}
	require.NoError(t, f.db.Create(&m).Error)
	return m
}

func (f *fixture) memberWithPIN(t *testing.T, name, nationalID, pin string) models.Member {
	t.Helper()
	m := f.member(t, name, nationalID)
	require.NoError(t, f.db.Model(&m).Update("pin", pin).Error)
	m.PIN = &pin
	return m
}

func (f *fixture) plan(t *testing.T, name string, priceCents int64, days, maxInstallments int) models.Plan {
	t.Helper()
	p := models.Plan{Name: name, PriceCents: priceCents, DurationDays: days, MaxInstallments: maxInstallments}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

// enrollment writes an enrollment ending endOffset days after today.
func (f *fixture) enrollment(t *testing.T, m models.Member, p models.Plan, endOffset int, status models.EnrollmentStatus) models.Enrollment {
	t.Helper()
	end := clock.AddDays(f.today(), endOffset)
	e := models.Enrollment{
		MemberID:     m.ID,
		PlanID:       p.ID,
		StartDate:    datatypes.Date(clock.AddDays(end, -p.DurationDays)),
		EndDate:      datatypes.Date(end),
		ManualStatus: status,
	}
	require.NoError(t, f.db.Create(&e).Error)
	return e
}

func (f *fixture) payment(t *testing.T, e models.Enrollment, amount int64, status models.SettlementStatus) models.Payment {
	t.Helper()
	p := models.Payment{
		EnrollmentID: e.ID,
		AmountCents:  amount,
		Method:       models.MethodPix,
		Installments: 1,
		Status:       status,
		PaidAt:       f.clk.Now(),
	}
	if status == models.PaymentConfirmed {
		now := f.clk.Now()
		p.ConfirmedAt = &now
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingNotifier) Notify(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingNotifier) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, Event) error {
	return errors.New("smtp unavailable")
}
