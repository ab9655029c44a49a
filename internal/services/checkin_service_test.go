package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInGate(t *testing.T) {
	tests := []struct {
		name       string
		endOffset  int
		manual     models.EnrollmentStatus
		enrolled   bool
		wantResult string
	}{
		{"valid for ten more days", 10, models.EnrollmentActive, true, models.GateAuthorized},
		{"last day", 0, models.EnrollmentActive, true, models.GateAuthorized},
		{"expired yesterday", -1, models.EnrollmentActive, true, models.GateBlockedInvalidEnrollment},
		{"cancelled with future end", 30, models.EnrollmentCancelled, true, models.GateBlockedInvalidEnrollment},
		{"never enrolled", 0, "", false, models.GateBlockedInvalidEnrollment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "2026-10-19T15:00:00Z")
			svc := NewCheckInService(f.db, f.clk, nil)
			member := f.member(t, "Ana Souza", "12345678901")
			if tt.enrolled {
				f.enrollment(t, member, f.plan(t, "Mensal", 10000, 30, 1), tt.endOffset, tt.manual)
			}

			res, err := svc.CheckInByID(context.Background(), member.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantResult, res.Attendance.GateOutcome)
			assert.Equal(t, models.AttendanceEntry, res.Attendance.Type)
			assert.Equal(t, member.ID, res.Attendance.MemberID)
			assert.Equal(t, int64(1), f.count(t, &models.Attendance{}))
		})
	}
}

func TestCheckInScenarios(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2026-10-19T15:00:00Z")
	notifier := &recordingNotifier{}
	svc := NewCheckInService(f.db, f.clk, notifier)
	plan := f.plan(t, "Mensal", 10000, 30, 1)

	ana := f.member(t, "Ana", "11111111111")
	f.enrollment(t, ana, plan, 10, models.EnrollmentActive)
	bruno := f.member(t, "Bruno", "22222222222")
	f.enrollment(t, bruno, plan, -3, models.EnrollmentActive)

	res, err := svc.CheckInByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.True(t, res.Authorized())
	assert.Equal(t, "Bem-vindo(a), Ana!", res.Message())

	res, err = svc.CheckInByID(ctx, bruno.ID)
	require.NoError(t, err)
	assert.False(t, res.Authorized())
	assert.True(t, res.Attendance.Blocked())
	assert.Contains(t, res.Message(), "Bruno")

	assert.Equal(t, int64(2), f.count(t, &models.Attendance{}))

	events := notifier.Events()
	require.Len(t, events, 2)
	assert.Equal(t, EventCheckInRecorded, events[0].Type)
	assert.Equal(t, models.GateAuthorized, events[0].Detail)
	assert.Equal(t, models.GateBlockedInvalidEnrollment, events[1].Detail)
}

func TestCheckInUnknownMemberWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2026-10-19T15:00:00Z")
	notifier := &recordingNotifier{}
	svc := NewCheckInService(f.db, f.clk, notifier)

	_, err := svc.CheckInByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrMemberNotFound)

	_, err = svc.CheckInByPIN(ctx, "12345")
	assert.ErrorIs(t, err, ErrMemberNotFound)

	_, err = svc.CheckInBySearch(ctx, "nobody")
	assert.ErrorIs(t, err, ErrMemberNotFound)

	assert.Zero(t, f.count(t, &models.Attendance{}))
	assert.Empty(t, notifier.Events())
}

func TestCheckInByPIN(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2026-10-19T15:00:00Z")
	svc := NewCheckInService(f.db, f.clk, nil)
	ana := f.memberWithPIN(t, "Ana", "11111111111", "04321")
	f.enrollment(t, ana, f.plan(t, "Mensal", 10000, 30, 1), 5, models.EnrollmentActive)

	res, err := svc.CheckInByPIN(ctx, " 04321 ")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, res.Member.ID)
	assert.True(t, res.Authorized())

	for _, bad := range []string{"", "1234", "123456", "12a45"} {
		_, err := svc.CheckInByPIN(ctx, bad)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, bad)
		assert.Equal(t, "pin", verr.Field)
	}
	assert.Equal(t, int64(1), f.count(t, &models.Attendance{}))
}

func TestCheckInBySearch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2026-10-19T15:00:00Z")
	svc := NewCheckInService(f.db, f.clk, nil)
	f.member(t, "Mariana Lima", "11111111111")
	maria := f.member(t, "Maria Alves", "22222222222")
	carlos := f.member(t, "Carlos Maria", "33333333333")

	res, err := svc.CheckInBySearch(ctx, "33333333333")
	require.NoError(t, err)
	assert.Equal(t, carlos.ID, res.Member.ID)

	// "maria" matches all three names; the first in name order wins.
	res, err = svc.CheckInBySearch(ctx, "MARIA")
	require.NoError(t, err)
	assert.Equal(t, carlos.ID, res.Member.ID)

	res, err = svc.CheckInBySearch(ctx, "maria alv")
	require.NoError(t, err)
	assert.Equal(t, maria.ID, res.Member.ID)

	_, err = svc.CheckInBySearch(ctx, "   ")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCheckInBySearchTreatsWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2026-10-19T15:00:00Z")
	svc := NewCheckInService(f.db, f.clk, nil)
	f.member(t, "Ana Souza", "11111111111")
	odd := f.member(t, "Zeca 100% Silva", "22222222222")

	for _, q := range []string{"%", "_", "%%", "a_a", `\`} {
		_, err := svc.CheckInBySearch(ctx, q)
		assert.ErrorIs(t, err, ErrMemberNotFound, q)
	}
	assert.Zero(t, f.count(t, &models.Attendance{}))

	res, err := svc.CheckInBySearch(ctx, "100%")
	require.NoError(t, err)
	assert.Equal(t, odd.ID, res.Member.ID)
}

func TestCheckInSurvivesNotifierFailure(t *testing.T) {
	f := newFixture(t, "2026-10-19T15:00:00Z")
	svc := NewCheckInService(f.db, f.clk, failingNotifier{})
	ana := f.member(t, "Ana", "11111111111")

	res, err := svc.CheckInByID(context.Background(), ana.ID)
	require.NoError(t, err)
	assert.False(t, res.Authorized())
	assert.Equal(t, int64(1), f.count(t, &models.Attendance{}))
}

func TestTodayAttendance(t *testing.T) {
	ctx := context.Background()
	// 02:00 UTC on the 19th is still the 18th locally.
	f := newFixture(t, "2026-10-19T02:00:00Z")
	svc := NewCheckInService(f.db, f.clk, nil)
	plan := f.plan(t, "Mensal", 10000, 30, 1)
	ana := f.member(t, "Ana", "11111111111")
	f.enrollment(t, ana, plan, 10, models.EnrollmentActive)
	bruno := f.member(t, "Bruno", "22222222222")

	_, err := svc.CheckInByID(ctx, ana.ID)
	require.NoError(t, err)

	f.setNow(t, "2026-10-19T12:00:00Z")
	_, err = svc.CheckInByID(ctx, ana.ID)
	require.NoError(t, err)
	f.setNow(t, "2026-10-19T13:00:00Z")
	_, err = svc.CheckInByID(ctx, bruno.ID)
	require.NoError(t, err)

	tests := []struct {
		filter string
		want   int
	}{
		{FilterAll, 2},
		{FilterAuthorized, 1},
		{FilterBlocked, 1},
	}
	for _, tt := range tests {
		records, total, err := svc.Today(ctx, tt.filter, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(tt.want), total, tt.filter)
		assert.Len(t, records, tt.want, tt.filter)
	}

	records, _, err := svc.Today(ctx, FilterAll, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bruno", records[0].Member.Name, "newest first")
}

func TestNormalizeAttendanceFilter(t *testing.T) {
	assert.Equal(t, FilterAuthorized, NormalizeAttendanceFilter("Liberado"))
	assert.Equal(t, FilterAuthorized, NormalizeAttendanceFilter("authorized"))
	assert.Equal(t, FilterBlocked, NormalizeAttendanceFilter("bloqueado"))
	assert.Equal(t, FilterAll, NormalizeAttendanceFilter("todos"))
	assert.Equal(t, FilterAll, NormalizeAttendanceFilter(""))
}
