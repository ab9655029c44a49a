package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type testServer struct {
	app *fiber.App
	db  *gorm.DB
	clk *clock.Clock
}

// newTestServer wires the full API against an in-memory database with the
// clock frozen at 2026-10-19 12:00 local time.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.Options())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	clk := clock.New(-3).WithNow(func() time.Time { return now })
	cfg := &config.Config{JWTSecret: testSecret}

	auth := services.NewAuthService(db, testSecret, time.Hour)
	require.NoError(t, auth.EnsureAdmin(context.Background(), "admin", "admin@fitpro.local", "admin-password"))
	_, err = auth.CreateStaff(context.Background(), &dto.CreateStaffRequest{
		Username: "desk", Email: "desk@fitpro.local", Password: "desk-password",
	})
	require.NoError(t, err)

	workouts := services.NewWorkoutService(db, clk)
	h := Handlers{
		Auth:    handlers.NewAuthHandler(auth),
		Health:  handlers.NewHealthHandler(db, clk),
		Members: handlers.NewMemberHandler(services.NewMemberService(db, clk), clk),
		Enrollments: handlers.NewEnrollmentHandler(
			services.NewEnrollmentService(db, clk, nil, services.EnrollmentOptions{
				CashDiscountPercent: 10,
				ConfirmPolicy:       config.ConfirmManual,
			}),
			services.NewPlanService(db),
			clk,
		),
		Payments: handlers.NewPaymentHandler(services.NewSettlementService(db, clk), clk),
		CheckIns: handlers.NewCheckInHandler(services.NewCheckInService(db, clk, nil), clk),
		Reports:  handlers.NewReportHandler(services.NewReportService(db, clk)),
		Catalog: handlers.NewCatalogHandler(
			services.NewInstructorService(db), workouts, services.NewAnnouncementService(db), clk,
		),
	}

	app := fiber.New()
	Setup(app, cfg, db, h)
	return &testServer{app: app, db: db, clk: clk}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var auth dto.AuthResponse
	decode(t, resp, &auth)
	return auth.AccessToken
}

func (s *testServer) member(t *testing.T, name, nationalID string) models.Member {
	t.Helper()
	m := models.Member{
		Name:         name,
		NationalID:   nationalID,
		BirthDate:    datatypes.Date(time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC)),
		Phone:        "11999990000",
		Email:        nationalID + "@example.com",
		RegisteredAt: s.clk.Now(),
	}
	require.NoError(t, s.db.Create(&m).Error)
	return m
}

func (s *testServer) plan(t *testing.T) models.Plan {
	t.Helper()
	p := models.Plan{Name: "Mensal", PriceCents: 10000, DurationDays: 30, MaxInstallments: 3}
	require.NoError(t, s.db.Create(&p).Error)
	return p
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health dto.HealthResponse
	decode(t, resp, &health)
	assert.Equal(t, "2026-10-19", health.LocalDate)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "desk", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestKioskCheckIn(t *testing.T) {
	s := newTestServer(t)
	ana := s.member(t, "Ana", "11111111111")
	bruno := s.member(t, "Bruno", "22222222222")
	e := models.Enrollment{
		MemberID:     ana.ID,
		PlanID:       s.plan(t).ID,
		StartDate:    datatypes.Date(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:      datatypes.Date(time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)),
		ManualStatus: models.EnrollmentActive,
	}
	require.NoError(t, s.db.Create(&e).Error)

	resp := s.do(t, http.MethodPost, "/api/kiosk/checkin/"+ana.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var granted dto.CheckInResponse
	decode(t, resp, &granted)
	assert.Equal(t, "Authorized", granted.Outcome)
	assert.Equal(t, models.GateAuthorized, granted.Status)
	assert.Equal(t, "12:00", granted.LocalTime)
	assert.Empty(t, granted.Reason)

	// A blocked member is still a successful request.
	resp = s.do(t, http.MethodPost, "/api/kiosk/checkin/"+bruno.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var denied dto.CheckInResponse
	decode(t, resp, &denied)
	assert.Equal(t, "Blocked", denied.Outcome)
	assert.Equal(t, models.GateBlockedInvalidEnrollment, denied.Status)
	assert.Equal(t, "Matrícula Inválida", denied.Reason)
	assert.Equal(t, "Bruno", denied.MemberName)

	resp = s.do(t, http.MethodPost, "/api/kiosk/checkin/5b0c6a0e-0a7f-4f5e-9d68-3c1c2f6f8a11", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/kiosk/checkin/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var n int64
	require.NoError(t, s.db.Model(&models.Attendance{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestKioskCheckInByPIN(t *testing.T) {
	s := newTestServer(t)
	ana := s.member(t, "Ana", "11111111111")
	require.NoError(t, s.db.Model(&ana).Update("pin", "04321").Error)

	resp := s.do(t, http.MethodPost, "/api/kiosk/checkin/pin", "", dto.PINCheckInRequest{PIN: "04321"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.CheckInResponse
	decode(t, resp, &out)
	assert.Equal(t, ana.ID, out.MemberID)

	resp = s.do(t, http.MethodPost, "/api/kiosk/checkin/pin", "", dto.PINCheckInRequest{PIN: "12"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestStaffRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/members", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/members", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/members", s.login(t, "desk", "desk-password"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/admin/reports", s.login(t, "desk", "desk-password"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/admin/reports?period=weekly", s.login(t, "admin", "admin-password"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report dto.ReportResponse
	decode(t, resp, &report)
	assert.Equal(t, "weekly", report.Period)
	assert.Equal(t, "2026-10-19", report.From)
	assert.Equal(t, "2026-10-25", report.To)
	assert.Len(t, report.Rows, 5)
}

func TestReportExport(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "admin-password")

	resp := s.do(t, http.MethodGet, "/api/admin/reports/export?period=daily", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "relatorio_daily_20261019.csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Relatório Diário (19/10/2026)")
	assert.Contains(t, string(body), "Métrica,Valor")
}

func TestEnrollAndSettle(t *testing.T) {
	s := newTestServer(t)
	desk := s.login(t, "desk", "desk-password")
	ana := s.member(t, "Ana", "11111111111")
	plan := s.plan(t)

	resp := s.do(t, http.MethodPost, "/api/enrollments", desk, dto.EnrollmentRequest{
		MemberID:      ana.ID.String(),
		PlanID:        plan.ID.String(),
		PaymentMethod: string(models.MethodPix),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.EnrollmentCreatedResponse
	decode(t, resp, &created)
	assert.True(t, created.DiscountApplied)
	assert.Equal(t, int64(9000), created.Payment.AmountCents)
	assert.Equal(t, string(models.PaymentPending), created.Payment.Status)
	assert.Equal(t, "2026-11-18", created.Enrollment.EndDate)

	resp = s.do(t, http.MethodPost, "/api/payments/"+created.Payment.ID.String()+"/confirm", desk, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var settled dto.SettlementResponse
	decode(t, resp, &settled)
	assert.True(t, settled.Changed)
	assert.Equal(t, string(models.PaymentConfirmed), settled.Payment.Status)
	assert.NotNil(t, settled.Payment.ConfirmedAt)

	resp = s.do(t, http.MethodPost, "/api/payments/"+created.Payment.ID.String()+"/refund", desk, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/payments", desk, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.PaymentListResponse
	decode(t, resp, &list)
	require.Len(t, list.Payments, 1)
	assert.Equal(t, "Ana", list.Payments[0].MemberName)
	assert.Equal(t, "Mensal", list.Payments[0].PlanName)

	resp = s.do(t, http.MethodDelete, "/api/enrollments/"+created.Enrollment.ID.String(), desk, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/api/members/"+ana.ID.String(), desk, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestEnrollUnknownPlan(t *testing.T) {
	s := newTestServer(t)
	ana := s.member(t, "Ana", "11111111111")

	resp := s.do(t, http.MethodPost, "/api/enrollments", s.login(t, "desk", "desk-password"), dto.EnrollmentRequest{
		MemberID:      ana.ID.String(),
		PlanID:        "5b0c6a0e-0a7f-4f5e-9d68-3c1c2f6f8a11",
		PaymentMethod: string(models.MethodCash),
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWorkoutRoster(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "admin-password")
	desk := s.login(t, "desk", "desk-password")
	ana := s.member(t, "Ana", "11111111111")

	instructorReq := dto.InstructorRequest{
		Name: "Rafael Lima", NationalID: "77777777777", Email: "rafa@example.com",
		Phone: "11977776666", Specialty: "Musculação",
	}
	resp := s.do(t, http.MethodPost, "/api/admin/instructors", desk, instructorReq)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/admin/instructors", admin, instructorReq)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var instructor models.Instructor
	decode(t, resp, &instructor)

	resp = s.do(t, http.MethodPost, "/api/admin/instructors", admin, instructorReq)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/workouts", desk, dto.WorkoutRequest{
		Name: "Força A", Description: "Supino, agachamento", InstructorID: instructor.ID.String(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var workout dto.WorkoutResponse
	decode(t, resp, &workout)
	assert.Equal(t, "Rafael Lima", workout.InstructorName)

	path := "/api/workouts/" + workout.ID.String()
	resp = s.do(t, http.MethodPost, path+"/members", desk, dto.AssignMemberRequest{MemberID: ana.ID.String()})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, path, desk, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail dto.WorkoutResponse
	decode(t, resp, &detail)
	require.Len(t, detail.Members, 1)
	assert.Equal(t, "Ana", detail.Members[0].Name)

	resp = s.do(t, http.MethodDelete, path+"/members/"+ana.ID.String(), desk, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, path, desk, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var after dto.WorkoutResponse
	decode(t, resp, &after)
	assert.Empty(t, after.Members)
}

func TestAnnouncements(t *testing.T) {
	s := newTestServer(t)
	desk := s.login(t, "desk", "desk-password")

	resp := s.do(t, http.MethodPost, "/api/announcements", desk, dto.AnnouncementRequest{Content: "Academia fechada no feriado"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Announcement
	decode(t, resp, &created)

	resp = s.do(t, http.MethodGet, "/api/announcements", desk, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []models.Announcement
	decode(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Academia fechada no feriado", list[0].Content)

	resp = s.do(t, http.MethodDelete, "/api/announcements/"+created.ID.String(), desk, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/api/announcements/"+created.ID.String(), desk, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
