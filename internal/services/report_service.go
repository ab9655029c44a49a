package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/models"
	"gorm.io/gorm"
)

type Period string

const (
	PeriodDaily      Period = "daily"
	PeriodWeekly     Period = "weekly"
	PeriodMonthly    Period = "monthly"
	PeriodSemiannual Period = "semiannual"
	PeriodAnnual     Period = "annual"
)

// ParsePeriod accepts a period key. Unknown keys fall back to daily.
func ParsePeriod(key string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(key))); p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodSemiannual, PeriodAnnual:
		return p
	}
	return PeriodDaily
}

// Window returns the local calendar days the period covers for today.
func (p Period) Window(today time.Time) clock.Window {
	today = clock.Date(today)
	var first, last time.Time
	switch p {
	case PeriodWeekly:
		first, last = clock.WeekBounds(today)
	case PeriodMonthly:
		first, last = clock.MonthBounds(today)
	case PeriodSemiannual:
		first, last = clock.SemesterBounds(today)
	case PeriodAnnual:
		first, last = clock.YearBounds(today)
	default:
		first, last = today, today
	}
	return clock.Window{First: first, Last: last}
}

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

const displayDate = "02/01/2006"

// Title is the human label of a report over w.
func (p Period) Title(w clock.Window) string {
	switch p {
	case PeriodWeekly:
		return fmt.Sprintf("Relatório Semanal (%s a %s)", w.First.Format(displayDate), w.Last.Format(displayDate))
	case PeriodMonthly:
		return fmt.Sprintf("Relatório Mensal (%s/%d)", monthNames[w.First.Month()-1], w.First.Year())
	case PeriodSemiannual:
		return fmt.Sprintf("Relatório Semestral (%s a %s)", w.First.Format(displayDate), w.Last.Format(displayDate))
	case PeriodAnnual:
		return fmt.Sprintf("Relatório Anual (%d)", w.First.Year())
	default:
		return fmt.Sprintf("Relatório Diário (%s)", w.First.Format(displayDate))
	}
}

// Report metric names, in output order.
const (
	MetricMembersPresent = "Alunos presentes"
	MetricCheckIns       = "Total de check-ins"
	MetricBlocked        = "Acessos bloqueados"
	MetricNewMembers     = "Novos alunos"
	MetricRevenue        = "Receita confirmada (R$)"
)

type ReportRow struct {
	Name  string
	Value string
}

type Report struct {
	Period Period
	Title  string
	Window clock.Window
	Rows   []ReportRow
}

// Value returns the value of a metric, or "" when the report lacks it.
func (r *Report) Value(metric string) string {
	for _, row := range r.Rows {
		if row.Name == metric {
			return row.Value
		}
	}
	return ""
}

type ReportService struct {
	db    *gorm.DB
	clock *clock.Clock
}

func NewReportService(db *gorm.DB, clk *clock.Clock) *ReportService {
	return &ReportService{db: db, clock: clk}
}

// Generate aggregates attendance, registrations and revenue over the period
// containing today. Every query uses the same half-open UTC range so the
// window edges follow local midnight.
func (s *ReportService) Generate(ctx context.Context, periodKey string) (*Report, error) {
	period := ParsePeriod(periodKey)
	window := period.Window(s.clock.Today())
	from, to := s.clock.UTCRange(window)
	db := s.db.WithContext(ctx)

	inRange := func(column string) func(*gorm.DB) *gorm.DB {
		return func(q *gorm.DB) *gorm.DB {
			return q.Where(column+" >= ? AND "+column+" < ?", from, to)
		}
	}

	var present, checkIns, blocked, newMembers int64
	if err := db.Model(&models.Attendance{}).Scopes(inRange("checked_at")).
		Distinct("member_id").Count(&present).Error; err != nil {
		return nil, fmt.Errorf("failed to count present members: %w", err)
	}
	if err := db.Model(&models.Attendance{}).Scopes(inRange("checked_at")).
		Count(&checkIns).Error; err != nil {
		return nil, fmt.Errorf("failed to count check-ins: %w", err)
	}
	if err := db.Model(&models.Attendance{}).Scopes(inRange("checked_at")).
		Where("gate_outcome LIKE ?", models.GateBlockedPrefix+"%").
		Count(&blocked).Error; err != nil {
		return nil, fmt.Errorf("failed to count blocked check-ins: %w", err)
	}
	if err := db.Model(&models.Member{}).Scopes(inRange("registered_at")).
		Count(&newMembers).Error; err != nil {
		return nil, fmt.Errorf("failed to count new members: %w", err)
	}

	// Archived payments that were confirmed before archiving still count.
	var revenue int64
	err := db.Model(&models.Payment{}).Scopes(inRange("paid_at")).
		Where("status = ? OR (status = ? AND confirmed_at IS NOT NULL)", models.PaymentConfirmed, models.PaymentArchived).
		Select("CAST(COALESCE(SUM(amount_cents), 0) AS BIGINT)").
		Row().Scan(&revenue)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return &Report{
		Period: period,
		Title:  period.Title(window),
		Window: window,
		Rows: []ReportRow{
			{MetricMembersPresent, strconv.FormatInt(present, 10)},
			{MetricCheckIns, strconv.FormatInt(checkIns, 10)},
			{MetricBlocked, strconv.FormatInt(blocked, 10)},
			{MetricNewMembers, strconv.FormatInt(newMembers, 10)},
			{MetricRevenue, FormatCents(revenue)},
		},
	}, nil
}

// FormatCents renders an amount in cents with two decimals, e.g. "1234.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
