// Package clock converts between storage time (UTC) and the gym's operational
// local time, which is a fixed offset from UTC with no daylight-saving rules.
//
// Calendar dates are represented as time.Time values at midnight UTC, so a
// date compares and formats the same way regardless of the host timezone.
package clock

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Clock is safe for concurrent use. The zero value is not usable; use New.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New returns a Clock for the given offset from UTC in hours (e.g. -3).
func New(offsetHours int) *Clock {
	return &Clock{
		loc: time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600),
		now: time.Now,
	}
}

// WithNow returns a copy of c that reads the current instant from now.
func (c *Clock) WithNow(now func() time.Time) *Clock {
	return &Clock{loc: c.loc, now: now}
}

// Location returns the fixed operational zone.
func (c *Clock) Location() *time.Location { return c.loc }

// Now returns the current instant in UTC.
func (c *Clock) Now() time.Time { return c.now().UTC() }

// Today returns the current local calendar date.
func (c *Clock) Today() time.Time { return c.DateOf(c.now()) }

// ToLocal converts a persisted instant into operational local time.
func (c *Clock) ToLocal(t time.Time) time.Time { return t.In(c.loc) }

// DateOf returns the local calendar date an instant falls on.
func (c *Clock) DateOf(t time.Time) time.Time {
	return Date(c.ToLocal(t))
}

// DayStartUTC returns the UTC instant at which the local calendar day d begins.
func (c *Clock) DayStartUTC(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, c.loc).UTC()
}

// DayEndUTC returns the UTC instant at which the local calendar day d ends
// (exclusive: the start of the following local day).
func (c *Clock) DayEndUTC(d time.Time) time.Time {
	return c.DayStartUTC(AddDays(d, 1))
}

// Date strips the clock reading from t, keeping its wall calendar date.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(d time.Time) string { return d.Format(dateLayout) }

// AddDays moves a calendar date by n days.
func AddDays(d time.Time, n int) time.Time {
	return Date(d).AddDate(0, 0, n)
}

// DaysBetween returns the number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Date(b).Sub(Date(a)).Hours() / 24)
}

// WeekBounds returns the Monday that begins and the Sunday that ends the week
// containing d.
func WeekBounds(d time.Time) (monday, sunday time.Time) {
	d = Date(d)
	offset := (int(d.Weekday()) + 6) % 7
	monday = AddDays(d, -offset)
	return monday, AddDays(monday, 6)
}

// MonthBounds returns the first and last calendar day of d's month.
func MonthBounds(d time.Time) (first, last time.Time) {
	y, m, _ := d.Date()
	first = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// SemesterBounds returns a trailing window of six calendar months ending on d:
// it starts on the first day of the month five months before d's month.
func SemesterBounds(d time.Time) (first, last time.Time) {
	y, m, _ := d.Date()
	first = time.Date(y, m-5, 1, 0, 0, 0, 0, time.UTC)
	return first, Date(d)
}

// YearBounds returns January 1st and December 31st of d's year.
func YearBounds(d time.Time) (first, last time.Time) {
	y := d.Year()
	return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
}
