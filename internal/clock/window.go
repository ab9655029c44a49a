package clock

import "time"

// Window is an inclusive range of local calendar days.
type Window struct {
	First time.Time
	Last  time.Time
}

// UTCRange returns the half-open UTC interval [from, to) covering every local
// day of the window.
func (c *Clock) UTCRange(w Window) (from, to time.Time) {
	return c.DayStartUTC(w.First), c.DayEndUTC(w.Last)
}

// Days returns the number of calendar days in the window.
func (w Window) Days() int {
	return DaysBetween(w.First, w.Last) + 1
}
