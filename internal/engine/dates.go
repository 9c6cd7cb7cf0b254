package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-age/internal/config"
)

// ParseDate reads an ISO-8601 calendar date (YYYY-MM-DD) as the start of that
// local day. The host's local calendar is the only time zone the engine knows about.
func ParseDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	t, err := time.Parse(config.DateFormatISO, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	y, m, d := t.Date()
	return StartOfDay(y, m, d, time.Local), nil
}

// StartOfDay returns the first instant of the civil date in loc.
//
// That is midnight, except where a DST transition skips midnight: time.Date
// then resolves to the previous evening, and the result is moved to the
// first wall-clock hour that exists on the requested date.
func StartOfDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	want := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	for h := 1; h < 24 && civilDays(t, want) > 0; h++ {
		t = time.Date(year, month, day, h, 0, 0, 0, loc)
	}
	return t
}

// daysIn returns the number of days of month in year.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampDay returns day, or the last day of the month when day does not exist in it.
// This is the single leap-day rule of the package: Feb 29 becomes Feb 28.
func clampDay(year int, month time.Month, day int) int {
	if dim := daysIn(year, month); day > dim {
		return dim
	}
	return day
}

// anniversaryIn places birth's month/day in year at the start of that local day.
func anniversaryIn(birth time.Time, year int) time.Time {
	_, m, d := birth.Date()
	return StartOfDay(year, m, clampDay(year, m, d), birth.Location())
}

// addMonths adds n (>= 0) calendar months to t, keeping the time of day and
// clamping the day to the end of the target month.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + n
	y += total / 12
	m = time.Month(total%12 + 1)
	return time.Date(y, m, clampDay(y, m, d), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// addDays moves t by n calendar days, keeping the wall clock time.
func addDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// civilDays counts calendar dates from a to b, ignoring the time of day.
// Negative when b's date precedes a's.
func civilDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	// Unix seconds rather than Sub: Duration saturates after ~292 years.
	return int((db.Unix() - da.Unix()) / secondsPerDay)
}

// wholeDays counts complete days from start to end (end >= start).
func wholeDays(start, end time.Time) int {
	n := civilDays(start, end)
	for n > 0 && addDays(start, n).After(end) {
		n--
	}
	return n
}

// wholeMonths counts complete calendar months from birth to reference.
// Both values must share a location and reference must not precede birth.
func wholeMonths(birth, reference time.Time) int {
	k := (reference.Year()-birth.Year())*12 + int(reference.Month()) - int(birth.Month())
	for k > 0 && addMonths(birth, k).After(reference) {
		k--
	}
	if k < 0 {
		return 0
	}
	return k
}
