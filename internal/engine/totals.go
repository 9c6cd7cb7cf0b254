package engine

import "time"

// DurationTotals expresses the elapsed span in several units.
//
// TotalSeconds, TotalMinutes, TotalHours and TotalDays are floors of the exact
// millisecond span, each derived from the previous one. TotalMonths is the
// calendar month count (AgeBreakdown.Years*12 + Months) because months have no
// fixed length; the two families can therefore disagree around month ends.
type DurationTotals struct {
	TotalMonths  int64 `json:"total_months"`
	TotalDays    int64 `json:"total_days"`
	TotalHours   int64 `json:"total_hours"`
	TotalMinutes int64 `json:"total_minutes"`
	TotalSeconds int64 `json:"total_seconds"`
}

// elapsedMillis returns reference - birth in whole milliseconds.
func elapsedMillis(birth, reference time.Time) int64 {
	return reference.UnixMilli() - birth.UnixMilli()
}

func durationTotals(birth, reference time.Time) DurationTotals {
	seconds := elapsedMillis(birth, reference) / 1000
	minutes := seconds / 60
	hours := minutes / 60

	return DurationTotals{
		TotalMonths:  int64(wholeMonths(birth, reference)),
		TotalDays:    hours / 24,
		TotalHours:   hours,
		TotalMinutes: minutes,
		TotalSeconds: seconds,
	}
}
