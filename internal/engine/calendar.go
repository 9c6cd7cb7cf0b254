package engine

import "time"

const secondsPerDay = 24 * 60 * 60

// AgeBreakdown is the calendar-correct elapsed age.
//
// Adding Years*12+Months calendar months (end-of-month clamped) and then Days
// days to the birth instant lands on or before the reference, and one more day
// would pass it. Weeks is derived from the total count of whole days and is
// independent of the Years/Months/Days split.
type AgeBreakdown struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
	Weeks  int `json:"weeks"`
}

// calendarAge computes the breakdown for a validated (birth, reference) pair.
func calendarAge(birth, reference time.Time) AgeBreakdown {
	months := wholeMonths(birth, reference)
	anchor := addMonths(birth, months)

	return AgeBreakdown{
		Years:  months / 12,
		Months: months % 12,
		Days:   wholeDays(anchor, reference),
		Weeks:  wholeDays(birth, reference) / 7,
	}
}
