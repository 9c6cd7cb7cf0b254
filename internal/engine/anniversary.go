package engine

import "time"

// Anniversary is the next birthday on or after the reference date.
// Date is the start of the local day; DaysUntil counts calendar days from the reference date.
type Anniversary struct {
	Date      time.Time `json:"date"`
	Weekday   string    `json:"weekday"`
	DaysUntil int       `json:"days_until"`
	Countdown string    `json:"countdown"`
	TurnsAge  int       `json:"turns_age"`
}

// nextAnniversary finds the next occurrence of birth's month/day.
// The birth date itself is not a birthday, so a reference on the day of
// birth reports the first anniversary one year later.
func nextAnniversary(birth, reference time.Time) Anniversary {
	year := reference.Year()
	candidate := anniversaryIn(birth, year)

	if civilDays(reference, candidate) < 0 || candidate.Year() <= birth.Year() {
		candidate = anniversaryIn(birth, year+1)
	}

	days := civilDays(reference, candidate)
	return Anniversary{
		Date:      candidate,
		Weekday:   candidate.Weekday().String(),
		DaysUntil: days,
		Countdown: phrases.countdown(days),
		TurnsAge:  candidate.Year() - birth.Year(),
	}
}
