package engine

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tartampluch/go-age/internal/config"
)

var (
	hundred        = decimal.NewFromInt(100)
	millisPerYear  = decimal.NewFromInt(config.MillisPerMeanYear)
	remainingScale = int32(1)
)

// LifeProgress measures the share of an expectancy horizon already lived.
// YearsElapsed counts mean Gregorian years (365.2425 days) of elapsed time.
type LifeProgress struct {
	Percentage      float64 `json:"percentage"`
	ExpectancyYears int     `json:"expectancy_years"`
	YearsElapsed    float64 `json:"years_elapsed"`
	YearsRemaining  float64 `json:"years_remaining"`
	Summary         string  `json:"summary"`
}

// lifeProgress uses decimal arithmetic so the percentage never steps
// backwards as reference advances.
func lifeProgress(birth, reference time.Time, expectancyYears int) LifeProgress {
	expectancy := decimal.NewFromInt(int64(expectancyYears))
	elapsed := decimal.NewFromInt(elapsedMillis(birth, reference)).Div(millisPerYear)

	pct := elapsed.Mul(hundred).Div(expectancy)
	switch {
	case pct.IsNegative():
		pct = decimal.Zero
	case pct.GreaterThan(hundred):
		pct = hundred
	}
	pct = pct.Round(config.ProgressScale)

	remaining := expectancy.Sub(elapsed)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	summary := phrases.remaining(remaining.StringFixed(remainingScale), expectancyYears)
	if pct.GreaterThanOrEqual(hundred) {
		summary = phrases.surpassed(expectancyYears)
	}

	return LifeProgress{
		Percentage:      pct.InexactFloat64(),
		ExpectancyYears: expectancyYears,
		YearsElapsed:    elapsed.Round(config.ProgressScale).InexactFloat64(),
		YearsRemaining:  remaining.Round(config.ProgressScale).InexactFloat64(),
		Summary:         summary,
	}
}
