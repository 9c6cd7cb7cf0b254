package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/tartampluch/go-age/internal/config"
)

// AgeInsights is the full result of one computation.
// It is built fresh on every call and never mutated afterwards; the caller owns it.
type AgeInsights struct {
	Birth          time.Time      `json:"birth"`
	Reference      time.Time      `json:"reference"`
	Age            AgeBreakdown   `json:"age"`
	Totals         DurationTotals `json:"totals"`
	NextBirthday   Anniversary    `json:"next_birthday"`
	LifeProgress   LifeProgress   `json:"life_progress"`
	Milestones     []Milestone    `json:"milestones"`
	ReferenceLabel string         `json:"reference_label"`
}

// Engine derives AgeInsights from a birth instant and a reference instant.
// It holds only immutable settings and is safe for concurrent use.
type Engine struct {
	expectancyYears int
	catalog         []config.MilestoneDefinition
}

// New validates settings and returns an Engine bound to them.
func New(settings config.Settings) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		expectancyYears: settings.ExpectancyYears,
		catalog:         slices.Clone(settings.Milestones),
	}, nil
}

// Default returns an Engine using config.DefaultSettings.
func Default() *Engine {
	s := config.DefaultSettings()
	return &Engine{expectancyYears: s.ExpectancyYears, catalog: s.Milestones}
}

// Compute derives every insight for (birth, reference).
//
// Calendar arithmetic runs in birth's location. On failure the returned
// AgeInsights is the zero value: callers never see partial output.
func (e *Engine) Compute(birth, reference time.Time) (AgeInsights, error) {
	if birth.IsZero() || reference.IsZero() {
		return AgeInsights{}, fmt.Errorf("%w: missing instant", ErrInvalidDate)
	}
	reference = reference.In(birth.Location())
	if reference.Before(birth) {
		return AgeInsights{}, fmt.Errorf("%w: %s < %s", ErrReferenceBeforeBirth,
			reference.Format(config.DateFormatISO), birth.Format(config.DateFormatISO))
	}

	return AgeInsights{
		Birth:          birth,
		Reference:      reference,
		Age:            calendarAge(birth, reference),
		Totals:         durationTotals(birth, reference),
		NextBirthday:   nextAnniversary(birth, reference),
		LifeProgress:   lifeProgress(birth, reference, e.expectancyYears),
		Milestones:     milestones(birth, reference, e.catalog),
		ReferenceLabel: reference.Format(config.DateFormatISO),
	}, nil
}

// ComputeISO parses two YYYY-MM-DD dates and computes their insights.
func (e *Engine) ComputeISO(birth, reference string) (AgeInsights, error) {
	b, err := ParseDate(birth)
	if err != nil {
		return AgeInsights{}, err
	}
	r, err := ParseDate(reference)
	if err != nil {
		return AgeInsights{}, err
	}
	return e.Compute(b, r)
}

// ComputeLive computes insights against the clock's current instant.
func (e *Engine) ComputeLive(birth time.Time, clock Clock) (AgeInsights, error) {
	return e.Compute(birth, clock.Now())
}
