package engine

import (
	"time"

	"github.com/tartampluch/go-age/internal/config"
)

// Milestone is one catalog entry resolved against a birth date.
//
// Year-based milestones fall on the birth month/day (leap-day clamped) at
// the start of the local day and are compared by date. Duration-based milestones are an
// exact offset from the birth instant and are compared by instant.
type Milestone struct {
	Label      string    `json:"label"`
	Kind       string    `json:"kind"`
	TargetDate time.Time `json:"target_date"`
	Reached    bool      `json:"reached"`
	DaysUntil  int       `json:"days_until"`
	Countdown  string    `json:"countdown"`
}

// unitMillis maps duration kinds to their length in milliseconds.
var unitMillis = map[string]int64{
	config.KindDays:    24 * 60 * 60 * 1000,
	config.KindHours:   60 * 60 * 1000,
	config.KindMinutes: 60 * 1000,
	config.KindSeconds: 1000,
}

// milestones resolves the catalog in its own order.
func milestones(birth, reference time.Time, catalog []config.MilestoneDefinition) []Milestone {
	out := make([]Milestone, 0, len(catalog))
	for _, def := range catalog {
		out = append(out, resolveMilestone(birth, reference, def))
	}
	return out
}

func resolveMilestone(birth, reference time.Time, def config.MilestoneDefinition) Milestone {
	m := Milestone{Label: def.Label, Kind: def.Kind}

	if def.Kind == config.KindYears {
		m.TargetDate = anniversaryIn(birth, birth.Year()+int(def.Value))
		m.Reached = civilDays(reference, m.TargetDate) <= 0
	} else {
		offset := def.Value * unitMillis[def.Kind]
		m.TargetDate = time.UnixMilli(birth.UnixMilli() + offset).In(birth.Location())
		m.Reached = !m.TargetDate.After(reference)
	}

	switch {
	case m.Reached:
		m.Countdown = phrases.reached()
	default:
		m.DaysUntil = civilDays(reference, m.TargetDate)
		if m.DaysUntil == 0 {
			m.Countdown = phrases.laterToday()
		} else {
			m.Countdown = phrases.inDays(m.DaysUntil)
		}
	}
	return m
}
