// Package roster computes insights for a whole address book.
package roster

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/engine"
	"github.com/tartampluch/go-age/internal/source"
	"golang.org/x/sync/errgroup"
)

// Entry pairs a contact with its insights.
type Entry struct {
	Name     string             `json:"name"`
	Insights engine.AgeInsights `json:"insights"`
}

// Build computes insights for every person against reference, concurrently.
// People born after reference are skipped; entries come back ordered by next
// birthday, then name.
func Build(ctx context.Context, eng *engine.Engine, people []source.Person, reference time.Time) ([]Entry, error) {
	start := time.Now()
	results := make([]*Entry, len(people))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.RosterConcurrency)

	for i, p := range people {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ins, err := eng.Compute(p.Birth, reference)
			if errors.Is(err, engine.ErrReferenceBeforeBirth) {
				slog.Debug(config.MsgSkippedUnborn,
					config.LogKeyComponent, config.CompRoster,
					config.LogKeyName, p.Name,
					config.LogKeyDOB, p.Birth.Format(config.DateFormatISO))
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = &Entry{Name: p.Name, Insights: ins}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(results))
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := a.Insights.NextBirthday.Date.Compare(b.Insights.NextBirthday.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	today := 0
	for _, e := range entries {
		if e.Insights.NextBirthday.DaysUntil == 0 {
			today++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompRoster,
				config.LogKeyName, e.Name)
		}
	}
	slog.Info(config.MsgRosterBuilt,
		config.LogKeyComponent, config.CompRoster,
		config.LogKeyCount, len(entries),
		config.LogKeyToday, today,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return entries, nil
}
