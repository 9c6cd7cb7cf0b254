package roster_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-age/internal/engine"
	"github.com/tartampluch/go-age/internal/roster"
	"github.com/tartampluch/go-age/internal/source"
)

func TestBuild_SortsByNextBirthday(t *testing.T) {
	reference := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	people := []source.Person{
		{Name: "January", Birth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "December", Birth: time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC)},
		{Name: "Today B", Birth: time.Date(1980, 6, 15, 0, 0, 0, 0, time.UTC)},
		{Name: "Today A", Birth: time.Date(2001, 6, 15, 0, 0, 0, 0, time.UTC)},
		{Name: "Unborn", Birth: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	entries, err := roster.Build(context.Background(), engine.Default(), people, reference)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Today A", "Today B", "December", "January"}, names)

	assert.Equal(t, "Today!", entries[0].Insights.NextBirthday.Countdown)
	assert.Equal(t, 24, entries[0].Insights.NextBirthday.TurnsAge)
	assert.Equal(t, 36, entries[3].Insights.NextBirthday.TurnsAge, "Jan 1 is next in 2026")
}

func TestBuild_Empty(t *testing.T) {
	entries, err := roster.Build(context.Background(), engine.Default(), nil, time.Now())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	people := []source.Person{{Name: "A", Birth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}}
	_, err := roster.Build(ctx, engine.Default(), people, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}
