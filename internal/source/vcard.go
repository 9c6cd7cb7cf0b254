package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/engine"
)

// ErrDateParse reports a BDAY value in none of the supported layouts.
var ErrDateParse = errors.New(config.ErrInvalidDate)

// Person is a contact with a fully known birth date.
type Person struct {
	Name  string
	Birth time.Time
}

// Options selects the address book: a local file or a remote URL.
type Options struct {
	LocalPath   string
	URL         string
	Credentials Credentials
}

// Loader reads people from a vCard address book.
type Loader struct {
	Fetcher CardFetcher
}

// Load opens the configured address book and decodes every contact with a BDAY.
func (l *Loader) Load(ctx context.Context, opts Options) ([]Person, error) {
	reader, err := l.open(ctx, opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	return Decode(ctx, reader)
}

func (l *Loader) open(ctx context.Context, opts Options) (io.ReadCloser, error) {
	switch {
	case opts.LocalPath != "" && opts.URL != "":
		return nil, errors.New(config.ErrSourceConflict)
	case opts.LocalPath != "":
		return os.Open(opts.LocalPath)
	case opts.URL != "":
		if l.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return l.Fetcher.Fetch(ctx, opts.URL, opts.Credentials)
	default:
		return nil, errors.New(config.ErrSourceMissing)
	}
}

// Decode parses a vCard stream. Malformed cards, missing or unparsable BDAY
// values and year-less birthdays are skipped and logged. A failing reader
// aborts the decode.
func Decode(ctx context.Context, r io.Reader) ([]Person, error) {
	stream := &recordingReader{r: r}
	decoder := vcard.NewDecoder(stream)
	stats := struct{ processed, withBday int }{}
	var people []Person

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if stream.err != nil {
				return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, stream.err)
			}
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompSource,
				config.LogKeyError, err)
			continue
		}
		stats.processed++

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		name := displayName(card)
		birth, yearKnown, err := parseBirthday(bday.Value)
		switch {
		case err != nil:
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompSource,
				config.LogKeyValue, bday.Value)
			continue
		case !yearKnown:
			slog.Debug(config.MsgSkippedNoYear,
				config.LogKeyComponent, config.CompSource,
				config.LogKeyName, name)
			continue
		}

		stats.withBday++
		people = append(people, Person{Name: name, Birth: birth})
	}

	slog.Info(config.MsgSourceLoaded,
		config.LogKeyComponent, config.CompSource,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.processed),
			slog.Int(config.LogKeyFound, stats.withBday),
		),
	)
	return people, nil
}

// recordingReader keeps the first non-EOF error of r, so transport failures
// can be told apart from malformed cards.
type recordingReader struct {
	r   io.Reader
	err error
}

func (s *recordingReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && s.err == nil {
		s.err = err
	}
	return n, err
}

// displayName prefers FN, then N, then a fallback.
func displayName(card vcard.Card) string {
	if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
		return fn.Value
	}
	if n := card.Get(config.VCardN); n != nil && n.Value != "" {
		return n.Value
	}
	return config.FallbackName
}

// parseBirthday handles the vCard date layouts. Dated values become the start
// of the local day so they share the engine's calendar; yearLess values report
// yearKnown=false.
func parseBirthday(value string) (birth time.Time, yearKnown bool, err error) {
	withYear := []string{
		config.DateFormatISO,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range withYear {
		if t, err := time.Parse(f, value); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.Local), true, nil
		}
	}

	// --02-29 has to be parsed against a leap year to be accepted.
	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if t, err := time.Parse(f, value); err == nil {
			return engine.StartOfDay(config.DefaultLeapYear, t.Month(), t.Day(), time.Local), false, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("%w: %q", ErrDateParse, value)
}
