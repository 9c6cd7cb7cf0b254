package feed

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/roster"
)

// ErrReminder reports a malformed alarm trigger.
var ErrReminder = errors.New(config.ErrReminder)

// uidNamespace scopes the name-based UUIDs of every event we emit.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(config.UIDNamespace))

// Options tune the rendered calendar.
type Options struct {
	// ReminderTrigger is a raw ISO-8601 duration (e.g. "-P1D"); empty disables alarms.
	ReminderTrigger string
}

// Render builds an iCalendar document holding, per entry, the next birthday
// and every milestone not yet reached. stamp becomes each event's DTSTAMP.
func Render(entries []roster.Entry, stamp time.Time, opts Options) ([]byte, error) {
	if err := ValidateTrigger(opts.ReminderTrigger); err != nil {
		return nil, err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(stamp.UTC())

	for _, e := range entries {
		for _, ev := range entryEvents(e, opts) {
			ev.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, ev.Component)
		}
	}

	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgFeedRendered,
		config.LogKeyComponent, config.CompFeed,
		config.LogKeyEvents, len(cal.Children),
		config.LogKeySizeBytes, buf.Len(),
	)
	return buf.Bytes(), nil
}

// entryEvents turns one person's insights into all-day events.
func entryEvents(e roster.Entry, opts Options) []*ical.Event {
	ins := e.Insights
	birthKey := ins.Birth.Format(config.DateFormatISO)

	next := ins.NextBirthday
	events := []*ical.Event{
		newEvent(
			eventUID(e.Name, birthKey, next.Date),
			fmt.Sprintf(config.FormatBirthdaySummary, e.Name, next.TurnsAge),
			config.CategoryBirthday,
			next.Date,
			opts.ReminderTrigger,
		),
	}

	for _, m := range ins.Milestones {
		if m.Reached {
			continue
		}
		events = append(events, newEvent(
			eventUID(e.Name, birthKey+"/"+m.Label, m.TargetDate),
			fmt.Sprintf(config.FormatMilestoneSummary, e.Name, m.Label),
			config.CategoryMilestone,
			m.TargetDate,
			opts.ReminderTrigger,
		))
	}
	return events
}

func newEvent(uid, summary, category string, day time.Time, trigger string) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, uid)
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropCategories, category)

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(day)
	event.Props.Set(dtStartProp)

	if trigger != "" {
		addAlarm(event, trigger, summary)
	}
	return event
}

// ValidateTrigger accepts an empty trigger or a P / -P prefixed ISO-8601 duration.
// The value is written verbatim into every VALARM.
func ValidateTrigger(trigger string) error {
	if trigger == "" {
		return nil
	}
	rest, ok := strings.CutPrefix(trigger, config.ISONegativePrefix)
	if !ok {
		rest, ok = strings.CutPrefix(trigger, config.ISOPeriodPrefix)
	}
	if !ok || rest == "" || strings.ContainsAny(rest, " \t\r\n:;") {
		return fmt.Errorf("%w: %q", ErrReminder, trigger)
	}
	return nil
}

// eventUID is stable across refreshes: same person, subject and date give the same UID.
func eventUID(name, subject string, day time.Time) string {
	input := fmt.Sprintf(config.FormatUIDInput, name, subject, day.Format(config.DateFormatISO))
	id := uuid.NewSHA1(uidNamespace, []byte(input))
	return fmt.Sprintf(config.FormatUID, id.String(), config.ICalDomain)
}

// addAlarm appends a DISPLAY alarm to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set the raw value to avoid a VALUE=TEXT parameter.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
