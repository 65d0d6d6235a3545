// Package ics converts calendars to and from iCalendar streams for import
// and export.
package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cyp0633/calendarium/calendar"
	"github.com/cyp0633/calendarium/model"
	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const (
	ProductID = "-//calendarium//Calendar Export//EN"

	PropCalendarName     = "X-WR-CALNAME"
	PropCalendarTimezone = "X-WR-TIMEZONE"
	PropSeries           = "X-CALENDARIUM-SERIES"

	classPublic  = "PUBLIC"
	classPrivate = "PRIVATE"
)

// Encode writes every event of cal as a VEVENT. Times carry the calendar's
// creation zone as TZID, so they round-trip through Decode into any calendar.
func Encode(w io.Writer, name string, cal *calendar.Calendar) error {
	out := ical.NewCalendar()
	out.Props.SetText(ical.PropVersion, "2.0")
	out.Props.SetText(ical.PropProductID, ProductID)
	if name != "" {
		out.Props.SetText(PropCalendarName, name)
	}
	out.Props.SetText(PropCalendarTimezone, cal.Timezone().String())

	stamp := time.Now().UTC()
	loc := cal.CreationTimezone()
	for _, e := range cal.Events() {
		out.Children = append(out.Children, eventComponent(e, loc, stamp))
	}

	if err := ical.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func eventComponent(e model.Event, loc *time.Location, stamp time.Time) *ical.Component {
	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, UID(e))
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	vevent.Props.SetText(ical.PropSummary, e.Subject())
	vevent.Props.SetDateTime(ical.PropDateTimeStart, inZone(e.Start(), loc))
	vevent.Props.SetDateTime(ical.PropDateTimeEnd, inZone(e.End(), loc))
	if e.Location() != "" {
		vevent.Props.SetText(ical.PropLocation, e.Location())
	}
	if e.Description() != "" {
		vevent.Props.SetText(ical.PropDescription, e.Description())
	}
	if e.IsPublic() {
		vevent.Props.SetText(ical.PropClass, classPublic)
	} else {
		vevent.Props.SetText(ical.PropClass, classPrivate)
	}
	if series, ok := e.SeriesID().Get(); ok {
		vevent.Props.SetText(PropSeries, series.String())
	}
	return vevent.Component
}

// UID derives a stable identifier from an event's subject, start and end,
// scoped to its series when it has one.
func UID(e model.Event) string {
	namespace := uuid.NameSpaceOID
	if series, ok := e.SeriesID().Get(); ok {
		namespace = uuid.UUID(series)
	}
	key := e.Key()
	name := strings.Join([]string{
		key.Subject,
		key.Start.Format(time.RFC3339Nano),
		key.End.Format(time.RFC3339Nano),
	}, "\x00")
	return uuid.NewSHA1(namespace, []byte(name)).String()
}

// inZone reads the naive timestamp t as a wall clock in loc.
func inZone(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// Decode reads every VEVENT in r and adds it to cal, skipping events that
// duplicate stored ones. Times are converted into cal's creation zone. The
// whole stream is parsed before anything is added, so a malformed event
// leaves cal untouched.
func Decode(r io.Reader, cal *calendar.Calendar) (calendar.BulkResult, error) {
	loc := cal.CreationTimezone()
	dec := ical.NewDecoder(r)

	var events []model.Event
	for {
		in, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return calendar.BulkResult{}, model.WrapError(model.KindInvalidArgument, err, "failed to decode calendar")
		}

		for _, vevent := range in.Events() {
			e, err := parseEvent(&vevent, loc)
			if err != nil {
				return calendar.BulkResult{}, err
			}
			events = append(events, e)
		}
	}

	return cal.AddEvents(events...), nil
}

func parseEvent(vevent *ical.Event, loc *time.Location) (model.Event, error) {
	uid, _ := vevent.Props.Text(ical.PropUID)

	summary, err := vevent.Props.Text(ical.PropSummary)
	if err != nil || summary == "" {
		return model.Event{}, model.NewError(model.KindInvalidArgument, "event %q has no SUMMARY", uid)
	}

	start, err := vevent.DateTimeStart(loc)
	if err != nil {
		return model.Event{}, model.WrapError(model.KindInvalidArgument, err, "event %q has a malformed DTSTART", uid)
	}
	if start.IsZero() {
		return model.Event{}, model.NewError(model.KindInvalidArgument, "event %q has no DTSTART", uid)
	}
	// Without DTEND or DURATION, go-ical reports the start as the end; leave
	// the end unset so the event gets the default duration instead.
	var end time.Time
	if vevent.Props.Get(ical.PropDateTimeEnd) != nil || vevent.Props.Get(ical.PropDuration) != nil {
		end, err = vevent.DateTimeEnd(loc)
		if err != nil {
			return model.Event{}, model.WrapError(model.KindInvalidArgument, err, "event %q has a malformed DTEND", uid)
		}
	}

	opts := []model.EventOption{}
	if location, _ := vevent.Props.Text(ical.PropLocation); location != "" {
		opts = append(opts, model.WithLocation(location))
	}
	if description, _ := vevent.Props.Text(ical.PropDescription); description != "" {
		opts = append(opts, model.WithDescription(description))
	}
	if class, _ := vevent.Props.Text(ical.PropClass); strings.EqualFold(class, classPublic) {
		opts = append(opts, model.WithPublic(true))
	}
	if raw, _ := vevent.Props.Text(PropSeries); raw != "" {
		series, err := model.ParseSeriesID(raw)
		if err != nil {
			return model.Event{}, err
		}
		opts = append(opts, model.WithSeries(series))
	}

	if !end.IsZero() {
		end = end.In(loc)
	}
	return model.NewEvent(summary, start.In(loc), end, opts...)
}
