package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

// DefaultDuration is applied when an event is created without an end, and
// when a setter has to repair an end that fell before the start.
const DefaultDuration = time.Hour

// Visibility is the public/private status of an event.
type Visibility int

const (
	VisibilityPrivate Visibility = iota
	VisibilityPublic
)

// ParseVisibility is case-insensitive; only "public" yields VisibilityPublic.
func ParseVisibility(token string) Visibility {
	if strings.EqualFold(token, "public") {
		return VisibilityPublic
	}
	return VisibilityPrivate
}

func (v Visibility) String() string {
	if v == VisibilityPublic {
		return "public"
	}
	return "private"
}

// SeriesID labels every occurrence produced by one recurrence expansion.
type SeriesID uuid.UUID

// NewSeriesID mints a fresh, time-ordered series identifier.
func NewSeriesID() SeriesID {
	return SeriesID(uuid.Must(uuid.NewV7()))
}

// ParseSeriesID parses the canonical textual form of a series id.
func ParseSeriesID(s string) (SeriesID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return SeriesID{}, WrapError(KindInvalidArgument, err, "invalid series id %q", s)
	}
	return SeriesID(id), nil
}

func (id SeriesID) String() string {
	return uuid.UUID(id).String()
}

// Key is the identity of an event: two events with equal keys are duplicates.
type Key struct {
	Subject string
	Start   time.Time
	End     time.Time
}

// Event is a single calendar entry. Its timestamps are naive and are read in
// the timezone of whichever calendar stores the event.
//
// Events are values: a calendar stores its own copy, so mutating an Event
// obtained from a calendar never changes what the calendar holds.
type Event struct {
	subject     string
	start       time.Time
	end         time.Time
	location    string
	description string
	visibility  Visibility
	seriesID    mo.Option[SeriesID]
}

// EventOption configures optional fields in NewEvent.
type EventOption func(*Event)

// WithLocation sets the location of a new event.
func WithLocation(location string) EventOption {
	return func(e *Event) {
		e.location = location
	}
}

// WithDescription sets the description of a new event.
func WithDescription(description string) EventOption {
	return func(e *Event) {
		e.description = description
	}
}

// WithVisibility sets the visibility of a new event from a token; see ParseVisibility.
func WithVisibility(token string) EventOption {
	return func(e *Event) {
		e.visibility = ParseVisibility(token)
	}
}

// WithPublic sets the visibility of a new event directly.
func WithPublic(public bool) EventOption {
	return func(e *Event) {
		e.SetPublic(public)
	}
}

// WithSeries stamps a new event with a series id.
func WithSeries(id SeriesID) EventOption {
	return func(e *Event) {
		e.seriesID = mo.Some(id)
	}
}

// NewEvent validates and builds an event. A zero end means start plus one
// hour. Unlike SetEnd, an end before start is rejected here.
func NewEvent(subject string, start, end time.Time, opts ...EventOption) (Event, error) {
	if subject == "" {
		return Event{}, NewError(KindInvalidArgument, "subject cannot be empty")
	}
	if start.IsZero() {
		return Event{}, NewError(KindInvalidArgument, "start date/time is required")
	}

	start = Naive(start)
	if end.IsZero() {
		end = start.Add(DefaultDuration)
	} else {
		end = Naive(end)
		if end.Before(start) {
			return Event{}, NewError(KindInvalidArgument, "end %s is before start %s",
				end.Format(DateTimeLayout), start.Format(DateTimeLayout))
		}
	}

	e := Event{
		subject:    subject,
		start:      start,
		end:        end,
		visibility: VisibilityPrivate,
		seriesID:   mo.None[SeriesID](),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e, nil
}

// MustEvent is NewEvent for fixtures; it panics on invalid input.
func MustEvent(subject string, start, end time.Time, opts ...EventOption) Event {
	e, err := NewEvent(subject, start, end, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

func (e Event) Subject() string {
	return e.subject
}

func (e Event) Start() time.Time {
	return e.start
}

func (e Event) End() time.Time {
	return e.end
}

func (e Event) Location() string {
	return e.location
}

func (e Event) Description() string {
	return e.description
}

func (e Event) Visibility() Visibility {
	return e.visibility
}

func (e Event) IsPublic() bool {
	return e.visibility == VisibilityPublic
}

// SeriesID is set iff the event came from a recurrence expansion or an edit of one.
func (e Event) SeriesID() mo.Option[SeriesID] {
	return e.seriesID
}

// InSeries reports whether e carries the given series id.
func (e Event) InSeries(id SeriesID) bool {
	got, ok := e.seriesID.Get()
	return ok && got == id
}

func (e Event) Duration() time.Duration {
	return e.end.Sub(e.start)
}

// Key returns the identity triple of e.
func (e Event) Key() Key {
	return Key{Subject: e.subject, Start: e.start, End: e.end}
}

// Same reports whether e and other are duplicates: same subject, start and end.
// Location, description, visibility and series id do not take part.
func (e Event) Same(other Event) bool {
	return e.subject == other.subject && e.start.Equal(other.start) && e.end.Equal(other.end)
}

// IsZero reports whether e is the zero Event.
func (e Event) IsZero() bool {
	return e.subject == "" && e.start.IsZero()
}

// SetSubject replaces the subject; empty subjects are rejected.
func (e *Event) SetSubject(subject string) error {
	if subject == "" {
		return NewError(KindInvalidArgument, "subject cannot be empty")
	}
	e.subject = subject
	return nil
}

// SetStart moves the start. If the current end would fall before it, the end
// becomes start plus one hour.
func (e *Event) SetStart(start time.Time) error {
	if start.IsZero() {
		return NewError(KindInvalidArgument, "start date/time is required")
	}
	e.start = Naive(start)
	if e.end.Before(e.start) {
		e.end = e.start.Add(DefaultDuration)
	}
	return nil
}

// SetEnd moves the end. An end before the start is not clamped: it is
// discarded and the end becomes start plus one hour.
func (e *Event) SetEnd(end time.Time) error {
	if end.IsZero() {
		return NewError(KindInvalidArgument, "end date/time is required")
	}
	end = Naive(end)
	if end.Before(e.start) {
		e.end = e.start.Add(DefaultDuration)
		return nil
	}
	e.end = end
	return nil
}

func (e *Event) SetLocation(location string) {
	e.location = location
}

func (e *Event) SetDescription(description string) {
	e.description = description
}

func (e *Event) SetVisibility(v Visibility) {
	e.visibility = v
}

func (e *Event) SetPublic(public bool) {
	if public {
		e.visibility = VisibilityPublic
		return
	}
	e.visibility = VisibilityPrivate
}

// WithSeriesID returns a copy of e stamped with id.
func (e Event) WithSeriesID(id SeriesID) Event {
	e.seriesID = mo.Some(id)
	return e
}

// WithoutSeries returns a copy of e that belongs to no series.
func (e Event) WithoutSeries() Event {
	e.seriesID = mo.None[SeriesID]()
	return e
}

// CopyWithNewTime returns a copy of e starting at newStart with the same
// duration; every other field, series id included, is kept.
func (e Event) CopyWithNewTime(newStart time.Time) Event {
	d := e.Duration()
	e.start = Naive(newStart)
	e.end = e.start.Add(d)
	return e
}

// WithTimes returns a copy of e with both timestamps replaced verbatim.
// It is meant for zone conversions of already-valid events; an inverted
// range is repaired the way SetEnd repairs it.
func (e Event) WithTimes(start, end time.Time) Event {
	e.start = Naive(start)
	e.end = Naive(end)
	if e.end.Before(e.start) {
		e.end = e.start.Add(DefaultDuration)
	}
	return e
}

func (e Event) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s → %s", e.subject, e.start.Format(DateTimeLayout), e.end.Format(DateTimeLayout))
	if e.location != "" {
		sb.WriteString(" @ ")
		sb.WriteString(e.location)
	}
	if e.description != "" {
		fmt.Fprintf(&sb, " (%s)", e.description)
	}
	fmt.Fprintf(&sb, " [%s]", e.visibility)
	return sb.String()
}
