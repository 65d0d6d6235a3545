// Package calendar stores the events of one calendar and answers queries and
// scoped edits over them.
package calendar

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cyp0633/calendarium/model"
	"github.com/samber/mo"
)

// Calendar holds events whose naive timestamps are expressed in the zone the
// calendar was created with. The current zone can change later; stored
// timestamps never do.
type Calendar struct {
	mu               sync.RWMutex
	events           []model.Event
	timezone         *time.Location
	creationTimezone *time.Location
	logger           *slog.Logger
}

// Option represents a configuration option for the Calendar
type Option func(*Calendar)

// WithLogger sets the logger for the calendar
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calendar) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates an empty calendar in loc. A nil loc means UTC.
func New(loc *time.Location, opts ...Option) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	c := &Calendar{
		timezone:         loc,
		creationTimezone: loc,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// indexOf returns the position of the stored event identical to e, or -1.
// Callers hold the lock.
func (c *Calendar) indexOf(e model.Event) int {
	for i, existing := range c.events {
		if existing.Same(e) {
			return i
		}
	}
	return -1
}

// conflictsExcept reports whether e duplicates a stored event other than the one at skip.
// Callers hold the lock.
func (c *Calendar) conflictsExcept(e model.Event, skip int) bool {
	for i, existing := range c.events {
		if i != skip && existing.Same(e) {
			return true
		}
	}
	return false
}

// AddEvent stores e. An event with the same subject, start and end already
// present makes it fail with a DuplicateEvent error.
func (c *Calendar) AddEvent(e model.Event) error {
	if e.IsZero() {
		return model.NewError(model.KindInvalidArgument, "cannot add an empty event")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(e) >= 0 {
		c.logger.Debug("rejected duplicate event", "event", e.String())
		return model.NewError(model.KindDuplicateEvent, "event %q at %s already exists",
			e.Subject(), e.Start().Format(model.DateTimeLayout))
	}

	c.events = append(c.events, e)
	c.logger.Debug("added event", "event", e.String())
	return nil
}

// AddEvents stores each event that does not duplicate a stored one or an
// earlier event of the same batch. Duplicates are skipped, never fatal.
func (c *Calendar) AddEvents(events ...model.Event) BulkResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result BulkResult
	for _, e := range events {
		if e.IsZero() || c.indexOf(e) >= 0 {
			result.skip(e)
			continue
		}
		c.events = append(c.events, e)
		result.apply(e)
	}

	c.logger.Debug("added events",
		"added", len(result.Applied),
		"skipped", len(result.Skipped))
	return result
}

// RemoveEvent deletes the stored event identical to e.
func (c *Calendar) RemoveEvent(e model.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(e)
	if i < 0 {
		return model.NewError(model.KindNotFound, "event %q at %s not found",
			e.Subject(), e.Start().Format(model.DateTimeLayout))
	}

	c.events = append(c.events[:i], c.events[i+1:]...)
	c.logger.Debug("removed event", "event", e.String())
	return nil
}

// FindEvent looks an event up by subject and start. The result is an error
// matching model.ErrNotFound when nothing matches and model.ErrAmbiguousMatch
// when more than one event does.
func (c *Calendar) FindEvent(subject string, start time.Time) mo.Result[model.Event] {
	start = model.Naive(start)

	c.mu.RLock()
	defer c.mu.RUnlock()

	var found []model.Event
	for _, e := range c.events {
		if e.Subject() == subject && e.Start().Equal(start) {
			found = append(found, e)
		}
	}

	switch len(found) {
	case 0:
		return mo.Err[model.Event](model.NewError(model.KindNotFound,
			"no event %q at %s", subject, start.Format(model.DateTimeLayout)))
	case 1:
		return mo.Ok(found[0])
	default:
		return mo.Err[model.Event](model.NewError(model.KindAmbiguousMatch,
			"%d events %q at %s", len(found), subject, start.Format(model.DateTimeLayout)))
	}
}

// HasConflict reports whether an event with the same subject, start and end
// is already stored. Overlapping but distinct events do not conflict.
func (c *Calendar) HasConflict(e model.Event) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(e) >= 0
}

// Len returns the number of stored events.
func (c *Calendar) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events)
}

// Timezone returns the zone the calendar is currently displayed in.
func (c *Calendar) Timezone() *time.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timezone
}

// CreationTimezone returns the zone stored timestamps are expressed in.
func (c *Calendar) CreationTimezone() *time.Location {
	return c.creationTimezone
}

// SetTimezone changes the display zone. Stored timestamps are untouched.
func (c *Calendar) SetTimezone(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("changed calendar timezone",
		"from", c.timezone.String(),
		"to", loc.String())
	c.timezone = loc
}

// ToDisplay converts a stored timestamp to the wall clock of the current zone.
func (c *Calendar) ToDisplay(t time.Time) time.Time {
	return model.ConvertZone(t, c.creationTimezone, c.Timezone())
}

// FromDisplay converts a wall clock in the current zone to the storage frame.
func (c *Calendar) FromDisplay(t time.Time) time.Time {
	return model.ConvertZone(t, c.Timezone(), c.creationTimezone)
}

// DisplayEvent returns a copy of a stored event with both timestamps in the current zone.
func (c *Calendar) DisplayEvent(e model.Event) model.Event {
	tz := c.Timezone()
	return e.WithTimes(
		model.ConvertZone(e.Start(), c.creationTimezone, tz),
		model.ConvertZone(e.End(), c.creationTimezone, tz),
	)
}
