package calendar

import (
	"sort"
	"time"

	"github.com/cyp0633/calendarium/model"
)

// UpcomingLimit caps EventsFromDate.
const UpcomingLimit = 10

// All queries below work in the storage frame: arguments are naive
// timestamps in the creation zone, like the stored events.

// Events returns every stored event ordered by start.
func (c *Calendar) Events() []model.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedByStart(c.collect(func(model.Event) bool { return true }))
}

// EventsOnDate returns the events that start on date's calendar day.
func (c *Calendar) EventsOnDate(date time.Time) []model.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.collect(func(e model.Event) bool {
		return model.SameDate(e.Start(), date)
	})
}

// EventsWithinDates returns the events overlapping the half-open window
// [from, to): an event ending exactly at from or starting exactly at to is
// left out.
func (c *Calendar) EventsWithinDates(from, to time.Time) []model.Event {
	from, to = model.Naive(from), model.Naive(to)

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.collect(func(e model.Event) bool {
		return e.End().After(from) && e.Start().Before(to)
	})
}

// IsBusy reports whether some event strictly contains t. The exact start and
// end instants of an event are not busy.
func (c *Calendar) IsBusy(t time.Time) bool {
	t = model.Naive(t)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.events {
		if e.Start().Before(t) && e.End().After(t) {
			return true
		}
	}
	return false
}

// EventsFromDate returns up to UpcomingLimit events starting on or after
// date's calendar day, ordered by start.
func (c *Calendar) EventsFromDate(date time.Time) []model.Event {
	day := model.Date(date)

	c.mu.RLock()
	defer c.mu.RUnlock()

	upcoming := sortedByStart(c.collect(func(e model.Event) bool {
		return !model.Date(e.Start()).Before(day)
	}))
	if len(upcoming) > UpcomingLimit {
		upcoming = upcoming[:UpcomingLimit]
	}
	return upcoming
}

// collect copies out the stored events matching keep, in storage order.
// Callers hold the lock.
func (c *Calendar) collect(keep func(model.Event) bool) []model.Event {
	out := make([]model.Event, 0)
	for _, e := range c.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func sortedByStart(events []model.Event) []model.Event {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start().Before(events[j].Start())
	})
	return events
}
