package calendar

import (
	"github.com/cyp0633/calendarium/model"
)

// Scoped edits replace stored events with modified copies. A replacement
// that would duplicate another stored event is skipped, never fatal. The
// event being replaced does not count as a conflict with its own copy, so
// an edit that leaves subject, start and end unchanged still applies.
//
// Errors are reserved for input that makes the whole edit impossible: an
// unknown property, a malformed value, or an anchor event that is not stored.
// They are detected before anything changes.

// EditSingleEvent replaces e with a copy that has property set to value. It
// returns false when the copy would duplicate another stored event.
func (c *Calendar) EditSingleEvent(e model.Event, property, value string) (bool, error) {
	prop, err := model.ParseProperty(property)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i, err := c.anchor(e)
	if err != nil {
		return false, err
	}

	modified, err := prop.Apply(c.events[i], value)
	if err != nil {
		return false, err
	}

	return c.replace(i, modified), nil
}

// EditFutureEvents edits every event of e's series that starts at or after
// e. An event outside any series is edited alone.
func (c *Calendar) EditFutureEvents(e model.Event, property, value string) (BulkResult, error) {
	return c.editSeries(e, property, value, true)
}

// EditWholeSeries edits every event of e's series regardless of start. An
// event outside any series is edited alone.
func (c *Calendar) EditWholeSeries(e model.Event, property, value string) (BulkResult, error) {
	return c.editSeries(e, property, value, false)
}

func (c *Calendar) editSeries(e model.Event, property, value string, futureOnly bool) (BulkResult, error) {
	prop, err := model.ParseProperty(property)
	if err != nil {
		return BulkResult{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i, err := c.anchor(e)
	if err != nil {
		return BulkResult{}, err
	}
	base := c.events[i]

	// Validate the value once against the anchor so a bad value fails before
	// any occurrence changes.
	if _, err := prop.Apply(base, value); err != nil {
		return BulkResult{}, err
	}

	var targets []model.Event
	if series, ok := base.SeriesID().Get(); ok {
		for _, stored := range sortedByStart(c.collect(func(s model.Event) bool {
			return s.InSeries(series)
		})) {
			if futureOnly && stored.Start().Before(base.Start()) {
				continue
			}
			targets = append(targets, stored)
		}
	} else {
		targets = []model.Event{base}
	}

	var result BulkResult
	for _, target := range targets {
		j := c.indexOf(target)
		if j < 0 {
			// Displaced by an earlier edit of this batch.
			result.skip(target)
			continue
		}
		modified, err := prop.Apply(c.events[j], value)
		if err != nil {
			result.skip(target)
			continue
		}
		if c.replace(j, modified) {
			result.apply(modified)
		} else {
			result.skip(target)
		}
	}

	c.logger.Debug("edited series",
		"anchor", base.String(),
		"property", string(prop),
		"future_only", futureOnly,
		"edited", len(result.Applied),
		"skipped", len(result.Skipped))
	return result, nil
}

// anchor locates the stored copy of e. Callers hold the write lock.
func (c *Calendar) anchor(e model.Event) (int, error) {
	i := c.indexOf(e)
	if i < 0 {
		return -1, model.NewError(model.KindNotFound, "event %q at %s not found",
			e.Subject(), e.Start().Format(model.DateTimeLayout))
	}
	return i, nil
}

// replace swaps the event at i for modified unless modified duplicates
// another stored event. Callers hold the write lock.
func (c *Calendar) replace(i int, modified model.Event) bool {
	if c.conflictsExcept(modified, i) {
		c.logger.Debug("skipped conflicting edit",
			"event", c.events[i].String(),
			"modified", modified.String())
		return false
	}
	c.logger.Debug("edited event",
		"from", c.events[i].String(),
		"to", modified.String())
	c.events[i] = modified
	return true
}
