package registry

import (
	"errors"
	"time"

	"github.com/cyp0633/calendarium/calendar"
	"github.com/cyp0633/calendarium/model"
)

// Copy operations read times and dates supplied by the caller in each
// calendar's current zone. A stored timestamp becomes an instant through the
// source's creation zone and lands in the target's creation zone, so copies
// stay correct after either calendar's zone has been changed.
//
// Calendars are resolved under the registry lock, which is released before
// any calendar is touched. Each insert checks for conflicts atomically.

// copyPair resolves the active calendar and the named target.
func (r *Registry) copyPair(target string) (*calendar.Calendar, *calendar.Calendar, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src, srcName, err := r.activeCalendar()
	if err != nil {
		return nil, nil, "", err
	}
	dst, err := r.lookup(target)
	if err != nil {
		return nil, nil, "", err
	}
	return src, dst, srcName, nil
}

// CopyEventToCalendar copies the active calendar's event named subject that
// starts at sourceStart to target, starting at destStart on target's clock.
// Duration, descriptive fields and series id are kept.
//
// It reports false without an error when the event is missing, when several
// events match, or when the copy would duplicate an event in target.
func (r *Registry) CopyEventToCalendar(subject string, sourceStart time.Time, target string, destStart time.Time) (bool, error) {
	src, dst, srcName, err := r.copyPair(target)
	if err != nil {
		return false, err
	}

	found := src.FindEvent(subject, src.FromDisplay(model.Naive(sourceStart)))
	original, err := found.Get()
	if err != nil {
		r.logger.Info("event not copied",
			"from", srcName,
			"to", target,
			"subject", subject,
			"reason", string(model.KindOf(err)))
		return false, nil
	}

	copied := original.CopyWithNewTime(dst.FromDisplay(model.Naive(destStart)))
	if err := dst.AddEvent(copied); err != nil {
		if errors.Is(err, model.ErrDuplicateEvent) {
			r.logger.Info("event not copied",
				"from", srcName,
				"to", target,
				"subject", subject,
				"reason", string(model.KindDuplicateEvent))
			return false, nil
		}
		return false, err
	}

	r.logger.Info("copied event",
		"from", srcName,
		"to", target,
		"event", copied.String())
	return true, nil
}

// CopyEventsOnDateToCalendar copies every event of the active calendar that
// starts on sourceDate to target. Each copy keeps its time-of-day on destDate
// in the source zone, converted to the target zone. Copies that would
// duplicate an event in target are skipped.
func (r *Registry) CopyEventsOnDateToCalendar(sourceDate time.Time, target string, destDate time.Time) (calendar.BulkResult, error) {
	src, dst, srcName, err := r.copyPair(target)
	if err != nil {
		return calendar.BulkResult{}, err
	}

	srcZone, dstZone := src.Timezone(), dst.CreationTimezone()

	var copies []model.Event
	for _, e := range src.Events() {
		shown := src.ToDisplay(e.Start())
		if !model.SameDate(shown, sourceDate) {
			continue
		}
		anchored := model.AtTimeOf(destDate, shown)
		copies = append(copies, e.CopyWithNewTime(model.ConvertZone(anchored, srcZone, dstZone)))
	}

	result := dst.AddEvents(copies...)
	r.logger.Info("copied events on date",
		"from", srcName,
		"to", target,
		"source_date", sourceDate.Format("2006-01-02"),
		"dest_date", destDate.Format("2006-01-02"),
		"copied", result.Count(),
		"skipped", len(result.Skipped))
	return result, nil
}

// CopyEventsBetweenDatesToCalendar copies every event of source whose start
// date lies in [startDate, endDate] to target. Each event keeps its day
// offset from startDate relative to targetDate; start and end are converted
// to the target zone independently. Copies belong to no series.
func (r *Registry) CopyEventsBetweenDatesToCalendar(source, target string, startDate, endDate, targetDate time.Time) (calendar.BulkResult, error) {
	startDay, endDay := model.Date(startDate), model.Date(endDate)
	if endDay.Before(startDay) {
		return calendar.BulkResult{}, model.NewError(model.KindInvalidArgument,
			"end date %s is before start date %s", endDay.Format("2006-01-02"), startDay.Format("2006-01-02"))
	}

	src, dst, err := r.namedPair(source, target)
	if err != nil {
		return calendar.BulkResult{}, err
	}
	return r.copyBetween(src, dst, source, target, startDay, endDay, model.Date(targetDate))
}

// namedPair resolves two calendars by name.
func (r *Registry) namedPair(source, target string) (*calendar.Calendar, *calendar.Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src, err := r.lookup(source)
	if err != nil {
		return nil, nil, err
	}
	dst, err := r.lookup(target)
	if err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}

func (r *Registry) copyBetween(src, dst *calendar.Calendar, source, target string, startDay, endDay, targetDay time.Time) (calendar.BulkResult, error) {
	srcZone, dstZone := src.Timezone(), dst.CreationTimezone()
	shift := model.DaysBetween(startDay, targetDay)

	var copies []model.Event
	for _, e := range src.Events() {
		start, end := src.ToDisplay(e.Start()), src.ToDisplay(e.End())
		day := model.Date(start)
		if day.Before(startDay) || day.After(endDay) {
			continue
		}
		copies = append(copies, e.WithoutSeries().WithTimes(
			model.ConvertZone(start.AddDate(0, 0, shift), srcZone, dstZone),
			model.ConvertZone(end.AddDate(0, 0, shift), srcZone, dstZone),
		))
	}

	result := dst.AddEvents(copies...)
	r.logger.Info("copied events between dates",
		"from", source,
		"to", target,
		"start_date", startDay.Format("2006-01-02"),
		"end_date", endDay.Format("2006-01-02"),
		"target_date", targetDay.Format("2006-01-02"),
		"copied", result.Count(),
		"skipped", len(result.Skipped))
	return result, nil
}
