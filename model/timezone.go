package model

import (
	"time"
)

// DateTimeLayout is the layout edit values and the String form use.
const DateTimeLayout = "2006-01-02T15:04"

var dateTimeLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04:05",
}

// Naive strips the zone from t and keeps its wall clock, expressed in UTC.
// Every timestamp stored on an Event goes through it so that identity
// comparisons never depend on the caller's location.
func Naive(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Date returns the calendar date of t at midnight, as a naive timestamp.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AtTimeOf places the time-of-day of clock on the calendar date of date.
func AtTimeOf(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), time.UTC)
}

// DaysBetween counts whole calendar days from a's date to b's date.
func DaysBetween(a, b time.Time) int {
	return int(Date(b).Sub(Date(a)).Hours() / 24)
}

// ConvertZone reads the naive timestamp t as a wall clock in from and returns
// the naive wall clock of the same instant in to.
func ConvertZone(t time.Time, from, to *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	if from == nil {
		from = time.UTC
	}
	if to == nil {
		to = time.UTC
	}
	instant := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), from)
	return Naive(instant.In(to))
}

// ParseDateTime parses an edit value such as "2025-06-02T09:00".
func ParseDateTime(value string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Naive(t), nil
		}
	}
	return time.Time{}, NewError(KindInvalidArgument, "unparsable date/time %q, want %s", value, DateTimeLayout)
}
