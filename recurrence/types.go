package recurrence

import (
	"strings"
	"time"

	"github.com/cyp0633/calendarium/model"
	"github.com/teambition/rrule-go"
)

// Template describes one occurrence of a series: its subject, the time-of-day
// and date of the first candidate day, and the fields every occurrence copies.
type Template struct {
	Subject     string
	Start       time.Time
	End         time.Time
	Location    string
	Description string
	Visibility  model.Visibility
}

// WeekdaySet is a set of days of the week.
type WeekdaySet uint8

// weekdayCodes are the single-letter day codes, indexed by time.Weekday.
var weekdayCodes = [7]byte{'U', 'M', 'T', 'W', 'R', 'F', 'S'}

var rruleWeekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// NewWeekdaySet builds a set from the given days.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// ParseWeekdays reads day codes such as "MWF": M=Monday, T=Tuesday,
// W=Wednesday, R=Thursday, F=Friday, S=Saturday, U=Sunday. Case-insensitive.
func ParseWeekdays(codes string) (WeekdaySet, error) {
	var s WeekdaySet
	for _, c := range strings.ToUpper(codes) {
		idx := strings.IndexRune(string(weekdayCodes[:]), c)
		if idx < 0 {
			return 0, model.NewError(model.KindInvalidArgument, "invalid weekday code %q", c)
		}
		s = s.With(time.Weekday(idx))
	}
	return s, nil
}

// With returns s plus d.
func (s WeekdaySet) With(d time.Weekday) WeekdaySet {
	if d < time.Sunday || d > time.Saturday {
		return s
	}
	return s | 1<<uint(d)
}

func (s WeekdaySet) Contains(d time.Weekday) bool {
	return d >= time.Sunday && d <= time.Saturday && s&(1<<uint(d)) != 0
}

func (s WeekdaySet) IsEmpty() bool {
	return s&0x7f == 0
}

func (s WeekdaySet) Len() int {
	n := 0
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Contains(d) {
			n++
		}
	}
	return n
}

// Days lists the members, Sunday first.
func (s WeekdaySet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s WeekdaySet) rruleDays() []rrule.Weekday {
	days := make([]rrule.Weekday, 0, 7)
	for _, d := range s.Days() {
		days = append(days, rruleWeekdays[d])
	}
	return days
}

// String renders the set in day codes, Monday first ("MWF", "SU").
func (s WeekdaySet) String() string {
	var sb strings.Builder
	for i := 1; i <= 7; i++ {
		d := time.Weekday(i % 7)
		if s.Contains(d) {
			sb.WriteByte(weekdayCodes[d])
		}
	}
	return sb.String()
}

// Mode selects how an expansion terminates.
type Mode int

const (
	ModeCount Mode = iota
	ModeUntil
)

func (m Mode) String() string {
	if m == ModeUntil {
		return "until"
	}
	return "count"
}

// Rule is a fully specified expansion request.
type Rule struct {
	Template Template
	Days     WeekdaySet
	Mode     Mode
	Count    int
	Until    time.Time
}
