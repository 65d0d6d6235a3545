package recurrence

import (
	"time"

	"github.com/cyp0633/calendarium/model"
	"github.com/teambition/rrule-go"
)

// Engine expands weekly recurrence rules into concrete events.
type Engine struct {
	cache  *Cache
	config EngineConfig
}

// NewEngine creates an engine without a cache.
func NewEngine() *Engine {
	return NewEngineWithConfig(DisabledCacheConfig)
}

// Close releases the engine's cache, if any.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// GenerateByCount emits one occurrence per day in days, walking forward from
// the template's start date, until count occurrences exist. A zero count
// yields no events.
func (e *Engine) GenerateByCount(tmpl Template, days WeekdaySet, count int) ([]model.Event, error) {
	return e.Generate(Rule{Template: tmpl, Days: days, Mode: ModeCount, Count: count})
}

// GenerateUntil emits one occurrence per day in days from the template's
// start date through until's date, inclusive.
func (e *Engine) GenerateUntil(tmpl Template, days WeekdaySet, until time.Time) ([]model.Event, error) {
	return e.Generate(Rule{Template: tmpl, Days: days, Mode: ModeUntil, Until: until})
}

// Generate expands a rule. All returned events share one freshly minted series id.
func (e *Engine) Generate(rule Rule) ([]model.Event, error) {
	if err := validateRule(rule); err != nil {
		return nil, err
	}
	if rule.Mode == ModeCount && rule.Count == 0 {
		return []model.Event{}, nil
	}

	dates, err := e.dates(rule)
	if err != nil {
		return nil, err
	}

	tmpl := rule.Template
	series := model.NewSeriesID()
	events := make([]model.Event, 0, len(dates))
	for _, date := range dates {
		ev, err := model.NewEvent(tmpl.Subject,
			model.AtTimeOf(date, tmpl.Start),
			model.AtTimeOf(date, tmpl.End),
			model.WithLocation(tmpl.Location),
			model.WithDescription(tmpl.Description),
			model.WithPublic(tmpl.Visibility == model.VisibilityPublic),
			model.WithSeries(series),
		)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// dates returns the qualifying calendar days of rule, consulting the cache first.
func (e *Engine) dates(rule Rule) ([]time.Time, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(rule); ok {
			return cached, nil
		}
	}

	if rule.Mode == ModeCount && rule.Count > e.config.MaxOccurrences {
		return nil, model.NewError(model.KindInvalidArgument, "count %d exceeds the limit of %d occurrences",
			rule.Count, e.config.MaxOccurrences)
	}

	dates, err := expandWeekly(rule)
	if err != nil {
		return nil, err
	}
	if len(dates) > e.config.MaxOccurrences {
		return nil, model.NewError(model.KindInvalidArgument, "rule expands to %d occurrences, limit is %d",
			len(dates), e.config.MaxOccurrences)
	}

	if e.cache != nil {
		e.cache.Set(rule, dates)
	}
	return dates, nil
}

// expandWeekly runs a WEEKLY rrule anchored at midnight of the start date, so
// the rule only chooses days; callers re-attach the template's time-of-day.
func expandWeekly(rule Rule) ([]time.Time, error) {
	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Interval:  1,
		Dtstart:   model.Date(rule.Template.Start),
		Byweekday: rule.Days.rruleDays(),
	}
	switch rule.Mode {
	case ModeCount:
		opt.Count = rule.Count
	case ModeUntil:
		opt.Until = model.Date(rule.Until)
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, model.WrapError(model.KindInvalidArgument, err, "failed to build weekly rule")
	}
	return r.All(), nil
}

func validateRule(rule Rule) error {
	tmpl, days := rule.Template, rule.Days
	switch {
	case tmpl.Subject == "":
		return model.NewError(model.KindInvalidArgument, "subject cannot be empty")
	case tmpl.Start.IsZero() || tmpl.End.IsZero():
		return model.NewError(model.KindInvalidArgument, "start and end are required")
	case days.IsEmpty():
		return model.NewError(model.KindInvalidArgument, "weekday set cannot be empty")
	case !tmpl.End.After(tmpl.Start):
		return model.NewError(model.KindInvalidArgument, "end must be after start")
	case !model.SameDate(tmpl.Start, tmpl.End):
		return model.NewError(model.KindInvalidArgument,
			"series occurrences must start and end on the same day, got %s to %s",
			tmpl.Start.Format(model.DateTimeLayout), tmpl.End.Format(model.DateTimeLayout))
	}

	switch rule.Mode {
	case ModeCount:
		if rule.Count < 0 {
			return model.NewError(model.KindInvalidArgument, "count cannot be negative: %d", rule.Count)
		}
	case ModeUntil:
		if rule.Until.IsZero() {
			return model.NewError(model.KindInvalidArgument, "until date is required")
		}
		if model.Date(rule.Until).Before(model.Date(tmpl.Start)) {
			return model.NewError(model.KindInvalidArgument, "until date %s is before start date %s",
				rule.Until.Format("2006-01-02"), tmpl.Start.Format("2006-01-02"))
		}
	default:
		return model.NewError(model.KindInvalidArgument, "unknown termination mode %d", rule.Mode)
	}
	return nil
}
