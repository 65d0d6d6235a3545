// Package registry owns a set of named calendars, tracks the active one, and
// copies events between calendars across timezones.
package registry

import (
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cyp0633/calendarium/calendar"
	"github.com/cyp0633/calendarium/model"
	"github.com/samber/mo"
)

// TimezoneResolver turns an IANA zone name into a location.
type TimezoneResolver func(name string) (*time.Location, error)

// Registry maps unique names to calendars. The active name, when set, always
// refers to a registered calendar.
type Registry struct {
	mu        sync.RWMutex
	calendars map[string]*calendar.Calendar
	active    mo.Option[string]
	resolve   TimezoneResolver
	logger    *slog.Logger
}

// Option represents a configuration option for the Registry
type Option func(*Registry)

// WithLogger sets the logger for the registry and the calendars it creates
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTimezoneResolver replaces time.LoadLocation as the zone lookup
func WithTimezoneResolver(resolve TimezoneResolver) Option {
	return func(r *Registry) {
		if resolve != nil {
			r.resolve = resolve
		}
	}
}

// New creates an empty registry with no active calendar.
func New(opts ...Option) *Registry {
	r := &Registry{
		calendars: make(map[string]*calendar.Calendar),
		active:    mo.None[string](),
		resolve:   time.LoadLocation,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// resolveZone looks name up. The empty name and "Local" are rejected: both
// mean the host zone to time.LoadLocation, which is not portable.
func (r *Registry) resolveZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return nil, model.NewError(model.KindInvalidTimezone, "timezone %q is not an IANA zone name", name)
	}
	loc, err := r.resolve(name)
	if err != nil {
		return nil, model.WrapError(model.KindInvalidTimezone, err, "unknown timezone %q", name)
	}
	return loc, nil
}

// lookup returns the named calendar. Callers hold the lock.
func (r *Registry) lookup(name string) (*calendar.Calendar, error) {
	cal, ok := r.calendars[name]
	if !ok {
		return nil, model.NewError(model.KindNotFound, "calendar %q not found", name)
	}
	return cal, nil
}

// activeCalendar returns the active calendar and its name. Callers hold the lock.
func (r *Registry) activeCalendar() (*calendar.Calendar, string, error) {
	name, ok := r.active.Get()
	if !ok {
		return nil, "", model.NewError(model.KindNoActiveCalendar, "no calendar in use")
	}
	return r.calendars[name], name, nil
}

// CreateCalendar registers an empty calendar named name in the zone tz.
func (r *Registry) CreateCalendar(name, tz string) error {
	if strings.TrimSpace(name) == "" {
		return model.NewError(model.KindInvalidArgument, "calendar name cannot be empty")
	}
	loc, err := r.resolveZone(tz)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.calendars[name]; exists {
		r.logger.Warn("failed to create calendar: name taken", "name", name)
		return model.NewError(model.KindDuplicateName, "calendar %q already exists", name)
	}

	r.calendars[name] = calendar.New(loc, calendar.WithLogger(r.logger))
	r.logger.Info("created calendar",
		"name", name,
		"timezone", loc.String())
	return nil
}

// UseCalendar makes name the active calendar.
func (r *Registry) UseCalendar(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.lookup(name); err != nil {
		return err
	}
	r.active = mo.Some(name)
	r.logger.Debug("switched active calendar", "name", name)
	return nil
}

// ActiveCalendar returns the calendar selected by UseCalendar.
func (r *Registry) ActiveCalendar() (*calendar.Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cal, _, err := r.activeCalendar()
	return cal, err
}

// ActiveTimezone returns the current zone of the active calendar.
func (r *Registry) ActiveTimezone() (*time.Location, error) {
	cal, err := r.ActiveCalendar()
	if err != nil {
		return nil, err
	}
	return cal.Timezone(), nil
}

// ActiveName returns the name of the active calendar, if any.
func (r *Registry) ActiveName() mo.Option[string] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Calendar returns the named calendar.
func (r *Registry) Calendar(name string) (*calendar.Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(name)
}

// Names lists every registered calendar in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.calendars))
	for name := range r.calendars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EditCalendar changes one property of a calendar: "name" renames it and
// "timezone" changes its current zone.
func (r *Registry) EditCalendar(name, property, value string) error {
	switch strings.ToLower(strings.TrimSpace(property)) {
	case "name":
		return r.RenameCalendar(name, value)
	case "timezone":
		return r.SetCalendarTimezone(name, value)
	default:
		r.mu.RLock()
		_, err := r.lookup(name)
		r.mu.RUnlock()
		if err != nil {
			return err
		}
		return model.NewError(model.KindInvalidArgument, "unknown calendar property %q", property)
	}
}

// RenameCalendar moves a calendar to a new name. The active pointer follows.
func (r *Registry) RenameCalendar(name, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return model.NewError(model.KindInvalidArgument, "calendar name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cal, err := r.lookup(name)
	if err != nil {
		return err
	}
	if _, exists := r.calendars[newName]; exists {
		return model.NewError(model.KindDuplicateName, "calendar %q already exists", newName)
	}

	delete(r.calendars, name)
	r.calendars[newName] = cal
	if current, ok := r.active.Get(); ok && current == name {
		r.active = mo.Some(newName)
	}

	r.logger.Info("renamed calendar",
		"from", name,
		"to", newName)
	return nil
}

// SetCalendarTimezone changes the current zone of a calendar. Stored event
// timestamps stay in the zone the calendar was created with.
func (r *Registry) SetCalendarTimezone(name, tz string) error {
	r.mu.RLock()
	cal, err := r.lookup(name)
	r.mu.RUnlock()
	if err != nil {
		return err
	}

	loc, err := r.resolveZone(tz)
	if err != nil {
		return err
	}

	cal.SetTimezone(loc)
	r.logger.Info("changed calendar timezone",
		"name", name,
		"timezone", loc.String())
	return nil
}

// DeleteCalendar drops a calendar and its events. Deleting the active
// calendar leaves no calendar active.
func (r *Registry) DeleteCalendar(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.lookup(name); err != nil {
		return err
	}

	delete(r.calendars, name)
	if current, ok := r.active.Get(); ok && current == name {
		r.active = mo.None[string]()
	}

	r.logger.Info("deleted calendar", "name", name)
	return nil
}
