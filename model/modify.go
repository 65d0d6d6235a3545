package model

import (
	"strings"
)

// Property names a single editable field of an event.
type Property string

const (
	PropertySubject     Property = "subject"
	PropertyStart       Property = "start"
	PropertyEnd         Property = "end"
	PropertyLocation    Property = "location"
	PropertyDescription Property = "description"
	PropertyStatus      Property = "status"
)

// ParseProperty resolves an editable property name case-insensitively.
func ParseProperty(name string) (Property, error) {
	switch p := Property(strings.ToLower(strings.TrimSpace(name))); p {
	case PropertySubject, PropertyStart, PropertyEnd, PropertyLocation, PropertyDescription, PropertyStatus:
		return p, nil
	default:
		return "", NewError(KindInvalidArgument, "invalid property %q", name)
	}
}

// CreateModifiedEvent returns a copy of base with one property replaced.
// Start and end edits go through the setters, so they auto-correct instead
// of failing. The series id of base is kept.
func CreateModifiedEvent(base Event, property, value string) (Event, error) {
	p, err := ParseProperty(property)
	if err != nil {
		return Event{}, err
	}
	return p.Apply(base, value)
}

// Apply returns a copy of base with p set to value.
func (p Property) Apply(base Event, value string) (Event, error) {
	modified := base

	switch p {
	case PropertySubject:
		if err := modified.SetSubject(value); err != nil {
			return Event{}, err
		}
	case PropertyStart:
		t, err := ParseDateTime(value)
		if err != nil {
			return Event{}, err
		}
		if err := modified.SetStart(t); err != nil {
			return Event{}, err
		}
	case PropertyEnd:
		t, err := ParseDateTime(value)
		if err != nil {
			return Event{}, err
		}
		if err := modified.SetEnd(t); err != nil {
			return Event{}, err
		}
	case PropertyLocation:
		modified.SetLocation(value)
	case PropertyDescription:
		modified.SetDescription(value)
	case PropertyStatus:
		modified.SetPublic(strings.EqualFold(value, "public") || strings.EqualFold(value, "true"))
	default:
		return Event{}, NewError(KindInvalidArgument, "invalid property %q", string(p))
	}

	return modified, nil
}
