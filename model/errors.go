package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the calendar core reports.
type ErrorKind string

const (
	KindInvalidArgument  ErrorKind = "invalid_argument"
	KindDuplicateEvent   ErrorKind = "duplicate_event"
	KindDuplicateName    ErrorKind = "duplicate_name"
	KindNotFound         ErrorKind = "not_found"
	KindAmbiguousMatch   ErrorKind = "ambiguous_match"
	KindNoActiveCalendar ErrorKind = "no_active_calendar"
	KindInvalidTimezone  ErrorKind = "invalid_timezone"
)

// Error is the error type returned by the model, calendar and registry packages.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Err == nil:
		return string(e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so the package
// sentinels match any error carrying extra context.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	// ErrInvalidArgument is returned for malformed or missing input; nothing is mutated
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	// ErrDuplicateEvent is returned when an identical event is already stored
	ErrDuplicateEvent = &Error{Kind: KindDuplicateEvent}
	// ErrDuplicateName is returned when a calendar name is already taken
	ErrDuplicateName = &Error{Kind: KindDuplicateName}
	// ErrNotFound is returned when a referenced event or calendar does not exist
	ErrNotFound = &Error{Kind: KindNotFound}
	// ErrAmbiguousMatch is returned when a subject+start lookup matches several events
	ErrAmbiguousMatch = &Error{Kind: KindAmbiguousMatch}
	// ErrNoActiveCalendar is returned when an operation needs a selected calendar
	ErrNoActiveCalendar = &Error{Kind: KindNoActiveCalendar}
	// ErrInvalidTimezone is returned for unresolvable zone identifiers
	ErrInvalidTimezone = &Error{Kind: KindInvalidTimezone}
)

// NewError builds an *Error of the given kind with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds an *Error of the given kind around a cause.
func WrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
