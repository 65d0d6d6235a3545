package model

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   time.Time
		from *time.Location
		to   *time.Location
		want time.Time
	}{
		{"new york to los angeles", time.Date(2025, 7, 1, 13, 0, 0, 0, time.UTC), ny, la, time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)},
		{"los angeles to new york", time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC), la, ny, time.Date(2025, 7, 1, 13, 0, 0, 0, time.UTC)},
		{"crosses date line", time.Date(2025, 7, 1, 20, 0, 0, 0, time.UTC), ny, tokyo, time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC)},
		{"winter offset", time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC), ny, time.UTC, time.Date(2025, 1, 15, 17, 0, 0, 0, time.UTC)},
		{"same zone", time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC), ny, ny, time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)},
		{"nil means utc", time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC), nil, nil, time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertZone(tt.in, tt.from, tt.to))
		})
	}
}

func TestDateHelpers(t *testing.T) {
	a := time.Date(2025, 6, 2, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, 6, 5, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, -3, DaysBetween(b, a))
	assert.True(t, SameDate(a, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)))
	assert.False(t, SameDate(a, b))
	assert.Equal(t, time.Date(2025, 6, 5, 23, 59, 0, 0, time.UTC), AtTimeOf(b, a))
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("2025-06-02T09:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), got)

	_, err = ParseDateTime("2025-06-02")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestError_Is(t *testing.T) {
	err := NewError(KindNotFound, "calendar %q", "Work")
	wrapped := fmt.Errorf("lookup: %w", err)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrDuplicateName))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, `not_found: calendar "Work"`, err.Error())

	cause := errors.New("unknown time zone Mars/Olympus")
	tzErr := WrapError(KindInvalidTimezone, cause, "zone %q", "Mars/Olympus")
	assert.True(t, errors.Is(tzErr, ErrInvalidTimezone))
	assert.True(t, errors.Is(tzErr, cause))
}
