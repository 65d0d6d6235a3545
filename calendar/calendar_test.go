package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/cyp0633/calendarium/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(month time.Month, day, hour, minute int) time.Time {
	return time.Date(2025, month, day, hour, minute, 0, 0, time.UTC)
}

func TestCalendar_AddAndRemove(t *testing.T) {
	cal := New(nil)
	assert.Equal(t, time.UTC, cal.Timezone())

	e := model.MustEvent("Review", at(6, 10, 9, 0), at(6, 10, 10, 0))
	require.NoError(t, cal.AddEvent(e))
	assert.Equal(t, 1, cal.Len())

	// Same triple, different descriptive fields: still a duplicate.
	dup := model.MustEvent("Review", at(6, 10, 9, 0), at(6, 10, 10, 0),
		model.WithLocation("elsewhere"), model.WithPublic(true))
	err := cal.AddEvent(dup)
	assert.True(t, errors.Is(err, model.ErrDuplicateEvent))
	assert.True(t, cal.HasConflict(dup))

	// Overlapping but distinct events are allowed.
	overlap := model.MustEvent("Review", at(6, 10, 9, 30), at(6, 10, 10, 30))
	require.NoError(t, cal.AddEvent(overlap))
	assert.Equal(t, 2, cal.Len())

	require.NoError(t, cal.RemoveEvent(e))
	assert.False(t, cal.HasConflict(e))
	assert.True(t, errors.Is(cal.RemoveEvent(e), model.ErrNotFound))

	assert.True(t, errors.Is(cal.AddEvent(model.Event{}), model.ErrInvalidArgument))
}

func TestCalendar_AddEvents(t *testing.T) {
	cal := New(time.UTC)
	a := model.MustEvent("A", at(6, 2, 9, 0), at(6, 2, 10, 0))
	b := model.MustEvent("B", at(6, 2, 9, 0), at(6, 2, 10, 0))
	require.NoError(t, cal.AddEvent(a))

	result := cal.AddEvents(a, b, b)
	assert.Equal(t, 1, result.Count())
	assert.Equal(t, []model.Event{b}, result.Applied)
	assert.Equal(t, []model.Event{a, b}, result.Skipped)
	assert.Equal(t, 2, cal.Len())
}

func TestCalendar_FindEvent(t *testing.T) {
	cal := New(time.UTC)
	require.NoError(t, cal.AddEvent(model.MustEvent("Lunch", at(6, 3, 12, 0), at(6, 3, 13, 0))))
	require.NoError(t, cal.AddEvent(model.MustEvent("Gym", at(6, 3, 18, 0), at(6, 3, 19, 0))))
	require.NoError(t, cal.AddEvent(model.MustEvent("Gym", at(6, 3, 18, 0), at(6, 3, 20, 0))))

	tests := []struct {
		name    string
		subject string
		start   time.Time
		wantErr error
	}{
		{"unique", "Lunch", at(6, 3, 12, 0), nil},
		{"missing", "Lunch", at(6, 3, 12, 30), model.ErrNotFound},
		{"wrong subject", "lunch", at(6, 3, 12, 0), model.ErrNotFound},
		{"ambiguous", "Gym", at(6, 3, 18, 0), model.ErrAmbiguousMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cal.FindEvent(tt.subject, tt.start)
			if tt.wantErr == nil {
				require.True(t, got.IsOk())
				assert.Equal(t, tt.subject, got.MustGet().Subject())
				return
			}
			require.True(t, got.IsError())
			assert.True(t, errors.Is(got.Error(), tt.wantErr))
		})
	}
}

func TestCalendar_FindEventIgnoresCallerZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	cal := New(ny)
	require.NoError(t, cal.AddEvent(model.MustEvent("Call", at(7, 1, 13, 0), time.Time{})))

	got := cal.FindEvent("Call", time.Date(2025, 7, 1, 13, 0, 0, 0, ny))
	assert.True(t, got.IsOk())
}

func TestCalendar_Timezones(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	cal := New(ny)
	e := model.MustEvent("Call", at(7, 1, 13, 0), at(7, 1, 14, 0), model.WithLocation("phone"))
	require.NoError(t, cal.AddEvent(e))

	assert.Equal(t, at(7, 1, 13, 0), cal.ToDisplay(e.Start()))

	cal.SetTimezone(la)
	assert.Equal(t, la, cal.Timezone())
	assert.Equal(t, ny, cal.CreationTimezone())

	shown := cal.DisplayEvent(e)
	assert.Equal(t, at(7, 1, 10, 0), shown.Start())
	assert.Equal(t, at(7, 1, 11, 0), shown.End())
	assert.Equal(t, "phone", shown.Location())

	assert.Equal(t, at(7, 1, 13, 0), cal.FromDisplay(at(7, 1, 10, 0)))

	// Stored timestamps are not rewritten.
	stored := cal.Events()
	require.Len(t, stored, 1)
	assert.Equal(t, at(7, 1, 13, 0), stored[0].Start())

	cal.SetTimezone(nil)
	assert.Equal(t, time.UTC, cal.Timezone())
}

func TestBulkResult(t *testing.T) {
	var r BulkResult
	assert.Equal(t, 0, r.Count())

	a := model.MustEvent("A", at(6, 2, 9, 0), time.Time{})
	b := model.MustEvent("B", at(6, 2, 9, 0), time.Time{})
	r.apply(a)
	r.skip(b)
	r.Merge(BulkResult{Applied: []model.Event{b}})

	assert.Equal(t, 2, r.Count())
	assert.Equal(t, []model.Event{a, b}, r.Applied)
	assert.Equal(t, []model.Event{b}, r.Skipped)
}
