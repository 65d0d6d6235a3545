package registry

import (
	"errors"
	"testing"
	"time"

	"github.com/cyp0633/calendarium/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T, calendars map[string]string) *Registry {
	t.Helper()
	r := New()
	for name, tz := range calendars {
		require.NoError(t, r.CreateCalendar(name, tz))
	}
	return r
}

func TestRegistry_CreateCalendar(t *testing.T) {
	r := newRegistry(t, map[string]string{"Work": "America/New_York"})

	tests := []struct {
		name     string
		calendar string
		tz       string
		wantErr  error
	}{
		{"new calendar", "Home", "Europe/Paris", nil},
		{"name taken", "Work", "UTC", model.ErrDuplicateName},
		{"unknown zone", "Mars", "Mars/Olympus", model.ErrInvalidTimezone},
		{"empty zone", "Blank", "", model.ErrInvalidTimezone},
		{"host zone", "Host", "Local", model.ErrInvalidTimezone},
		{"empty name", "", "UTC", model.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.CreateCalendar(tt.calendar, tt.tz)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	assert.Equal(t, []string{"Home", "Work"}, r.Names())
}

func TestRegistry_TimezoneResolver(t *testing.T) {
	calls := 0
	r := New(WithTimezoneResolver(func(name string) (*time.Location, error) {
		calls++
		return time.FixedZone(name, 2*60*60), nil
	}))

	require.NoError(t, r.CreateCalendar("Ship", "Ship/Time"))
	assert.Equal(t, 1, calls)

	cal, err := r.Calendar("Ship")
	require.NoError(t, err)
	assert.Equal(t, "Ship/Time", cal.Timezone().String())
}

func TestRegistry_ActiveCalendar(t *testing.T) {
	r := newRegistry(t, map[string]string{"Work": "America/New_York"})

	_, err := r.ActiveCalendar()
	assert.True(t, errors.Is(err, model.ErrNoActiveCalendar))
	_, err = r.ActiveTimezone()
	assert.True(t, errors.Is(err, model.ErrNoActiveCalendar))
	assert.True(t, r.ActiveName().IsAbsent())

	assert.True(t, errors.Is(r.UseCalendar("Nope"), model.ErrNotFound))

	require.NoError(t, r.UseCalendar("Work"))
	cal, err := r.ActiveCalendar()
	require.NoError(t, err)
	work, err := r.Calendar("Work")
	require.NoError(t, err)
	assert.Same(t, work, cal)

	tz, err := r.ActiveTimezone()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", tz.String())
	assert.Equal(t, "Work", r.ActiveName().MustGet())
}

func TestRegistry_RenameCalendar(t *testing.T) {
	r := newRegistry(t, map[string]string{"Work": "UTC", "Home": "UTC"})
	require.NoError(t, r.UseCalendar("Work"))
	work, _ := r.Calendar("Work")

	require.NoError(t, r.EditCalendar("Work", "name", "Office"))
	assert.Equal(t, "Office", r.ActiveName().MustGet(), "active pointer follows the rename")
	assert.Equal(t, []string{"Home", "Office"}, r.Names())

	office, err := r.Calendar("Office")
	require.NoError(t, err)
	assert.Same(t, work, office)

	_, err = r.Calendar("Work")
	assert.True(t, errors.Is(err, model.ErrNotFound))

	assert.True(t, errors.Is(r.EditCalendar("Office", "name", "Home"), model.ErrDuplicateName))
	assert.True(t, errors.Is(r.EditCalendar("Work", "name", "Other"), model.ErrNotFound))
	assert.True(t, errors.Is(r.EditCalendar("Office", "name", ""), model.ErrInvalidArgument))
	assert.True(t, errors.Is(r.EditCalendar("Office", "colour", "blue"), model.ErrInvalidArgument))
	assert.True(t, errors.Is(r.EditCalendar("Work", "colour", "blue"), model.ErrNotFound))

	// Renaming an inactive calendar leaves the active pointer alone.
	require.NoError(t, r.RenameCalendar("Home", "House"))
	assert.Equal(t, "Office", r.ActiveName().MustGet())
}

func TestRegistry_EditCalendarTimezone(t *testing.T) {
	r := newRegistry(t, map[string]string{"Work": "America/New_York"})
	require.NoError(t, r.UseCalendar("Work"))

	cal, _ := r.ActiveCalendar()
	e := model.MustEvent("Call", time.Date(2025, 7, 1, 13, 0, 0, 0, time.UTC), time.Time{})
	require.NoError(t, cal.AddEvent(e))

	require.NoError(t, r.EditCalendar("Work", "timezone", "America/Los_Angeles"))

	tz, err := r.ActiveTimezone()
	require.NoError(t, err)
	assert.Equal(t, "America/Los_Angeles", tz.String())
	assert.Equal(t, "America/New_York", cal.CreationTimezone().String())

	stored := cal.Events()
	require.Len(t, stored, 1)
	assert.Equal(t, e.Start(), stored[0].Start(), "stored timestamps are not rewritten")
	assert.Equal(t, time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC), cal.DisplayEvent(stored[0]).Start())

	assert.True(t, errors.Is(r.EditCalendar("Work", "timezone", "Nowhere/Land"), model.ErrInvalidTimezone))
	assert.True(t, errors.Is(r.SetCalendarTimezone("Gone", "UTC"), model.ErrNotFound))
}

func TestRegistry_DeleteCalendar(t *testing.T) {
	r := newRegistry(t, map[string]string{"Work": "UTC", "Home": "UTC"})
	require.NoError(t, r.UseCalendar("Work"))

	require.NoError(t, r.DeleteCalendar("Home"))
	assert.Equal(t, "Work", r.ActiveName().MustGet())

	require.NoError(t, r.DeleteCalendar("Work"))
	assert.True(t, r.ActiveName().IsAbsent())
	_, err := r.ActiveCalendar()
	assert.True(t, errors.Is(err, model.ErrNoActiveCalendar))

	assert.True(t, errors.Is(r.DeleteCalendar("Work"), model.ErrNotFound))
	assert.Empty(t, r.Names())

	// The name is free again.
	require.NoError(t, r.CreateCalendar("Work", "UTC"))
}
