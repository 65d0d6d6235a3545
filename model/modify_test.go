package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateModifiedEvent(t *testing.T) {
	id := NewSeriesID()
	base := MustEvent("Lecture", at(2, 9, 0), at(2, 10, 0),
		WithLocation("Hall A"), WithDescription("intro"), WithSeries(id))

	tests := []struct {
		name     string
		property string
		value    string
		check    func(t *testing.T, got Event)
	}{
		{
			name:     "subject",
			property: "subject",
			value:    "Seminar",
			check: func(t *testing.T, got Event) {
				assert.Equal(t, "Seminar", got.Subject())
			},
		},
		{
			name:     "property names are case-insensitive",
			property: "LOCATION",
			value:    "Hall B",
			check: func(t *testing.T, got Event) {
				assert.Equal(t, "Hall B", got.Location())
			},
		},
		{
			name:     "description",
			property: "description",
			value:    "advanced",
			check: func(t *testing.T, got Event) {
				assert.Equal(t, "advanced", got.Description())
			},
		},
		{
			name:     "start keeps end when still after",
			property: "start",
			value:    "2025-06-02T09:30",
			check: func(t *testing.T, got Event) {
				assert.Equal(t, at(2, 9, 30), got.Start())
				assert.Equal(t, at(2, 10, 0), got.End())
			},
		},
		{
			name:     "start past end auto-corrects end",
			property: "start",
			value:    "2025-06-02T11:00",
			check: func(t *testing.T, got Event) {
				assert.Equal(t, at(2, 11, 0), got.Start())
				assert.Equal(t, at(2, 12, 0), got.End())
			},
		},
		{
			name:     "end before start auto-corrects",
			property: "end",
			value:    "2025-06-02T08:00",
			check: func(t *testing.T, got Event) {
				assert.Equal(t, at(2, 10, 0), got.End())
			},
		},
		{
			name:     "end with seconds",
			property: "end",
			value:    "2025-06-02T10:30:15",
			check: func(t *testing.T, got Event) {
				assert.Equal(t, at(2, 10, 30).Add(15*time.Second), got.End())
			},
		},
		{
			name:     "status public",
			property: "status",
			value:    "Public",
			check: func(t *testing.T, got Event) {
				assert.True(t, got.IsPublic())
			},
		},
		{
			name:     "status true",
			property: "status",
			value:    "true",
			check: func(t *testing.T, got Event) {
				assert.True(t, got.IsPublic())
			},
		},
		{
			name:     "status anything else is private",
			property: "status",
			value:    "hidden",
			check: func(t *testing.T, got Event) {
				assert.False(t, got.IsPublic())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CreateModifiedEvent(base, tt.property, tt.value)
			require.NoError(t, err)
			tt.check(t, got)
			assert.True(t, got.InSeries(id), "series id must survive edits")
		})
	}

	// the base value is never touched
	assert.Equal(t, "Lecture", base.Subject())
	assert.Equal(t, "Hall A", base.Location())
}

func TestCreateModifiedEvent_Errors(t *testing.T) {
	base := MustEvent("Lecture", at(2, 9, 0), at(2, 10, 0))

	tests := []struct {
		name     string
		property string
		value    string
	}{
		{"unknown property", "color", "red"},
		{"empty subject", "subject", ""},
		{"bad start", "start", "tomorrow"},
		{"bad end", "end", "2025/06/02 10:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateModifiedEvent(base, tt.property, tt.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
			assert.Equal(t, KindInvalidArgument, KindOf(err))
		})
	}
}

func TestParseProperty(t *testing.T) {
	p, err := ParseProperty(" Start ")
	require.NoError(t, err)
	assert.Equal(t, PropertyStart, p)

	_, err = ParseProperty("visibility")
	assert.Error(t, err)
}
