package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulingFromDefaults(t *testing.T) {
	s, err := SchedulingFrom(Config{OneBookingPerDay: true})
	require.NoError(t, err)

	assert.Equal(t, time.UTC, s.Location)
	assert.Equal(t, 5, s.DefaultCapacity)
	assert.Equal(t, time.Hour, s.Cutoff)
	assert.Equal(t, 7, s.WindowDays)
	assert.Equal(t, 55*time.Minute, s.ReminderLeadMin)
	assert.Equal(t, 65*time.Minute, s.ReminderLeadMax)
	assert.True(t, s.OneBookingPerDay)
}

func TestSchedulingFromOverrides(t *testing.T) {
	s, err := SchedulingFrom(Config{
		GymTimezone:     "Europe/Berlin",
		DefaultCapacity: 12,
		BookingCutoff:   "30m",
		ReminderLeadMin: "10m",
		ReminderLeadMax: "20m",
	})
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", s.Location.String())
	assert.Equal(t, 12, s.DefaultCapacity)
	assert.Equal(t, 30*time.Minute, s.Cutoff)
	assert.Equal(t, 10*time.Minute, s.ReminderLeadMin)
	assert.False(t, s.OneBookingPerDay)
}

func TestSchedulingFromRejectsBadValues(t *testing.T) {
	cases := []Config{
		{GymTimezone: "Mars/Olympus"},
		{BookingCutoff: "soon"},
		{ReminderLeadMin: "30m", ReminderLeadMax: "10m"},
	}
	for _, c := range cases {
		_, err := SchedulingFrom(c)
		assert.Error(t, err)
	}
}
