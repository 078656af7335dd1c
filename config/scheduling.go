package config

import (
	"fmt"
	"time"
)

// Scheduling carries every tunable the booking engine reads. It is built once
// at startup and handed to the services that need it.
type Scheduling struct {
	Location         *time.Location
	DefaultCapacity  int
	Cutoff           time.Duration
	WindowDays       int
	OneBookingPerDay bool

	ReminderLeadMin   time.Duration
	ReminderLeadMax   time.Duration
	ReminderSweepSpec string

	ExpirySweepSpec  string
	ExpiryNoticeDays int
}

// DefaultScheduling returns the stock gym rules in UTC.
func DefaultScheduling() Scheduling {
	return Scheduling{
		Location:          time.UTC,
		DefaultCapacity:   5,
		Cutoff:            time.Hour,
		WindowDays:        7,
		OneBookingPerDay:  true,
		ReminderLeadMin:   55 * time.Minute,
		ReminderLeadMax:   65 * time.Minute,
		ReminderSweepSpec: "@every 5m",
		ExpirySweepSpec:   "0 9 * * *",
		ExpiryNoticeDays:  3,
	}
}

// SchedulingFrom converts the flat viper config into typed scheduling rules.
func SchedulingFrom(c Config) (Scheduling, error) {
	s := DefaultScheduling()

	if c.GymTimezone != "" {
		loc, err := time.LoadLocation(c.GymTimezone)
		if err != nil {
			return s, fmt.Errorf("invalid GYM_TIMEZONE %q: %w", c.GymTimezone, err)
		}
		s.Location = loc
	}
	if c.DefaultCapacity > 0 {
		s.DefaultCapacity = c.DefaultCapacity
	}
	if c.BookingWindowDays > 0 {
		s.WindowDays = c.BookingWindowDays
	}
	if c.ExpiryNoticeDays > 0 {
		s.ExpiryNoticeDays = c.ExpiryNoticeDays
	}
	if c.ReminderSweepSpec != "" {
		s.ReminderSweepSpec = c.ReminderSweepSpec
	}
	if c.ExpirySweepSpec != "" {
		s.ExpirySweepSpec = c.ExpirySweepSpec
	}
	s.OneBookingPerDay = c.OneBookingPerDay

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"BOOKING_CUTOFF", c.BookingCutoff, &s.Cutoff},
		{"REMINDER_LEAD_MIN", c.ReminderLeadMin, &s.ReminderLeadMin},
		{"REMINDER_LEAD_MAX", c.ReminderLeadMax, &s.ReminderLeadMax},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return s, fmt.Errorf("invalid %s %q: %w", d.key, d.raw, err)
		}
		*d.dst = v
	}

	if s.ReminderLeadMax < s.ReminderLeadMin {
		return s, fmt.Errorf("REMINDER_LEAD_MAX (%s) is before REMINDER_LEAD_MIN (%s)", s.ReminderLeadMax, s.ReminderLeadMin)
	}
	return s, nil
}
