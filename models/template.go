package models

import (
	"fmt"
	"strconv"
	"time"
)

// SlotTemplate is a recurring weekly availability rule maintained by gym staff.
// Weekdays use 0=Sunday .. 6=Saturday; Time is gym-local "HH:MM".
type SlotTemplate struct {
	ID       string `bson:"id" json:"id"`
	Weekdays []int  `bson:"weekdays" json:"weekdays"`
	Time     string `bson:"time" json:"time"`
	Active   bool   `bson:"active" json:"active"`
	Capacity *int   `bson:"capacity,omitempty" json:"capacity,omitempty"`
}

// RunsOn reports whether the template emits a slot on the given weekday.
func (t SlotTemplate) RunsOn(day time.Weekday) bool {
	for _, wd := range t.Weekdays {
		if wd == int(day) {
			return true
		}
	}
	return false
}

// Clock parses the template's "HH:MM" start time.
func (t SlotTemplate) Clock() (hour, minute int, err error) {
	if len(t.Time) != 5 || t.Time[2] != ':' {
		return 0, 0, fmt.Errorf("template %s: malformed time %q", t.ID, t.Time)
	}
	hour, herr := strconv.Atoi(t.Time[:2])
	minute, merr := strconv.Atoi(t.Time[3:])
	if herr != nil || merr != nil {
		return 0, 0, fmt.Errorf("template %s: malformed time %q", t.ID, t.Time)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("template %s: time %q out of range", t.ID, t.Time)
	}
	return hour, minute, nil
}
