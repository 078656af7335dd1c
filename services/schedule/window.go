package schedule

import "time"

// Window is a half-open range [Start, End) of whole gym-local days.
type Window struct {
	Start    time.Time
	End      time.Time
	Days     int
	Location *time.Location
}

// NewWindow starts at local midnight of from's calendar day and spans days days.
func NewWindow(from time.Time, days int, loc *time.Location) Window {
	start := StartOfDay(from, loc)
	return Window{
		Start:    start,
		End:      start.AddDate(0, 0, days),
		Days:     days,
		Location: loc,
	}
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Day returns local midnight of the i-th day in the window.
func (w Window) Day(i int) time.Time {
	return w.Start.AddDate(0, 0, i)
}

// StartOfDay is local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DayBounds returns [midnight, next midnight) for t's local calendar day.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := StartOfDay(t, loc)
	return start, start.AddDate(0, 0, 1)
}
