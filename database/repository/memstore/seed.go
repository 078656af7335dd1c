package memstore

import "gymbook/models"

// SeedDemo loads a weekday timetable and two accounts so a memory-backed
// server is usable straight away.
func (s *Store) SeedDemo() {
	weekdays := []int{1, 2, 3, 4, 5}
	for _, tpl := range []models.SlotTemplate{
		{ID: "weekday-0700", Weekdays: weekdays, Time: "07:00", Active: true},
		{ID: "weekday-1230", Weekdays: weekdays, Time: "12:30", Active: true},
		{ID: "weekday-1830", Weekdays: weekdays, Time: "18:30", Active: true},
		{ID: "saturday-1000", Weekdays: []int{6}, Time: "10:00", Active: true},
	} {
		s.Templates.Put(tpl)
	}
	s.Users.Put(models.Subscriber{ID: "admin", Name: "Front desk", Role: models.RoleAdmin})
	s.Users.Put(models.Subscriber{ID: "demo-member", Name: "Demo Member", Role: models.RoleClient})
}
