package schedule

import (
	"sort"
	"time"

	"gymbook/models"
)

// Expand emits one virtual slot per active template per window day whose
// weekday the template lists, ordered by timestamp then template id.
// Templates with a malformed time are skipped; see InvalidTemplates.
func Expand(templates []models.SlotTemplate, w Window) []models.VirtualSlot {
	var out []models.VirtualSlot
	for _, tpl := range templates {
		if !tpl.Active {
			continue
		}
		hour, minute, err := tpl.Clock()
		if err != nil {
			continue
		}
		for d := 0; d < w.Days; d++ {
			day := w.Day(d)
			if !tpl.RunsOn(day.Weekday()) {
				continue
			}
			ts := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, w.Location)
			// A DST gap can push the wall time past the window edge.
			if !w.Contains(ts) {
				continue
			}
			out = append(out, models.VirtualSlot{
				TemplateID: tpl.ID,
				Timestamp:  ts,
				Capacity:   copyCapacity(tpl.Capacity),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].TemplateID < out[j].TemplateID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// InvalidTemplates returns the active templates Expand will ignore.
func InvalidTemplates(templates []models.SlotTemplate) []models.SlotTemplate {
	var bad []models.SlotTemplate
	for _, tpl := range templates {
		if !tpl.Active {
			continue
		}
		if _, _, err := tpl.Clock(); err != nil {
			bad = append(bad, tpl)
		}
	}
	return bad
}

func copyCapacity(c *int) *int {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}
