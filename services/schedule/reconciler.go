package schedule

import (
	"sort"

	"gymbook/models"
)

// Reconcile merges template occurrences with materialized slots. A real slot
// shadows any virtual slot at the same instant, and virtual slots that
// collide with each other collapse to the first one (lowest template id when
// the input comes from Expand). The result is sorted by start time.
func Reconcile(virtual []models.VirtualSlot, materialized []models.Slot) []models.VisibleSlot {
	taken := make(map[int64]struct{}, len(materialized)+len(virtual))
	out := make([]models.VisibleSlot, 0, len(materialized)+len(virtual))

	for _, s := range materialized {
		taken[s.Timestamp.UnixNano()] = struct{}{}
		out = append(out, s)
	}
	for _, v := range virtual {
		key := v.Timestamp.UnixNano()
		if _, ok := taken[key]; ok {
			continue
		}
		taken[key] = struct{}{}
		out = append(out, v)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartsAt().Before(out[j].StartsAt())
	})
	return out
}
