package schedule

import (
	"testing"
	"time"

	"gymbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileRealShadowsVirtual(t *testing.T) {
	daily := models.SlotTemplate{ID: "daily", Weekdays: []int{0, 1, 2, 3, 4, 5, 6}, Time: "07:00", Active: true}
	w := NewWindow(at(1, 0, 0), 7, time.UTC)
	locked := models.Slot{ID: "real-1", Timestamp: at(2, 7, 0), Locked: true}

	got := Reconcile(Expand([]models.SlotTemplate{daily}, w), []models.Slot{locked})

	require.Len(t, got, 7)
	var onSecond []models.VisibleSlot
	for _, s := range got {
		if s.StartsAt().Equal(at(2, 7, 0)) {
			onSecond = append(onSecond, s)
		}
	}
	require.Len(t, onSecond, 1)
	assert.False(t, onSecond[0].IsVirtual())
	assert.True(t, onSecond[0].IsLocked())
	assert.Equal(t, "real-1", onSecond[0].SlotID())
}

func TestReconcileCountsAndOrder(t *testing.T) {
	virtual := []models.VirtualSlot{
		{TemplateID: "a", Timestamp: at(1, 7, 0)},
		{TemplateID: "a", Timestamp: at(2, 7, 0)},
		{TemplateID: "a", Timestamp: at(3, 7, 0)},
	}
	materialized := []models.Slot{
		{ID: "r1", Timestamp: at(2, 7, 0)},
		{ID: "r2", Timestamp: at(2, 12, 0)},
	}

	got := Reconcile(virtual, materialized)

	unshadowed := 2
	assert.Len(t, got, unshadowed+len(materialized))
	seen := map[int64]bool{}
	for i, s := range got {
		assert.False(t, seen[s.StartsAt().UnixNano()], "duplicate timestamp")
		seen[s.StartsAt().UnixNano()] = true
		if i > 0 {
			assert.True(t, got[i-1].StartsAt().Before(s.StartsAt()))
		}
	}
	assert.Equal(t, []string{
		models.VirtualSlotID("a", at(1, 7, 0)), "r1", "r2", models.VirtualSlotID("a", at(3, 7, 0)),
	}, ids(got))
}

func TestReconcileCollapsesCollidingTemplates(t *testing.T) {
	virtual := []models.VirtualSlot{
		{TemplateID: "a", Timestamp: at(1, 7, 0)},
		{TemplateID: "b", Timestamp: at(1, 7, 0)},
	}
	got := Reconcile(virtual, nil)
	require.Len(t, got, 1)
	assert.Equal(t, models.VirtualSlotID("a", at(1, 7, 0)), got[0].SlotID())
}

func ids(slots []models.VisibleSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.SlotID()
	}
	return out
}
