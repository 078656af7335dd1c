package booking

import (
	"time"

	"gymbook/models"
)

// SlotSnapshot is what the enforcer needs to know about a slot.
type SlotSnapshot struct {
	StartsAt time.Time
	Locked   bool
	Booked   int
	Capacity int
}

func snapshotOf(slot models.VisibleSlot, defaultCapacity int) SlotSnapshot {
	snap := SlotSnapshot{
		StartsAt: slot.StartsAt(),
		Locked:   slot.IsLocked(),
		Capacity: models.EffectiveCapacity(slot.CapacityOverride(), defaultCapacity),
	}
	if persisted, ok := slot.(models.Slot); ok {
		snap.Booked = persisted.BookedCount
	}
	return snap
}

// Evaluate decides the slot's booking state. Lock wins over everything,
// then the cutoff; override only lifts the capacity limit.
func Evaluate(s SlotSnapshot, now time.Time, cutoff time.Duration, override bool) models.SlotState {
	if s.Locked {
		return models.SlotLocked
	}
	if s.StartsAt.Sub(now) < cutoff {
		return models.SlotClosed
	}
	if !override && s.Booked >= s.Capacity {
		return models.SlotFull
	}
	return models.SlotOpen
}

func rejectionFor(state models.SlotState) error {
	switch state {
	case models.SlotLocked:
		return NewRejection(RejectLocked)
	case models.SlotClosed:
		return NewRejection(RejectClosed)
	case models.SlotFull:
		return NewRejection(RejectFull)
	}
	return nil
}
