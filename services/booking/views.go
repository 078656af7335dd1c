package booking

import (
	"context"
	"fmt"
	"time"

	"gymbook/models"
	"gymbook/services/schedule"
)

func (s *DefaultBookingService) ListSlots(ctx context.Context, from time.Time, days int) ([]models.SlotView, error) {
	visible, err := s.Schedule.VisibleSlots(ctx, s.Schedule.Window(from, days))
	if err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	views := make([]models.SlotView, 0, len(visible))
	for _, v := range visible {
		views = append(views, s.view(v, now))
	}
	return views, nil
}

func (s *DefaultBookingService) ListSlotsWithBookings(ctx context.Context, from time.Time, days int) ([]models.AdminSlotView, error) {
	visible, err := s.Schedule.VisibleSlots(ctx, s.Schedule.Window(from, days))
	if err != nil {
		return nil, err
	}

	var realIDs []string
	for _, v := range visible {
		if !v.IsVirtual() {
			realIDs = append(realIDs, v.SlotID())
		}
	}
	bookings, err := s.Bookings.ListBySlotIDs(ctx, realIDs)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	bySlot := map[string][]models.Booking{}
	for _, b := range bookings {
		bySlot[b.SlotID] = append(bySlot[b.SlotID], b)
	}

	now := s.Clock.Now()
	out := make([]models.AdminSlotView, 0, len(visible))
	for _, v := range visible {
		list := bySlot[v.SlotID()]
		if list == nil {
			list = []models.Booking{}
		}
		out = append(out, models.AdminSlotView{SlotView: s.view(v, now), Bookings: list})
	}
	return out, nil
}

// ListUpcoming returns the subscriber's bookings from today through the
// booking window.
func (s *DefaultBookingService) ListUpcoming(ctx context.Context, subscriberID string) ([]models.Booking, error) {
	w := schedule.NewWindow(s.Clock.Now(), s.Config.WindowDays, s.Config.Location)
	return s.Bookings.ListBySubscriberInRange(ctx, subscriberID, w.Start, w.End)
}

func (s *DefaultBookingService) view(v models.VisibleSlot, now time.Time) models.SlotView {
	snap := snapshotOf(v, s.Config.DefaultCapacity)
	remaining := snap.Capacity - snap.Booked
	if remaining < 0 {
		remaining = 0
	}
	return models.SlotView{
		ID:        v.SlotID(),
		Timestamp: v.StartsAt(),
		Virtual:   v.IsVirtual(),
		Locked:    snap.Locked,
		Capacity:  snap.Capacity,
		Booked:    snap.Booked,
		Remaining: remaining,
		State:     Evaluate(snap, now, s.Config.Cutoff, false),
	}
}
