package booking

import (
	"context"
	"errors"
	"fmt"

	"gymbook/database/repository"
	"gymbook/metrics"
	"gymbook/models"
	"gymbook/services/schedule"

	"go.uber.org/zap"
)

// SetLocked opens or closes a slot for new bookings. Locking a template
// occurrence persists it; unlocking one is a no-op.
func (s *DefaultBookingService) SetLocked(ctx context.Context, slotID string, locked bool) (models.VisibleSlot, error) {
	slot, err := s.Schedule.ResolveSlot(ctx, slotID, s.Clock.Now())
	if errors.Is(err, schedule.ErrSlotNotFound) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve slot: %w", err)
	}
	if slot.IsVirtual() && !locked {
		return slot, nil
	}

	persisted, err := s.materialize(ctx, slot, locked)
	if err != nil {
		return nil, err
	}
	if persisted.Locked != locked {
		if err := s.Slots.SetLocked(ctx, persisted.ID, locked); err != nil {
			return nil, fmt.Errorf("set lock: %w", err)
		}
		persisted.Locked = locked
	}

	s.Logger.Info("slot lock changed", zap.String("slotID", persisted.ID), zap.Bool("locked", locked))
	return *persisted, nil
}

// CheckIn marks attendance and counts the visit against the subscription.
func (s *DefaultBookingService) CheckIn(ctx context.Context, bookingID string) (*CheckInResult, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}

	at := s.Clock.Now()
	ok, err := s.Bookings.MarkCheckedIn(ctx, bookingID, at)
	if err != nil {
		return nil, fmt.Errorf("mark checked in: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyCheckedIn
	}
	booking.CheckedIn = true
	booking.CheckedInAt = &at
	metrics.CheckIns.Inc()

	sub, err := s.Subscriptions.RecordCheckIn(ctx, booking.SubscriberID, booking.SlotTime)
	if err != nil {
		return nil, fmt.Errorf("record check-in: %w", err)
	}
	s.Logger.Info("checked in", zap.String("bookingID", booking.ID), zap.String("subscriberID", booking.SubscriberID))
	return &CheckInResult{Booking: booking, Subscription: sub}, nil
}
