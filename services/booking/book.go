package booking

import (
	"context"
	"errors"
	"fmt"

	"gymbook/database/repository"
	"gymbook/metrics"
	"gymbook/models"
	"gymbook/services/notification"
	"gymbook/services/schedule"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultBookingService) Book(ctx context.Context, req BookRequest) (*models.Booking, error) {
	b, err := s.book(ctx, req)
	metrics.BookingAttempts.WithLabelValues(resultLabel(err)).Inc()
	return b, err
}

func (s *DefaultBookingService) book(ctx context.Context, req BookRequest) (*models.Booking, error) {
	if req.SlotID == "" || req.SubscriberID == "" {
		return nil, fmt.Errorf("%w: slotId and subscriberId are required", ErrInvalidInput)
	}
	if req.Override && !req.Actor.IsAdmin() {
		return nil, ErrOverrideNotAllowed
	}
	if !req.Actor.IsAdmin() && req.Actor.ID != req.SubscriberID {
		return nil, ErrNotOwner
	}

	now := s.Clock.Now()
	slot, err := s.Schedule.ResolveSlot(ctx, req.SlotID, now)
	if errors.Is(err, schedule.ErrSlotNotFound) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve slot: %w", err)
	}

	snap := snapshotOf(slot, s.Config.DefaultCapacity)
	if rej := rejectionFor(Evaluate(snap, now, s.Config.Cutoff, req.Override)); rej != nil {
		return nil, rej
	}

	subscriber, err := s.Users.GetByID(ctx, req.SubscriberID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSubscriberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup subscriber: %w", err)
	}

	if err := s.checkDay(ctx, req, slot); err != nil {
		return nil, err
	}

	persisted, err := s.materialize(ctx, slot, false)
	if err != nil {
		return nil, err
	}
	if persisted.Locked {
		return nil, NewRejection(RejectLocked)
	}
	overbooked := req.Override && persisted.BookedCount >= snap.Capacity

	ok, err := s.Slots.TryReserve(ctx, persisted.ID, snap.Capacity, req.Override)
	if err != nil {
		return nil, fmt.Errorf("reserve: %w", err)
	}
	if !ok {
		return nil, s.classifyLostReserve(ctx, persisted.ID, snap.Capacity, req.Override)
	}

	booking := &models.Booking{
		ID:           uuid.New().String(),
		SlotID:       persisted.ID,
		SlotTime:     persisted.Timestamp,
		SubscriberID: req.SubscriberID,
		CreatedAt:    now,
		Overbooked:   overbooked,
	}
	if err := s.Bookings.Create(ctx, booking); err != nil {
		if relErr := s.Slots.Release(ctx, persisted.ID); relErr != nil {
			s.Logger.Error("failed to release reservation after booking write failed",
				zap.String("slotID", persisted.ID), zap.Error(relErr))
		}
		return nil, fmt.Errorf("write booking: %w", err)
	}

	s.Logger.Info("booking created",
		zap.String("bookingID", booking.ID),
		zap.String("slotID", booking.SlotID),
		zap.String("subscriberID", booking.SubscriberID),
		zap.Bool("override", req.Override),
		zap.Bool("overbooked", overbooked))

	if !req.Actor.IsAdmin() {
		s.notifyAdmins(ctx, notification.NewBookingMessage(subscriber.Name, booking.SlotTime, s.Config.Location))
	}
	return booking, nil
}

// checkDay applies the one-session-per-day rule to member bookings and
// refuses a second booking of the same slot for anyone.
func (s *DefaultBookingService) checkDay(ctx context.Context, req BookRequest, slot models.VisibleSlot) error {
	dayStart, dayEnd := schedule.DayBounds(slot.StartsAt(), s.Config.Location)
	existing, err := s.Bookings.ListBySubscriberInRange(ctx, req.SubscriberID, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("load subscriber bookings: %w", err)
	}
	for _, b := range existing {
		if b.SlotTime.Equal(slot.StartsAt()) {
			return NewRejection(RejectAlreadyBooked)
		}
	}
	if s.Config.OneBookingPerDay && !req.Override && len(existing) > 0 {
		return NewRejection(RejectDayTaken)
	}
	return nil
}

// materialize returns the persisted slot behind a visible slot, inserting
// it first when it is still virtual.
func (s *DefaultBookingService) materialize(ctx context.Context, slot models.VisibleSlot, locked bool) (*models.Slot, error) {
	switch v := slot.(type) {
	case models.Slot:
		return &v, nil
	case models.VirtualSlot:
		candidate := v.Materialize(uuid.New().String(), s.Clock.Now())
		candidate.Locked = locked
		created, err := s.Slots.Create(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("materialize slot: %w", err)
		}
		if created.ID == candidate.ID {
			metrics.SlotsMaterialized.Inc()
			s.Logger.Debug("slot materialized",
				zap.String("slotID", created.ID),
				zap.String("templateID", created.TemplateID),
				zap.Time("timestamp", created.Timestamp))
		}
		return created, nil
	default:
		return nil, fmt.Errorf("unexpected slot type %T", slot)
	}
}

func (s *DefaultBookingService) classifyLostReserve(ctx context.Context, slotID string, capacity int, override bool) error {
	current, err := s.Slots.GetByID(ctx, slotID)
	if err != nil {
		return fmt.Errorf("%w: reload slot: %v", ErrConflict, err)
	}
	if current.Locked {
		return NewRejection(RejectLocked)
	}
	if !override && current.BookedCount >= capacity {
		return NewRejection(RejectFull)
	}
	return ErrConflict
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if rej, ok := AsRejection(err); ok {
		return string(rej.Code)
	}
	if errors.Is(err, ErrConflict) {
		return "conflict"
	}
	return "error"
}
