package booking

import (
	"context"
	"errors"
	"fmt"

	"gymbook/database/repository"
	"gymbook/metrics"
	"gymbook/models"
	"gymbook/services/notification"

	"go.uber.org/zap"
)

// Cancel removes a booking and frees its unit. There is no cutoff on
// cancellation.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID string, actor models.Actor) error {
	if bookingID == "" {
		return fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("load booking: %w", err)
	}
	if !actor.IsAdmin() && booking.SubscriberID != actor.ID {
		return ErrNotOwner
	}

	if err := s.Bookings.Delete(ctx, bookingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("delete booking: %w", err)
	}
	if err := s.Slots.Release(ctx, booking.SlotID); err != nil {
		return fmt.Errorf("release slot: %w", err)
	}

	byAdmin := actor.IsAdmin() && actor.ID != booking.SubscriberID
	by := "member"
	if byAdmin {
		by = "admin"
	}
	metrics.Cancellations.WithLabelValues(by).Inc()
	s.Logger.Info("booking cancelled",
		zap.String("bookingID", booking.ID),
		zap.String("slotID", booking.SlotID),
		zap.String("by", by))

	if byAdmin {
		s.Notifier.Notify(ctx, []string{booking.SubscriberID},
			notification.BookingCanceledByAdminMessage(booking.SlotTime, s.Config.Location))
		return nil
	}

	name := ""
	if sub, err := s.Users.GetByID(ctx, booking.SubscriberID); err == nil {
		name = sub.Name
	}
	s.notifyAdmins(ctx, notification.BookingCanceledMessage(name, booking.SlotTime, s.Config.Location))
	return nil
}

func (s *DefaultBookingService) notifyAdmins(ctx context.Context, payload models.NotificationPayload) {
	admins, err := s.Users.ListAdmins(ctx)
	if err != nil {
		s.Logger.Warn("cannot list admins for notification", zap.String("type", string(payload.Type)), zap.Error(err))
		return
	}
	ids := make([]string, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.ID)
	}
	if len(ids) == 0 {
		return
	}
	s.Notifier.Notify(ctx, ids, payload)
}
