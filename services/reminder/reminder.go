// Package reminder holds the periodic sweeps that push time-based
// notifications: the pre-session reminder and the membership expiry notice.
package reminder

import (
	"context"
	"fmt"
	"time"

	"gymbook/config"
	bookingRepo "gymbook/database/repository/booking"
	"gymbook/metrics"
	"gymbook/services/notification"
	"gymbook/utils"

	"go.uber.org/zap"
)

const jobReminder = "booking_reminder"

// ReminderSweeper sends BOOKING_SOON once per booking whose session starts
// between ReminderLeadMin and ReminderLeadMax from now.
type ReminderSweeper struct {
	Bookings bookingRepo.BookingRepository
	Notifier notification.Notifier
	Config   config.Scheduling
	Clock    utils.Clock
	Logger   *zap.Logger
}

func (r *ReminderSweeper) Name() string { return jobReminder }

// Sweep returns how many reminders it claimed. Claiming flips reminderSent
// before the push goes out, so an overlapping sweep never sends twice.
func (r *ReminderSweeper) Sweep(ctx context.Context) (int, error) {
	started := time.Now()
	defer func() {
		metrics.SweepDuration.WithLabelValues(jobReminder).Observe(time.Since(started).Seconds())
	}()

	now := r.Clock.Now()
	from, to := now.Add(r.Config.ReminderLeadMin), now.Add(r.Config.ReminderLeadMax)
	candidates, err := r.Bookings.FindReminderCandidates(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("find reminder candidates: %w", err)
	}

	sent := 0
	for _, b := range candidates {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		claimed, err := r.Bookings.TrySetReminderSent(ctx, b.ID)
		if err != nil {
			r.Logger.Error("failed to claim reminder", zap.String("bookingID", b.ID), zap.Error(err))
			continue
		}
		if !claimed {
			continue
		}
		r.Notifier.Notify(ctx, []string{b.SubscriberID}, notification.BookingSoonMessage(b.SlotTime, r.Config.Location))
		sent++
	}

	metrics.SweepProcessed.WithLabelValues(jobReminder).Add(float64(sent))
	if sent > 0 {
		r.Logger.Info("booking reminders sent", zap.Int("count", sent), zap.Time("from", from), zap.Time("to", to))
	}
	return sent, nil
}
