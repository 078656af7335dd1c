package booking

import (
	"context"
	"time"

	"gymbook/config"
	bookingRepo "gymbook/database/repository/booking"
	slotRepo "gymbook/database/repository/slot"
	userRepo "gymbook/database/repository/user"
	"gymbook/models"
	"gymbook/services/notification"
	"gymbook/services/schedule"
	"gymbook/services/subscription"
	"gymbook/utils"

	"go.uber.org/zap"
)

type BookRequest struct {
	SlotID       string
	SubscriberID string
	// Override lets an admin book past capacity. It never bypasses a lock
	// or the cutoff.
	Override bool
	Actor    models.Actor
}

type CheckInResult struct {
	Booking      *models.Booking            `json:"booking"`
	Subscription *models.ClientSubscription `json:"subscription,omitempty"`
}

// BookingService is the capacity and cutoff enforcer plus the views built on it.
type BookingService interface {
	ListSlots(ctx context.Context, from time.Time, days int) ([]models.SlotView, error)
	ListSlotsWithBookings(ctx context.Context, from time.Time, days int) ([]models.AdminSlotView, error)
	ListUpcoming(ctx context.Context, subscriberID string) ([]models.Booking, error)
	Book(ctx context.Context, req BookRequest) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID string, actor models.Actor) error
	SetLocked(ctx context.Context, slotID string, locked bool) (models.VisibleSlot, error)
	CheckIn(ctx context.Context, bookingID string) (*CheckInResult, error)
}

type DefaultBookingService struct {
	Schedule      schedule.ScheduleService
	Slots         slotRepo.SlotRepository
	Bookings      bookingRepo.BookingRepository
	Users         userRepo.UserRepository
	Subscriptions subscription.SubscriptionService
	Notifier      notification.Notifier
	Config        config.Scheduling
	Clock         utils.Clock
	Logger        *zap.Logger
}
