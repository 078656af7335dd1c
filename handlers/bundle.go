package handlers

import (
	"gymbook/config"
	"gymbook/services/booking"
	"gymbook/services/subscription"
	"gymbook/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Member endpoints
	ListSlotsHandler      gin.HandlerFunc
	BookSlotHandler       gin.HandlerFunc
	CancelBookingHandler  gin.HandlerFunc
	MyBookingsHandler     gin.HandlerFunc
	MySubscriptionHandler gin.HandlerFunc

	// Admin endpoints
	AdminListSlotsHandler     gin.HandlerFunc
	AdminBookHandler          gin.HandlerFunc
	AdminCancelBookingHandler gin.HandlerFunc
	AdminCheckInHandler       gin.HandlerFunc
	SetSlotLockHandler        gin.HandlerFunc
	AssignSubscriptionHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

func NewHandlerBundle(bookings booking.BookingService, subscriptions subscription.SubscriptionService, cfg config.Scheduling, clock utils.Clock) *HandlerBundle {
	sh := &SlotHandler{Bookings: bookings, Config: cfg, Clock: clock}
	bh := &BookingHandler{Bookings: bookings}
	ah := &AdminHandler{Bookings: bookings, Subscriptions: subscriptions, Slots: sh}
	subh := &SubscriptionHandler{Subscriptions: subscriptions, Clock: clock}

	return &HandlerBundle{
		ListSlotsHandler:      sh.ListSlots,
		BookSlotHandler:       bh.Book,
		CancelBookingHandler:  bh.Cancel,
		MyBookingsHandler:     bh.Mine,
		MySubscriptionHandler: subh.Mine,

		AdminListSlotsHandler:     ah.ListSlots,
		AdminBookHandler:          ah.Book,
		AdminCancelBookingHandler: bh.Cancel,
		AdminCheckInHandler:       ah.CheckIn,
		SetSlotLockHandler:        ah.SetLock,
		AssignSubscriptionHandler: ah.AssignSubscription,

		HealthHandler: HealthHandler,
	}
}
