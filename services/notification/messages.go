package notification

import (
	"fmt"
	"time"

	"gymbook/models"
)

const (
	targetBookings      = "/bookings"
	targetAdminSchedule = "/admin/schedule"
	targetSubscription  = "/subscription"
)

func slotLabel(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("Mon 2 Jan, 15:04")
}

func NewBookingMessage(subscriberName string, slotTime time.Time, loc *time.Location) models.NotificationPayload {
	return models.NotificationPayload{
		Type:   models.NotifyNewBooking,
		Target: targetAdminSchedule,
		Title:  "New booking",
		Body:   fmt.Sprintf("%s booked %s.", orMember(subscriberName), slotLabel(slotTime, loc)),
	}
}

func BookingCanceledMessage(subscriberName string, slotTime time.Time, loc *time.Location) models.NotificationPayload {
	return models.NotificationPayload{
		Type:   models.NotifyBookingCanceled,
		Target: targetAdminSchedule,
		Title:  "Booking cancelled",
		Body:   fmt.Sprintf("%s cancelled %s.", orMember(subscriberName), slotLabel(slotTime, loc)),
	}
}

func BookingCanceledByAdminMessage(slotTime time.Time, loc *time.Location) models.NotificationPayload {
	return models.NotificationPayload{
		Type:   models.NotifyBookingCanceledAdmin,
		Target: targetBookings,
		Title:  "Your booking was cancelled",
		Body:   fmt.Sprintf("The gym cancelled your session on %s.", slotLabel(slotTime, loc)),
	}
}

func BookingSoonMessage(slotTime time.Time, loc *time.Location) models.NotificationPayload {
	return models.NotificationPayload{
		Type:   models.NotifyBookingSoon,
		Target: targetBookings,
		Title:  "See you soon",
		Body:   fmt.Sprintf("Your session starts at %s.", slotTime.In(loc).Format("15:04")),
	}
}

func SubscriptionExpiryMessage(endDate time.Time, loc *time.Location) models.NotificationPayload {
	return models.NotificationPayload{
		Type:   models.NotifySubscriptionExpiry,
		Target: targetSubscription,
		Title:  "Membership ending",
		Body:   fmt.Sprintf("Your membership ends on %s.", endDate.In(loc).Format("Mon 2 Jan")),
	}
}

func orMember(name string) string {
	if name == "" {
		return "A member"
	}
	return name
}
