package models

type NotificationType string

const (
	NotifyNewBooking           NotificationType = "NEW_BOOKING"
	NotifyBookingCanceled      NotificationType = "BOOKING_CANCELED"
	NotifyBookingCanceledAdmin NotificationType = "BOOKING_CANCELED_ADMIN"
	NotifyBookingSoon          NotificationType = "BOOKING_SOON"
	NotifySubscriptionExpiry   NotificationType = "SUBSCRIPTION_EXPIRY"
)

// NotificationPayload is what the push transport delivers. Target is the app
// route opened when the notification is tapped.
type NotificationPayload struct {
	Type   NotificationType `json:"type"`
	Target string           `json:"target"`
	Title  string           `json:"title"`
	Body   string           `json:"body"`
}

// Data flattens the payload into the string map FCM expects.
func (p NotificationPayload) Data() map[string]string {
	return map[string]string{
		"type":   string(p.Type),
		"target": p.Target,
	}
}
