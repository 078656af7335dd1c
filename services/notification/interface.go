package notification

import (
	"context"

	"gymbook/models"
)

// Notifier delivers a payload to every device of each recipient. Delivery is
// fire-and-forget: failures are logged and never surface to the caller.
type Notifier interface {
	Notify(ctx context.Context, recipientIDs []string, payload models.NotificationPayload)
}
