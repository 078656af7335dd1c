package notification

import (
	"context"

	"gymbook/models"

	"go.uber.org/zap"
)

// LogNotifier only logs. It is used when no FCM credentials are configured.
type LogNotifier struct {
	Logger *zap.Logger
}

func (l *LogNotifier) Notify(_ context.Context, recipientIDs []string, payload models.NotificationPayload) {
	l.Logger.Info("notification (push disabled)",
		zap.String("type", string(payload.Type)),
		zap.Strings("recipients", recipientIDs),
		zap.String("title", payload.Title),
		zap.String("body", payload.Body))
}
