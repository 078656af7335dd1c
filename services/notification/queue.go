package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"gymbook/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeNotificationPush = "notification:push"

// PushTaskPayload is the queued form of a Notify call.
type PushTaskPayload struct {
	RecipientIDs []string                   `json:"recipientIds"`
	Payload      models.NotificationPayload `json:"payload"`
}

func NewPushTask(recipientIDs []string, payload models.NotificationPayload) (*asynq.Task, error) {
	b, err := json.Marshal(PushTaskPayload{RecipientIDs: recipientIDs, Payload: payload})
	if err != nil {
		return nil, err
	}
	// Delivery is best-effort: no retries, and the task is dropped once handled.
	return asynq.NewTask(TypeNotificationPush, b, asynq.MaxRetry(0)), nil
}

// Enqueuer is the slice of *asynq.Client the queue notifier uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueuedNotifier hands pushes to the asynq worker so request handlers never
// wait on FCM.
type QueuedNotifier struct {
	Client Enqueuer
	Logger *zap.Logger
}

func (q *QueuedNotifier) Notify(ctx context.Context, recipientIDs []string, payload models.NotificationPayload) {
	if len(recipientIDs) == 0 {
		return
	}
	task, err := NewPushTask(recipientIDs, payload)
	if err != nil {
		q.Logger.Error("failed to build push task", zap.Error(err))
		return
	}
	if _, err := q.Client.EnqueueContext(ctx, task); err != nil {
		q.Logger.Warn("failed to enqueue push", zap.String("type", string(payload.Type)), zap.Error(err))
	}
}

// HandlePushTask is the asynq handler that performs the delivery.
func HandlePushTask(pusher *PushNotifier) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p PushTaskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("invalid push payload: %v: %w", err, asynq.SkipRetry)
		}
		if err := pusher.Deliver(ctx, p.RecipientIDs, p.Payload); err != nil {
			pusher.Logger.Warn("queued push failed", zap.String("type", string(p.Payload.Type)), zap.Error(err))
		}
		return nil
	}
}
