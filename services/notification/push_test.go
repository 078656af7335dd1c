package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gymbook/database/repository/memstore"
	"gymbook/models"

	"firebase.google.com/go/v4/messaging"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errUnregistered = errors.New("registration-token-not-registered")

type fakeSender struct {
	calls [][]string
	dead  map[string]bool
	fail  error
}

func (f *fakeSender) SendEachForMulticast(_ context.Context, m *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	f.calls = append(f.calls, m.Tokens)
	if f.fail != nil {
		return nil, f.fail
	}
	resp := &messaging.BatchResponse{}
	for _, tok := range m.Tokens {
		if f.dead[tok] {
			resp.FailureCount++
			resp.Responses = append(resp.Responses, &messaging.SendResponse{Error: errUnregistered})
			continue
		}
		resp.SuccessCount++
		resp.Responses = append(resp.Responses, &messaging.SendResponse{Success: true, MessageID: "m-" + tok})
	}
	return resp, nil
}

func newPusher(store *memstore.Store, sender Sender) *PushNotifier {
	return &PushNotifier{
		Users:   store.Users,
		Sender:  sender,
		Logger:  zap.NewNop(),
		IsStale: func(err error) bool { return errors.Is(err, errUnregistered) },
	}
}

func TestDeliverPrunesDeadTokens(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	store.Users.Put(models.Subscriber{ID: "u1", FCMTokens: []string{"phone", "old-tablet"}})
	store.Users.Put(models.Subscriber{ID: "u2", FCMTokens: []string{"laptop"}})
	sender := &fakeSender{dead: map[string]bool{"old-tablet": true}}

	err := newPusher(store, sender).Deliver(ctx, []string{"u1", "u2", "ghost"}, models.NotificationPayload{Type: models.NotifyBookingSoon})
	require.NoError(t, err)

	require.Len(t, sender.calls, 1)
	assert.ElementsMatch(t, []string{"phone", "old-tablet", "laptop"}, sender.calls[0])

	u1, err := store.Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"phone"}, u1.FCMTokens)
	u2, err := store.Users.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"laptop"}, u2.FCMTokens)
}

func TestDeliverChunksLargeAudiences(t *testing.T) {
	store := memstore.New()
	var ids []string
	for i := 0; i < 3; i++ {
		var tokens []string
		for j := 0; j < 250; j++ {
			tokens = append(tokens, fmt.Sprintf("tok-%d-%d", i, j))
		}
		id := fmt.Sprintf("admin-%d", i)
		store.Users.Put(models.Subscriber{ID: id, Role: models.RoleAdmin, FCMTokens: tokens})
		ids = append(ids, id)
	}
	sender := &fakeSender{}

	require.NoError(t, newPusher(store, sender).Deliver(context.Background(), ids, models.NotificationPayload{}))
	require.Len(t, sender.calls, 2)
	assert.Len(t, sender.calls[0], maxMulticastTokens)
	assert.Len(t, sender.calls[1], 250)
}

func TestNotifySwallowsTransportErrors(t *testing.T) {
	store := memstore.New()
	store.Users.Put(models.Subscriber{ID: "u1", FCMTokens: []string{"phone"}})
	sender := &fakeSender{fail: errors.New("fcm unavailable")}
	p := newPusher(store, sender)

	assert.Error(t, p.Deliver(context.Background(), []string{"u1"}, models.NotificationPayload{}))
	assert.NotPanics(t, func() {
		p.Notify(context.Background(), []string{"u1"}, models.NotificationPayload{})
	})

	u1, _ := store.Users.GetByID(context.Background(), "u1")
	assert.Equal(t, []string{"phone"}, u1.FCMTokens, "transport failure is not a dead token")
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t1"}, nil
}

func TestQueuedNotifierFeedsWorkerHandler(t *testing.T) {
	store := memstore.New()
	store.Users.Put(models.Subscriber{ID: "u1", FCMTokens: []string{"phone"}})
	sender := &fakeSender{}
	q := &fakeEnqueuer{}

	notifier := &QueuedNotifier{Client: q, Logger: zap.NewNop()}
	payload := BookingCanceledByAdminMessage(time.Date(2024, 1, 2, 7, 0, 0, 0, time.UTC), time.UTC)
	notifier.Notify(context.Background(), []string{"u1"}, payload)

	require.Len(t, q.tasks, 1)
	assert.Equal(t, TypeNotificationPush, q.tasks[0].Type())

	handler := HandlePushTask(newPusher(store, sender))
	require.NoError(t, handler(context.Background(), q.tasks[0]))
	require.Len(t, sender.calls, 1)
	assert.Equal(t, []string{"phone"}, sender.calls[0])
}

func TestQueuedNotifierIgnoresEnqueueFailure(t *testing.T) {
	q := &fakeEnqueuer{err: errors.New("redis down")}
	notifier := &QueuedNotifier{Client: q, Logger: zap.NewNop()}

	assert.NotPanics(t, func() {
		notifier.Notify(context.Background(), []string{"u1"}, models.NotificationPayload{Type: models.NotifyNewBooking})
	})
}
