package subscription

import (
	"context"
	"sync"
	"testing"
	"time"

	"gymbook/database/repository/memstore"
	"gymbook/models"
	"gymbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newService() (*DefaultSubscriptionService, *memstore.Store) {
	store := memstore.New()
	store.Users.Put(models.Subscriber{ID: "member", Role: models.RoleClient})
	return &DefaultSubscriptionService{
		Repo:   store.Subscriptions,
		Users:  store.Users,
		Clock:  utils.NewFixedClock(jan1),
		Logger: zap.NewNop(),
	}, store
}

func TestIncrementWeekGrowsWithZeros(t *testing.T) {
	orig := []int{2}
	got := IncrementWeek(orig, 3)

	assert.Equal(t, []int{2, 0, 0, 1}, got)
	assert.Equal(t, []int{2}, orig)
	assert.Equal(t, []int{3}, IncrementWeek(orig, 0))
}

func TestRecordCheckInSecondWeek(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()
	store.Subscriptions.Put(models.ClientSubscription{
		ID: "s1", SubscriberID: "member", Active: true, StartDate: jan1, CheckIns: []int{2},
	})

	sub, err := svc.RecordCheckIn(ctx, "member", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, []int{2, 1}, sub.CheckIns)

	stored, err := store.Subscriptions.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, stored.CheckIns)
	assert.Equal(t, 1, stored.Version)
}

func TestRecordCheckInWithoutSubscription(t *testing.T) {
	svc, _ := newService()

	sub, err := svc.RecordCheckIn(context.Background(), "member", jan1)
	require.NoError(t, err)
	assert.Nil(t, sub)
}

func TestRecordCheckInBeforeStartIsIgnored(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()
	store.Subscriptions.Put(models.ClientSubscription{ID: "s1", SubscriberID: "member", Active: true, StartDate: jan1})

	_, err := svc.RecordCheckIn(ctx, "member", jan1.Add(-2*time.Hour))
	require.NoError(t, err)

	stored, _ := store.Subscriptions.GetByID(ctx, "s1")
	assert.Empty(t, stored.CheckIns)
	assert.Equal(t, 0, stored.Version)
}

func TestRecordCheckInConcurrentVisitsAllCount(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()
	store.Subscriptions.Put(models.ClientSubscription{ID: "s1", SubscriberID: "member", Active: true, StartDate: jan1})

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.RecordCheckIn(ctx, "member", jan1.Add(24*time.Hour))
		}()
	}
	wg.Wait()

	stored, _ := store.Subscriptions.GetByID(ctx, "s1")
	require.Len(t, stored.CheckIns, 1)
	assert.Equal(t, 3, stored.CheckIns[0])
}

func TestAssignSupersedesPrevious(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()
	req := AssignRequest{
		SubscriberID:          "member",
		SubscriptionPackageID: "monthly",
		StartDate:             jan1,
		EndDate:               jan1.AddDate(0, 1, 0),
		WeeklyCheckIns:        models.CheckInQuota{Limit: 3},
	}

	first, err := svc.Assign(ctx, req)
	require.NoError(t, err)
	req.WeeklyCheckIns = models.CheckInQuota{Unlimited: true}
	svc.Clock.(*utils.FixedClock).Advance(time.Minute)
	second, err := svc.Assign(ctx, req)
	require.NoError(t, err)

	active, err := svc.GetActive(ctx, "member")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.True(t, active.WeeklyCheckIns.Unlimited)

	old, _ := store.Subscriptions.GetByID(ctx, first.ID)
	assert.False(t, old.Active)
}

func TestAssignValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	valid := AssignRequest{
		SubscriberID: "member", SubscriptionPackageID: "p", StartDate: jan1, EndDate: jan1.AddDate(0, 1, 0),
		WeeklyCheckIns: models.CheckInQuota{Limit: 2},
	}

	bad := valid
	bad.EndDate = jan1
	_, err := svc.Assign(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad = valid
	bad.WeeklyCheckIns = models.CheckInQuota{}
	_, err = svc.Assign(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad = valid
	bad.SubscriberID = "ghost"
	_, err = svc.Assign(ctx, bad)
	assert.ErrorIs(t, err, ErrSubscriberNotFound)
}
