package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gymbook/config"
	"gymbook/database/repository/memstore"
	"gymbook/models"
	"gymbook/services/schedule"
	"gymbook/services/subscription"
	"gymbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sent struct {
	to      []string
	payload models.NotificationPayload
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sent
}

func (r *recordingNotifier) Notify(_ context.Context, to []string, p models.NotificationPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{to: to, payload: p})
}

func (r *recordingNotifier) ofType(t models.NotificationType) []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sent
	for _, s := range r.sent {
		if s.payload.Type == t {
			out = append(out, s)
		}
	}
	return out
}

type fixture struct {
	svc      *DefaultBookingService
	store    *memstore.Store
	clock    *utils.FixedClock
	notifier *recordingNotifier
}

var admin = models.Actor{ID: "admin", Role: models.RoleAdmin}

func member(i int) models.Actor {
	return models.Actor{ID: fmt.Sprintf("member-%d", i), Role: models.RoleClient}
}

func jan(day, hour, minute int) time.Time {
	return time.Date(2024, 1, day, hour, minute, 0, 0, time.UTC)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	store.Templates.Put(models.SlotTemplate{ID: "morning", Weekdays: []int{0, 1, 2, 3, 4, 5, 6}, Time: "08:00", Active: true})
	store.Templates.Put(models.SlotTemplate{ID: "evening", Weekdays: []int{0, 1, 2, 3, 4, 5, 6}, Time: "18:00", Active: true})
	store.Users.Put(models.Subscriber{ID: "admin", Role: models.RoleAdmin})
	for i := 0; i < 12; i++ {
		store.Users.Put(models.Subscriber{ID: member(i).ID, Name: fmt.Sprintf("Member %d", i), Role: models.RoleClient})
	}

	cfg := config.DefaultScheduling()
	clock := utils.NewFixedClock(jan(1, 6, 0))
	logger := zap.NewNop()
	notifier := &recordingNotifier{}

	sched := &schedule.DefaultScheduleService{Templates: store.Templates, Slots: store.Slots, Config: cfg, Logger: logger}
	subs := &subscription.DefaultSubscriptionService{Repo: store.Subscriptions, Users: store.Users, Clock: clock, Logger: logger}

	return &fixture{
		svc: &DefaultBookingService{
			Schedule:      sched,
			Slots:         store.Slots,
			Bookings:      store.Bookings,
			Users:         store.Users,
			Subscriptions: subs,
			Notifier:      notifier,
			Config:        cfg,
			Clock:         clock,
			Logger:        logger,
		},
		store:    store,
		clock:    clock,
		notifier: notifier,
	}
}

func (f *fixture) book(t *testing.T, slotID string, actor models.Actor) (*models.Booking, error) {
	t.Helper()
	return f.svc.Book(context.Background(), BookRequest{SlotID: slotID, SubscriberID: actor.ID, Actor: actor})
}

func requireRejection(t *testing.T, err error, code RejectionCode) {
	t.Helper()
	rej, ok := AsRejection(err)
	require.True(t, ok, "expected rejection %s, got %v", code, err)
	assert.Equal(t, code, rej.Code)
}

func TestEvaluateOrder(t *testing.T) {
	now := jan(2, 7, 0)
	cases := []struct {
		name     string
		snap     SlotSnapshot
		override bool
		want     models.SlotState
	}{
		{"open", SlotSnapshot{StartsAt: jan(2, 9, 0), Booked: 2, Capacity: 5}, false, models.SlotOpen},
		{"full", SlotSnapshot{StartsAt: jan(2, 9, 0), Booked: 5, Capacity: 5}, false, models.SlotFull},
		{"override lifts full", SlotSnapshot{StartsAt: jan(2, 9, 0), Booked: 5, Capacity: 5}, true, models.SlotOpen},
		{"exactly at cutoff", SlotSnapshot{StartsAt: jan(2, 8, 0), Capacity: 5}, false, models.SlotOpen},
		{"inside cutoff", SlotSnapshot{StartsAt: jan(2, 7, 59), Capacity: 5}, false, models.SlotClosed},
		{"closed beats full", SlotSnapshot{StartsAt: jan(2, 7, 30), Booked: 5, Capacity: 5}, false, models.SlotClosed},
		{"override does not reopen", SlotSnapshot{StartsAt: jan(2, 7, 30), Capacity: 5}, true, models.SlotClosed},
		{"lock beats override", SlotSnapshot{StartsAt: jan(2, 9, 0), Locked: true, Capacity: 5}, true, models.SlotLocked},
		{"lock beats cutoff", SlotSnapshot{StartsAt: jan(2, 7, 30), Locked: true, Capacity: 5}, false, models.SlotLocked},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.snap, now, time.Hour, tc.override))
		})
	}
}

func TestBookVirtualSlotMaterializesOnce(t *testing.T) {
	f := newFixture(t)
	id := models.VirtualSlotID("morning", jan(2, 8, 0))

	first, err := f.book(t, id, member(0))
	require.NoError(t, err)
	second, err := f.book(t, id, member(1))
	require.NoError(t, err)

	assert.Equal(t, first.SlotID, second.SlotID)
	assert.NotEqual(t, id, first.SlotID, "bookings reference the real slot")
	assert.True(t, first.SlotTime.Equal(jan(2, 8, 0)))

	slot, err := f.store.Slots.GetByTimestamp(context.Background(), jan(2, 8, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, slot.BookedCount)
	assert.Equal(t, "morning", slot.TemplateID)

	newBooking := f.notifier.ofType(models.NotifyNewBooking)
	require.Len(t, newBooking, 2)
	assert.Equal(t, []string{"admin"}, newBooking[0].to)
}

func TestBookFullThenAdminOverride(t *testing.T) {
	f := newFixture(t)
	id := models.VirtualSlotID("morning", jan(2, 8, 0))
	for i := 0; i < 5; i++ {
		_, err := f.book(t, id, member(i))
		require.NoError(t, err)
	}

	_, err := f.book(t, id, member(5))
	requireRejection(t, err, RejectFull)

	b, err := f.svc.Book(context.Background(), BookRequest{SlotID: id, SubscriberID: member(5).ID, Override: true, Actor: admin})
	require.NoError(t, err)
	assert.True(t, b.Overbooked)

	slot, _ := f.store.Slots.GetByID(context.Background(), b.SlotID)
	assert.Equal(t, 6, slot.BookedCount)
	assert.Len(t, f.notifier.ofType(models.NotifyNewBooking), 5, "admin bookings do not notify admins")
}

func TestBookCutoff(t *testing.T) {
	f := newFixture(t)
	id := models.VirtualSlotID("morning", jan(2, 8, 0))

	f.clock.Set(jan(2, 7, 10))
	_, err := f.book(t, id, member(0))
	requireRejection(t, err, RejectClosed)

	_, err = f.svc.Book(context.Background(), BookRequest{SlotID: id, SubscriberID: member(0).ID, Override: true, Actor: admin})
	requireRejection(t, err, RejectClosed)

	f.clock.Set(jan(2, 6, 59))
	_, err = f.book(t, id, member(0))
	require.NoError(t, err)
}

func TestLockBeatsOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := models.VirtualSlotID("evening", jan(3, 18, 0))

	locked, err := f.svc.SetLocked(ctx, id, true)
	require.NoError(t, err)
	assert.False(t, locked.IsVirtual())
	assert.True(t, locked.IsLocked())

	_, err = f.svc.Book(ctx, BookRequest{SlotID: id, SubscriberID: member(0).ID, Override: true, Actor: admin})
	requireRejection(t, err, RejectLocked)
	_, err = f.book(t, locked.SlotID(), member(0))
	requireRejection(t, err, RejectLocked)

	unlocked, err := f.svc.SetLocked(ctx, locked.SlotID(), false)
	require.NoError(t, err)
	assert.False(t, unlocked.IsLocked())
	_, err = f.book(t, id, member(0))
	require.NoError(t, err)
}

func TestUnlockingVirtualSlotWritesNothing(t *testing.T) {
	f := newFixture(t)
	id := models.VirtualSlotID("evening", jan(3, 18, 0))

	slot, err := f.svc.SetLocked(context.Background(), id, false)
	require.NoError(t, err)
	assert.True(t, slot.IsVirtual())

	_, err = f.store.Slots.GetByTimestamp(context.Background(), jan(3, 18, 0))
	assert.Error(t, err)
}

func TestCancelFreesOneUnit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := models.VirtualSlotID("morning", jan(2, 8, 0))
	var bookings []*models.Booking
	for i := 0; i < 5; i++ {
		b, err := f.book(t, id, member(i))
		require.NoError(t, err)
		bookings = append(bookings, b)
	}
	_, err := f.book(t, id, member(5))
	requireRejection(t, err, RejectFull)

	require.NoError(t, f.svc.Cancel(ctx, bookings[0].ID, member(0)))

	_, err = f.book(t, id, member(5))
	require.NoError(t, err)
	_, err = f.book(t, id, member(6))
	requireRejection(t, err, RejectFull)

	canceled := f.notifier.ofType(models.NotifyBookingCanceled)
	require.Len(t, canceled, 1)
	assert.Equal(t, []string{"admin"}, canceled[0].to)
}

func TestCancelHasNoCutoffButChecksOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.book(t, models.VirtualSlotID("morning", jan(2, 8, 0)), member(0))
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Cancel(ctx, b.ID, member(1)), ErrNotOwner)

	f.clock.Set(jan(2, 7, 55))
	require.NoError(t, f.svc.Cancel(ctx, b.ID, member(0)))
	assert.ErrorIs(t, f.svc.Cancel(ctx, b.ID, member(0)), ErrBookingNotFound)

	slot, _ := f.store.Slots.GetByID(ctx, b.SlotID)
	assert.Equal(t, 0, slot.BookedCount)
}

func TestAdminCancelNotifiesSubscriber(t *testing.T) {
	f := newFixture(t)
	b, err := f.book(t, models.VirtualSlotID("morning", jan(2, 8, 0)), member(3))
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(context.Background(), b.ID, admin))

	msgs := f.notifier.ofType(models.NotifyBookingCanceledAdmin)
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{member(3).ID}, msgs[0].to)
	assert.Empty(t, f.notifier.ofType(models.NotifyBookingCanceled))
}

func TestOneBookingPerDay(t *testing.T) {
	f := newFixture(t)
	_, err := f.book(t, models.VirtualSlotID("morning", jan(2, 8, 0)), member(0))
	require.NoError(t, err)

	_, err = f.book(t, models.VirtualSlotID("evening", jan(2, 18, 0)), member(0))
	requireRejection(t, err, RejectDayTaken)

	_, err = f.book(t, models.VirtualSlotID("morning", jan(2, 8, 0)), member(0))
	requireRejection(t, err, RejectAlreadyBooked)

	_, err = f.book(t, models.VirtualSlotID("evening", jan(3, 18, 0)), member(0))
	require.NoError(t, err, "next day is fine")

	_, err = f.svc.Book(context.Background(), BookRequest{
		SlotID: models.VirtualSlotID("evening", jan(2, 18, 0)), SubscriberID: member(0).ID, Override: true, Actor: admin,
	})
	require.NoError(t, err, "admin override skips the per-day rule")
}

func TestBookValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := models.VirtualSlotID("morning", jan(2, 8, 0))

	_, err := f.svc.Book(ctx, BookRequest{SlotID: "", SubscriberID: "member-0", Actor: member(0)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Book(ctx, BookRequest{SlotID: id, SubscriberID: member(1).ID, Actor: member(0)})
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.svc.Book(ctx, BookRequest{SlotID: id, SubscriberID: member(0).ID, Override: true, Actor: member(0)})
	assert.ErrorIs(t, err, ErrOverrideNotAllowed)

	_, err = f.svc.Book(ctx, BookRequest{SlotID: "no-such-slot", SubscriberID: member(0).ID, Actor: member(0)})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = f.svc.Book(ctx, BookRequest{SlotID: id, SubscriberID: "ghost", Actor: admin})
	assert.ErrorIs(t, err, ErrSubscriberNotFound)

	assert.Equal(t, 0, f.store.Bookings.Len())
}

func TestBookingWriteFailureReleasesReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Bookings.FailCreate = errors.New("disk full")

	_, err := f.book(t, models.VirtualSlotID("morning", jan(2, 8, 0)), member(0))
	require.Error(t, err)

	slot, err := f.store.Slots.GetByTimestamp(ctx, jan(2, 8, 0))
	require.NoError(t, err, "the materialized slot stays behind")
	assert.Equal(t, 0, slot.BookedCount)
}

func TestConcurrentBookingsNeverOverfill(t *testing.T) {
	f := newFixture(t)
	id := models.VirtualSlotID("morning", jan(2, 8, 0))

	var wg sync.WaitGroup
	results := make([]error, 12)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.book(t, id, member(i))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range results {
		if err == nil {
			ok++
			continue
		}
		rej, isRej := AsRejection(err)
		if !isRej || rej.Code != RejectFull {
			assert.ErrorIs(t, err, ErrConflict)
		}
	}
	assert.Equal(t, 5, ok)
	assert.Equal(t, 5, f.store.Bookings.Len())

	slot, err := f.store.Slots.GetByTimestamp(context.Background(), jan(2, 8, 0))
	require.NoError(t, err)
	assert.Equal(t, 5, slot.BookedCount)
}

func TestCheckInCountsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Subscriptions.Put(models.ClientSubscription{
		ID: "sub", SubscriberID: member(0).ID, Active: true, StartDate: jan(1, 0, 0),
		WeeklyCheckIns: models.CheckInQuota{Limit: 3},
	})
	b, err := f.book(t, models.VirtualSlotID("morning", jan(2, 8, 0)), member(0))
	require.NoError(t, err)

	f.clock.Set(jan(2, 8, 5))
	res, err := f.svc.CheckIn(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, res.Booking.CheckedIn)
	require.NotNil(t, res.Subscription)
	assert.Equal(t, []int{1}, res.Subscription.CheckIns)

	_, err = f.svc.CheckIn(ctx, b.ID)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	stored, _ := f.store.Subscriptions.GetByID(ctx, "sub")
	assert.Equal(t, []int{1}, stored.CheckIns)
}

func TestCheckInWithoutSubscriptionMarksBookingOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.book(t, models.VirtualSlotID("morning", jan(2, 8, 0)), member(0))
	require.NoError(t, err)

	res, err := f.svc.CheckIn(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, res.Subscription)

	stored, _ := f.store.Bookings.GetByID(ctx, b.ID)
	assert.True(t, stored.CheckedIn)
	require.NotNil(t, stored.CheckedInAt)
}

func TestListSlotsStatesAndAdminView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	morning := models.VirtualSlotID("morning", jan(1, 8, 0))
	b, err := f.book(t, morning, member(0))
	require.NoError(t, err)
	_, err = f.svc.SetLocked(ctx, models.VirtualSlotID("evening", jan(1, 18, 0)), true)
	require.NoError(t, err)

	f.clock.Set(jan(1, 7, 30))
	views, err := f.svc.ListSlots(ctx, jan(1, 0, 0), 1)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, b.SlotID, views[0].ID)
	assert.Equal(t, models.SlotClosed, views[0].State)
	assert.Equal(t, 1, views[0].Booked)
	assert.Equal(t, 4, views[0].Remaining)
	assert.Equal(t, models.SlotLocked, views[1].State)

	adminViews, err := f.svc.ListSlotsWithBookings(ctx, jan(1, 0, 0), 1)
	require.NoError(t, err)
	require.Len(t, adminViews, 2)
	require.Len(t, adminViews[0].Bookings, 1)
	assert.Equal(t, member(0).ID, adminViews[0].Bookings[0].SubscriberID)
	assert.Empty(t, adminViews[1].Bookings)

	upcoming, err := f.svc.ListUpcoming(ctx, member(0).ID)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
}
