package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"gymbook/database/repository"
	"gymbook/models"
)

type Bookings struct {
	mu   sync.Mutex
	byID map[string]models.Booking

	// FailCreate, when set, is returned by the next Create calls.
	FailCreate error
}

func (b *Bookings) Create(_ context.Context, booking *models.Booking) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.FailCreate != nil {
		return b.FailCreate
	}
	if _, ok := b.byID[booking.ID]; ok {
		return repository.ErrDuplicate
	}
	b.byID[booking.ID] = cloneBooking(*booking)
	return nil
}

func (b *Bookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	booking, ok := b.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneBooking(booking)
	return &out, nil
}

func (b *Bookings) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(b.byID, id)
	return nil
}

func (b *Bookings) ListBySlotIDs(_ context.Context, slotIDs []string) ([]models.Booking, error) {
	want := make(map[string]struct{}, len(slotIDs))
	for _, id := range slotIDs {
		want[id] = struct{}{}
	}
	return b.filter(func(bk models.Booking) bool {
		_, ok := want[bk.SlotID]
		return ok
	}), nil
}

func (b *Bookings) ListBySubscriberInRange(_ context.Context, subscriberID string, from, to time.Time) ([]models.Booking, error) {
	return b.filter(func(bk models.Booking) bool {
		return bk.SubscriberID == subscriberID && !bk.SlotTime.Before(from) && bk.SlotTime.Before(to)
	}), nil
}

func (b *Bookings) FindReminderCandidates(_ context.Context, from, to time.Time) ([]models.Booking, error) {
	return b.filter(func(bk models.Booking) bool {
		return !bk.ReminderSent && !bk.SlotTime.Before(from) && !bk.SlotTime.After(to)
	}), nil
}

func (b *Bookings) MarkCheckedIn(_ context.Context, id string, at time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	booking, ok := b.byID[id]
	if !ok || booking.CheckedIn {
		return false, nil
	}
	booking.CheckedIn = true
	booking.CheckedInAt = &at
	b.byID[id] = booking
	return true, nil
}

func (b *Bookings) TrySetReminderSent(_ context.Context, id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	booking, ok := b.byID[id]
	if !ok || booking.ReminderSent {
		return false, nil
	}
	booking.ReminderSent = true
	b.byID[id] = booking
	return true, nil
}

// Len reports how many bookings are stored.
func (b *Bookings) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.byID)
}

func (b *Bookings) filter(keep func(models.Booking) bool) []models.Booking {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []models.Booking
	for _, bk := range b.byID {
		if keep(bk) {
			out = append(out, cloneBooking(bk))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SlotTime.Equal(out[j].SlotTime) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].SlotTime.Before(out[j].SlotTime)
	})
	return out
}

func cloneBooking(b models.Booking) models.Booking {
	if b.CheckedInAt != nil {
		at := *b.CheckedInAt
		b.CheckedInAt = &at
	}
	return b
}
