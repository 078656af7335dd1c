// Package memstore keeps every repository in process memory. It backs the
// "memory" storage driver and the service tests, and honours the same
// conditional-update contracts as the Mongo repositories.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"gymbook/database/repository"
	"gymbook/models"
)

// Store bundles one in-memory repository per collection.
type Store struct {
	Templates     *Templates
	Slots         *Slots
	Bookings      *Bookings
	Subscriptions *Subscriptions
	Users         *Users
}

func New() *Store {
	return &Store{
		Templates:     &Templates{byID: map[string]models.SlotTemplate{}},
		Slots:         &Slots{byID: map[string]models.Slot{}},
		Bookings:      &Bookings{byID: map[string]models.Booking{}},
		Subscriptions: &Subscriptions{byID: map[string]models.ClientSubscription{}},
		Users:         &Users{byID: map[string]models.Subscriber{}},
	}
}

type Templates struct {
	mu   sync.RWMutex
	byID map[string]models.SlotTemplate
}

// Put upserts a template.
func (t *Templates) Put(tpl models.SlotTemplate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byID[tpl.ID] = tpl
}

func (t *Templates) ListActive(_ context.Context) ([]models.SlotTemplate, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []models.SlotTemplate
	for _, tpl := range t.byID {
		if tpl.Active {
			out = append(out, tpl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *Templates) GetByID(_ context.Context, id string) (*models.SlotTemplate, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tpl, ok := t.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &tpl, nil
}

type Slots struct {
	mu   sync.Mutex
	byID map[string]models.Slot
}

// Put stores a slot as-is, bypassing the timestamp uniqueness check.
func (s *Slots) Put(slot models.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[slot.ID] = slot
}

// Remove deletes a slot; used to simulate staff cleanup.
func (s *Slots) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

func (s *Slots) FindInRange(_ context.Context, from, to time.Time) ([]models.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Slot
	for _, slot := range s.byID {
		if !slot.Timestamp.Before(from) && slot.Timestamp.Before(to) {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *Slots) GetByID(_ context.Context, id string) (*models.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &slot, nil
}

func (s *Slots) GetByTimestamp(_ context.Context, ts time.Time) (*models.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slot, ok := s.byTimestampLocked(ts); ok {
		return &slot, nil
	}
	return nil, repository.ErrNotFound
}

func (s *Slots) byTimestampLocked(ts time.Time) (models.Slot, bool) {
	for _, slot := range s.byID {
		if slot.Timestamp.Equal(ts) {
			return slot, true
		}
	}
	return models.Slot{}, false
}

func (s *Slots) Create(_ context.Context, slot models.Slot) (*models.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byTimestampLocked(slot.Timestamp); ok {
		return &existing, nil
	}
	if _, ok := s.byID[slot.ID]; ok {
		return nil, repository.ErrDuplicate
	}
	s.byID[slot.ID] = slot
	return &slot, nil
}

func (s *Slots) SetLocked(_ context.Context, id string, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	slot.Locked = locked
	s.byID[id] = slot
	return nil
}

func (s *Slots) TryReserve(_ context.Context, id string, capacity int, override bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.byID[id]
	if !ok || slot.Locked {
		return false, nil
	}
	if !override && slot.BookedCount >= capacity {
		return false, nil
	}
	slot.BookedCount++
	s.byID[id] = slot
	return true, nil
}

func (s *Slots) Release(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.byID[id]
	if !ok || slot.BookedCount == 0 {
		return nil
	}
	slot.BookedCount--
	s.byID[id] = slot
	return nil
}

type Users struct {
	mu   sync.RWMutex
	byID map[string]models.Subscriber
}

func (u *Users) Put(user models.Subscriber) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user.FCMTokens = append([]string(nil), user.FCMTokens...)
	u.byID[user.ID] = user
}

func (u *Users) GetByID(_ context.Context, id string) (*models.Subscriber, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user.FCMTokens = append([]string(nil), user.FCMTokens...)
	return &user, nil
}

func (u *Users) ListAdmins(_ context.Context) ([]models.Subscriber, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	var out []models.Subscriber
	for _, user := range u.byID {
		if user.Role == models.RoleAdmin {
			user.FCMTokens = append([]string(nil), user.FCMTokens...)
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (u *Users) PruneTokens(_ context.Context, id string, tokens []string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	user, ok := u.byID[id]
	if !ok {
		return nil
	}
	drop := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		drop[t] = struct{}{}
	}
	kept := user.FCMTokens[:0:0]
	for _, t := range user.FCMTokens {
		if _, gone := drop[t]; !gone {
			kept = append(kept, t)
		}
	}
	user.FCMTokens = kept
	u.byID[id] = user
	return nil
}
