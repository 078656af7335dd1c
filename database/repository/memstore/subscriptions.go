package memstore

import (
	"context"
	"sync"
	"time"

	"gymbook/database/repository"
	"gymbook/models"
)

type Subscriptions struct {
	mu   sync.Mutex
	byID map[string]models.ClientSubscription
}

// Put stores a subscription without touching the subscriber's others.
func (s *Subscriptions) Put(sub models.ClientSubscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[sub.ID] = cloneSubscription(sub)
}

func (s *Subscriptions) GetByID(_ context.Context, id string) (*models.ClientSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneSubscription(sub)
	return &out, nil
}

func (s *Subscriptions) GetActiveBySubscriber(_ context.Context, subscriberID string) (*models.ClientSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *models.ClientSubscription
	for _, sub := range s.byID {
		if sub.SubscriberID != subscriberID || !sub.Active {
			continue
		}
		if found == nil || sub.CreatedAt.After(found.CreatedAt) {
			c := cloneSubscription(sub)
			found = &c
		}
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (s *Subscriptions) Assign(_ context.Context, sub *models.ClientSubscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[sub.ID]; ok {
		return repository.ErrDuplicate
	}
	for id, existing := range s.byID {
		if existing.SubscriberID == sub.SubscriberID && existing.Active {
			existing.Active = false
			s.byID[id] = existing
		}
	}
	s.byID[sub.ID] = cloneSubscription(*sub)
	return nil
}

func (s *Subscriptions) UpdateCheckIns(_ context.Context, id string, expectedVersion int, checkIns []int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.byID[id]
	if !ok || sub.Version != expectedVersion {
		return false, nil
	}
	sub.CheckIns = append([]int(nil), checkIns...)
	sub.Version++
	s.byID[id] = sub
	return true, nil
}

func (s *Subscriptions) ListExpiring(_ context.Context, from, to time.Time) ([]models.ClientSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ClientSubscription
	for _, sub := range s.byID {
		if sub.Active && !sub.ExpiryNotified && !sub.EndDate.Before(from) && sub.EndDate.Before(to) {
			out = append(out, cloneSubscription(sub))
		}
	}
	return out, nil
}

func (s *Subscriptions) TrySetExpiryNotified(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.byID[id]
	if !ok || sub.ExpiryNotified {
		return false, nil
	}
	sub.ExpiryNotified = true
	s.byID[id] = sub
	return true, nil
}

func cloneSubscription(s models.ClientSubscription) models.ClientSubscription {
	s.CheckIns = append([]int(nil), s.CheckIns...)
	return s
}
