package cron

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const leaseKeyPrefix = "sweep-lease:"

// Lease lets one replica claim a sweep tick. The claim is never released;
// it lapses after ttl.
type Lease interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
}

// RedisLease claims ticks across replicas with SET NX.
type RedisLease struct {
	Client *redis.Client
	Owner  string
}

func (l *RedisLease) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return l.Client.SetNX(ctx, leaseKeyPrefix+name, l.Owner, ttl).Result()
}

// LocalLease is the single-process stand-in used without Redis.
type LocalLease struct {
	mu    sync.Mutex
	until map[string]time.Time
	Now   func() time.Time
}

func NewLocalLease() *LocalLease {
	return &LocalLease{until: map[string]time.Time{}, Now: time.Now}
}

func (l *LocalLease) Acquire(_ context.Context, name string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.Now()
	if exp, ok := l.until[name]; ok && now.Before(exp) {
		return false, nil
	}
	l.until[name] = now.Add(ttl)
	return true, nil
}
