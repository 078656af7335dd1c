package utils

import (
	"sync"
	"time"
)

// Clock abstracts wall time so services can be driven from tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock reports a settable instant.
type FixedClock struct {
	mu sync.Mutex
	at time.Time
}

func NewFixedClock(at time.Time) *FixedClock { return &FixedClock{at: at} }

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *FixedClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = at
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(d)
}
