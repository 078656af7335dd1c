// Package repository holds what the per-collection repositories share.
package repository

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a lookup or a targeted write matches nothing.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate is returned when a unique key already exists.
	ErrDuplicate = errors.New("repository: duplicate key")
)

// OpTimeout bounds a single store round trip.
const OpTimeout = 5 * time.Second

// WithTimeout derives the per-call context every repository method uses.
func WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, OpTimeout)
}
