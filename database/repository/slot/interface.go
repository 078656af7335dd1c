package slotRepo

import (
	"context"
	"time"

	"gymbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SlotRepository stores materialized slots. TryReserve and Release are the
// only writers of bookedCount.
type SlotRepository interface {
	FindInRange(ctx context.Context, from, to time.Time) ([]models.Slot, error)
	GetByID(ctx context.Context, id string) (*models.Slot, error)
	GetByTimestamp(ctx context.Context, ts time.Time) (*models.Slot, error)
	// Create inserts the slot, or returns the slot already stored at the same
	// timestamp when another writer got there first.
	Create(ctx context.Context, slot models.Slot) (*models.Slot, error)
	SetLocked(ctx context.Context, id string, locked bool) error
	// TryReserve takes one unit if the slot is unlocked and, unless override
	// is set, still below capacity. It reports whether the unit was taken.
	TryReserve(ctx context.Context, id string, capacity int, override bool) (bool, error)
	// Release gives one unit back. It never drives the counter below zero.
	Release(ctx context.Context, id string) error
}

type MongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo(db *mongo.Database) *MongoSlotRepo {
	return &MongoSlotRepo{coll: db.Collection("slots")}
}

var _ SlotRepository = (*MongoSlotRepo)(nil)
