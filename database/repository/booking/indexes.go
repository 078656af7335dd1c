package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (r *MongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "slotId", Value: 1}},
			Options: options.Index().SetName("slot_idx"),
		},
		{
			Keys:    bson.D{{Key: "subscriberId", Value: 1}, {Key: "slotTime", Value: 1}},
			Options: options.Index().SetName("subscriber_time_idx"),
		},
		// Reminder sweep scans a 10 minute band of unreminded bookings.
		{
			Keys:    bson.D{{Key: "reminderSent", Value: 1}, {Key: "slotTime", Value: 1}},
			Options: options.Index().SetName("reminder_time_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
