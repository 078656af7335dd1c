package slotRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymbook/database/repository"
	"gymbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoSlotRepo) FindInRange(ctx context.Context, from, to time.Time) ([]models.Slot, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{"timestamp": bson.M{"$gte": from, "$lt": to}}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find slots in range: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("decode slots: %w", err)
	}
	return slots, nil
}

func (r *MongoSlotRepo) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoSlotRepo) GetByTimestamp(ctx context.Context, ts time.Time) (*models.Slot, error) {
	return r.findOne(ctx, bson.M{"timestamp": ts})
}

func (r *MongoSlotRepo) findOne(ctx context.Context, filter bson.M) (*models.Slot, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var slot models.Slot
	if err := r.coll.FindOne(ctx, filter).Decode(&slot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find slot: %w", err)
	}
	return &slot, nil
}

func (r *MongoSlotRepo) Create(ctx context.Context, slot models.Slot) (*models.Slot, error) {
	insertCtx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	_, err := r.coll.InsertOne(insertCtx, slot)
	if err == nil {
		return &slot, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("insert slot: %w", err)
	}

	existing, getErr := r.GetByTimestamp(ctx, slot.Timestamp)
	if getErr != nil {
		return nil, fmt.Errorf("insert slot lost race, reload failed: %w", getErr)
	}
	return existing, nil
}

func (r *MongoSlotRepo) SetLocked(ctx context.Context, id string, locked bool) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"locked": locked}})
	if err != nil {
		return fmt.Errorf("set slot lock: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoSlotRepo) TryReserve(ctx context.Context, id string, capacity int, override bool) (bool, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{"id": id, "locked": false}
	if !override {
		filter["bookedCount"] = bson.M{"$lt": capacity}
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"bookedCount": 1}})
	if err != nil {
		return false, fmt.Errorf("reserve slot %s: %w", id, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoSlotRepo) Release(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{"id": id, "bookedCount": bson.M{"$gt": 0}}
	if _, err := r.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"bookedCount": -1}}); err != nil {
		return fmt.Errorf("release slot %s: %w", id, err)
	}
	return nil
}
