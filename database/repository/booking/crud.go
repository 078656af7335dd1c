package bookingRepo

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

func (r *MongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *MongoBookingRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete booking %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoBookingRepo) ListBySlotIDs(ctx context.Context, slotIDs []string) ([]models.Booking, error) {
	if len(slotIDs) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"slotId": bson.M{"$in": slotIDs}})
}

func (r *MongoBookingRepo) ListBySubscriberInRange(ctx context.Context, subscriberID string, from, to time.Time) ([]models.Booking, error) {
	return r.find(ctx, bson.M{
		"subscriberId": subscriberID,
		"slotTime":     bson.M{"$gte": from, "$lt": to},
	})
}

func (r *MongoBookingRepo) FindReminderCandidates(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	return r.find(ctx, bson.M{
		"reminderSent": false,
		"slotTime":     bson.M{"$gte": from, "$lte": to},
	})
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "slotTime", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) MarkCheckedIn(ctx context.Context, id string, at time.Time) (bool, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "checkedIn": false},
		bson.M{"$set": bson.M{"checkedIn": true, "checkedInAt": at}},
	)
	if err != nil {
		return false, fmt.Errorf("check in booking %s: %w", id, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoBookingRepo) TrySetReminderSent(ctx context.Context, id string) (bool, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "reminderSent": false},
		bson.M{"$set": bson.M{"reminderSent": true}},
	)
	if err != nil {
		return false, fmt.Errorf("mark reminder sent %s: %w", id, err)
	}
	return res.ModifiedCount == 1, nil
}
