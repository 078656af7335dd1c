package subscriptionRepo

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

// EnsureIndexes creates the necessary indexes on the subscriptions collection.
func (r *MongoSubscriptionRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "subscriberId", Value: 1}, {Key: "active", Value: 1}},
			Options: options.Index().SetName("subscriber_active_idx"),
		},
		{
			Keys:    bson.D{{Key: "active", Value: 1}, {Key: "expiryNotified", Value: 1}, {Key: "endDate", Value: 1}},
			Options: options.Index().SetName("expiry_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create subscription indexes: %w", err)
	}
	return nil
}

func (r *MongoSubscriptionRepo) GetActiveBySubscriber(ctx context.Context, subscriberID string) (*models.ClientSubscription, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var sub models.ClientSubscription
	err := r.coll.FindOne(ctx, bson.M{"subscriberId": subscriberID, "active": true}, opts).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get active subscription for %s: %w", subscriberID, err)
	}
	return &sub, nil
}

func (r *MongoSubscriptionRepo) UpdateCheckIns(ctx context.Context, id string, expectedVersion int, checkIns []int) (bool, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "version": expectedVersion},
		bson.M{
			"$set": bson.M{"checkInsArray": checkIns},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return false, fmt.Errorf("update check-ins for %s: %w", id, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoSubscriptionRepo) ListExpiring(ctx context.Context, from, to time.Time) ([]models.ClientSubscription, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"active":         true,
		"expiryNotified": false,
		"endDate":        bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list expiring subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []models.ClientSubscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("decode subscriptions: %w", err)
	}
	return subs, nil
}

func (r *MongoSubscriptionRepo) TrySetExpiryNotified(ctx context.Context, id string) (bool, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "expiryNotified": false},
		bson.M{"$set": bson.M{"expiryNotified": true}},
	)
	if err != nil {
		return false, fmt.Errorf("mark expiry notified %s: %w", id, err)
	}
	return res.ModifiedCount == 1, nil
}
