package subscriptionRepo

import (
	"context"
	"time"

	"gymbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type SubscriptionRepository interface {
	GetActiveBySubscriber(ctx context.Context, subscriberID string) (*models.ClientSubscription, error)
	// Assign stores sub as the subscriber's only active subscription.
	Assign(ctx context.Context, sub *models.ClientSubscription) error
	// UpdateCheckIns replaces the check-in counters if the stored version
	// still equals expectedVersion, bumping the version. False means a
	// concurrent writer won and the caller should reload.
	UpdateCheckIns(ctx context.Context, id string, expectedVersion int, checkIns []int) (bool, error)
	// ListExpiring lists active, not yet notified subscriptions ending in [from, to).
	ListExpiring(ctx context.Context, from, to time.Time) ([]models.ClientSubscription, error)
	TrySetExpiryNotified(ctx context.Context, id string) (bool, error)
}

type MongoSubscriptionRepo struct {
	coll *mongo.Collection
}

func NewMongoSubscriptionRepo(db *mongo.Database) *MongoSubscriptionRepo {
	return &MongoSubscriptionRepo{coll: db.Collection("client_subscriptions")}
}

var _ SubscriptionRepository = (*MongoSubscriptionRepo)(nil)
