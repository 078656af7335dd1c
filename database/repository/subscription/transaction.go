package subscriptionRepo

import (
	"context"
	"fmt"

	"gymbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Assign deactivates the subscriber's current subscription and inserts the
// new one in a single transaction, so there is never more than one active.
func (r *MongoSubscriptionRepo) Assign(ctx context.Context, sub *models.ClientSubscription) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		_, err := r.coll.UpdateMany(sc,
			bson.M{"subscriberId": sub.SubscriberID, "active": true},
			bson.M{"$set": bson.M{"active": false}},
		)
		if err != nil {
			return fmt.Errorf("deactivate previous subscriptions: %w", err)
		}
		if _, err := r.coll.InsertOne(sc, sub); err != nil {
			return fmt.Errorf("insert subscription: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("assign subscription transaction failed: %w", err)
	}
	return nil
}
