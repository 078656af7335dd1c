package userRepo

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

// UserRepository reads the account directory for roles and device tokens.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.Subscriber, error)
	ListAdmins(ctx context.Context) ([]models.Subscriber, error)
	// PruneTokens removes the given device tokens from the user's list.
	PruneTokens(ctx context.Context, id string, tokens []string) error
}

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{coll: db.Collection("users")}
}

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoUserRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.Subscriber, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var u models.Subscriber
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

func (r *MongoUserRepo) ListAdmins(ctx context.Context) ([]models.Subscriber, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	projection := bson.M{"id": 1, "role": 1, "fcmTokens": 1}
	cursor, err := r.coll.Find(ctx, bson.M{"role": models.RoleAdmin}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer cursor.Close(ctx)

	var admins []models.Subscriber
	if err := cursor.All(ctx, &admins); err != nil {
		return nil, fmt.Errorf("decode admins: %w", err)
	}
	return admins, nil
}

func (r *MongoUserRepo) PruneTokens(ctx context.Context, id string, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$pullAll": bson.M{"fcmTokens": tokens}})
	if err != nil {
		return fmt.Errorf("prune tokens for %s: %w", id, err)
	}
	return nil
}

var _ UserRepository = (*MongoUserRepo)(nil)
