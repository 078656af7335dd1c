package templateRepo

import (
	"context"
	"errors"
	"fmt"

	"gymbook/database/repository"
	"gymbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TemplateRepository reads the recurring templates. Staff tooling owns writes.
type TemplateRepository interface {
	ListActive(ctx context.Context) ([]models.SlotTemplate, error)
	GetByID(ctx context.Context, id string) (*models.SlotTemplate, error)
}

type MongoTemplateRepo struct {
	coll *mongo.Collection
}

func NewMongoTemplateRepo(db *mongo.Database) *MongoTemplateRepo {
	return &MongoTemplateRepo{coll: db.Collection("slot_templates")}
}

func (r *MongoTemplateRepo) ListActive(ctx context.Context) ([]models.SlotTemplate, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, fmt.Errorf("list active templates: %w", err)
	}
	defer cursor.Close(ctx)

	var templates []models.SlotTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	return templates, nil
}

func (r *MongoTemplateRepo) GetByID(ctx context.Context, id string) (*models.SlotTemplate, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var t models.SlotTemplate
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get template %s: %w", id, err)
	}
	return &t, nil
}

var _ TemplateRepository = (*MongoTemplateRepo)(nil)
