package mongo

import (
	"context"
	"errors"
	"time"

	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planCollectionName = "plans"

// planDocument stores the single plan of a user under the user's id, so saving a
// regenerated plan replaces the old one in place.
type planDocument struct {
	UserID    string          `bson:"_id"`
	Plan      domain.UserPlan `bson:"plan"`
	UpdatedAt time.Time       `bson:"updatedAt"`
}

type mongoPlanRepository struct {
	collection *mongo.Collection
}

func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

func (r *mongoPlanRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserPlan, error) {
	var doc planDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &doc.Plan, nil
}

func (r *mongoPlanRepository) Save(ctx context.Context, plan *domain.UserPlan) error {
	if plan.UserID == "" {
		return errors.New("plan owner is required")
	}

	now := time.Now().UTC()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now

	doc := planDocument{UserID: plan.UserID, Plan: *plan, UpdatedAt: now}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": plan.UserID}, doc, options.Replace().SetUpsert(true))
	return err
}

// EnsurePlanIndexes creates necessary indexes for the plans collection.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "plan.id", Value: 1}},
			Options: options.Index().SetName("plan_id"),
		},
	})
}
