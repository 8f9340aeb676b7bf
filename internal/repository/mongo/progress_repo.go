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

const (
	progressCollectionName = "progress"
	pointsCollectionName   = "points"
)

type progressDocument struct {
	UserID    string    `bson:"userId"`
	Month     string    `bson:"month"`
	Target    int       `bson:"target"`
	Done      int       `bson:"done"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type mongoProgressRepository struct {
	collection *mongo.Collection
}

func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

func (r *mongoProgressRepository) Get(ctx context.Context, userID, month string) (domain.Progress, error) {
	var doc progressDocument
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "month": month}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Progress{}, repository.ErrNotFound
		}
		return domain.Progress{}, err
	}
	return domain.Progress{Target: doc.Target, Done: doc.Done}, nil
}

func (r *mongoProgressRepository) Save(ctx context.Context, userID, month string, progress domain.Progress) error {
	filter := bson.M{"userId": userID, "month": month}
	update := bson.M{
		"$set": bson.M{
			"target":    progress.Target,
			"done":      progress.Done,
			"updatedAt": time.Now().UTC(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// ListByUser returns every stored month of a user keyed by YYYY-MM.
func (r *mongoProgressRepository) ListByUser(ctx context.Context, userID string) (map[string]domain.Progress, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []progressDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make(map[string]domain.Progress, len(docs))
	for _, d := range docs {
		out[d.Month] = domain.Progress{Target: d.Target, Done: d.Done}
	}
	return out, nil
}

// EnsureProgressIndexes creates necessary indexes for the progress collection.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "month", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}

type pointsDocument struct {
	UserID    string    `bson:"_id"`
	Points    int       `bson:"points"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type mongoPointsRepository struct {
	collection *mongo.Collection
}

func NewMongoPointsRepository(db *mongo.Database) repository.PointsRepository {
	return &mongoPointsRepository{
		collection: db.Collection(pointsCollectionName),
	}
}

func (r *mongoPointsRepository) Get(ctx context.Context, userID string) (int, error) {
	var doc pointsDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}
	return doc.Points, nil
}

func (r *mongoPointsRepository) Set(ctx context.Context, userID string, points int) error {
	update := bson.M{
		"$set": bson.M{"points": points, "updatedAt": time.Now().UTC()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
	return err
}
