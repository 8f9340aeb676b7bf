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

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// List returns built-ins in catalog order, then custom exercises oldest first.
func (r *mongoExerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	// Same order as the exercise_catalog_order index
	findOptions := options.Find().SetSort(bson.D{
		{Key: "builtin", Value: -1},
		{Key: "position", Value: 1},
		{Key: "createdAt", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx) // Ensure cursor is closed

	exercises := []domain.Exercise{} // Empty slice, not nil, when nothing is stored
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// GetByID retrieves an exercise by its catalog or custom id.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// Create inserts a custom exercise. An existing id gives repository.ErrDuplicate.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	now := time.Now().UTC()
	exercise.Builtin = false // Only UpsertBuiltins writes built-ins
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, exercise); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// Update rewrites the descriptive fields of an exercise. The builtin flag and
// catalog position never change here.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	exercise.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":           exercise.Name,
			"primaryMuscles": exercise.PrimaryMuscles,
			"machineImage":   exercise.MachineImage,
			"freeWeight":     exercise.FreeWeight,
			"tips":           exercise.Tips,
			"updatedAt":      exercise.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": exercise.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound // Exercise ID did not exist
	}
	return nil
}

// Delete removes a custom exercise. Built-ins never match the filter.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "builtin": false})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpsertBuiltins writes the embedded catalog, replacing stored copies of built-in entries.
func (r *mongoExerciseRepository) UpsertBuiltins(ctx context.Context, exercises []domain.Exercise) error {
	if len(exercises) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(exercises))
	for i := range exercises {
		ex := exercises[i] // Copy, the caller's slice stays untouched
		ex.Builtin = true
		ex.Position = i
		ex.UpdatedAt = now
		if ex.CreatedAt.IsZero() {
			ex.CreatedAt = now
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": ex.ID}).
			SetReplacement(ex).
			SetUpsert(true))
	}

	// Unordered, so one bad entry does not stop the rest
	_, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "builtin", Value: -1}, {Key: "position", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("exercise_catalog_order"),
		},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "primaryMuscles", Value: "text"}},
			Options: options.Index().SetName("exercise_text_search"),
		},
	})
}
