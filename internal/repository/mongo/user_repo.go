package mongo

import (
	"context"
	"errors"
	"time"

	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance; indexes are created by EnsureIndexes.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user. A taken email gives repository.ErrDuplicate.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	// Basic sanity check, real validation belongs in the service layer
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user email, password hash, and role are required")
	}

	user.ID = primitive.NewObjectID() // Generate new ObjectID
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		// The unique email index rejects a second account
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err // Return other insertion errors
	}
	return user.ID, nil
}

// GetByEmail retrieves a user by their email address.
func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByID retrieves a user by their MongoDB ObjectID.
func (r *mongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Return the custom repository error for not found
			return nil, repository.ErrNotFound
		}
		return nil, err // Return other errors
	}
	return &user, nil
}

// SetAvatar replaces the user's chosen avatar.
func (r *mongoUserRepository) SetAvatar(ctx context.Context, id primitive.ObjectID, avatarID string) error {
	return r.update(ctx, id, bson.M{
		"$set": bson.M{"avatarId": avatarID, "updatedAt": time.Now().UTC()},
	})
}

// SetMeasurements stores weight and height; a nil value clears the field.
func (r *mongoUserRepository) SetMeasurements(ctx context.Context, id primitive.ObjectID, weightKg, heightCm *float64) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	unset := bson.M{}
	if weightKg != nil {
		set["weightKg"] = *weightKg
	} else {
		unset["weightKg"] = ""
	}
	if heightCm != nil {
		set["heightCm"] = *heightCm
	} else {
		unset["heightCm"] = ""
	}

	update := bson.M{"$set": set}
	// An empty $unset document is rejected by the server
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return r.update(ctx, id, update)
}

func (r *mongoUserRepository) update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	// Check if a document was actually found; ModifiedCount is 0 for a no-op update, which is okay
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureUserIndexes creates necessary indexes for the users collection.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true), // One account per email
		},
	})
}
