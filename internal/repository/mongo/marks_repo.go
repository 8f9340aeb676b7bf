package mongo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const marksCollectionName = "marks"

// marks of past days are only useful for a few weeks
const marksTTL = 40 * 24 * time.Hour

// marksDocument stores positions as string keys; BSON documents only have string keys.
type marksDocument struct {
	UserID    string          `bson:"userId"`
	SessionID string          `bson:"sessionId"`
	Day       string          `bson:"day"`
	Marks     map[string]bool `bson:"marks"`
	UpdatedAt time.Time       `bson:"updatedAt"`
}

type mongoMarksRepository struct {
	collection *mongo.Collection
}

func NewMongoMarksRepository(db *mongo.Database) repository.MarksRepository {
	return &mongoMarksRepository{
		collection: db.Collection(marksCollectionName),
	}
}

func marksFilter(userID, sessionID, day string) bson.M {
	return bson.M{"userId": userID, "sessionId": sessionID, "day": day}
}

func (r *mongoMarksRepository) Get(ctx context.Context, userID, sessionID, day string) (domain.Marks, error) {
	var doc marksDocument
	err := r.collection.FindOne(ctx, marksFilter(userID, sessionID, day)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return marksFromDocument(doc.Marks), nil
}

func (r *mongoMarksRepository) Save(ctx context.Context, userID, sessionID, day string, marks domain.Marks) error {
	update := bson.M{
		"$set": bson.M{
			"marks":     marksToDocument(marks),
			"updatedAt": time.Now().UTC(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, marksFilter(userID, sessionID, day), update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoMarksRepository) Delete(ctx context.Context, userID, sessionID, day string) error {
	_, err := r.collection.DeleteOne(ctx, marksFilter(userID, sessionID, day))
	return err
}

func marksToDocument(marks domain.Marks) map[string]bool {
	out := make(map[string]bool, len(marks))
	for i, v := range marks {
		out[strconv.Itoa(i)] = v
	}
	return out
}

// marksFromDocument drops keys that are not positions.
func marksFromDocument(doc map[string]bool) domain.Marks {
	out := make(domain.Marks, len(doc))
	for k, v := range doc {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 {
			continue
		}
		out[i] = v
	}
	return out
}

// EnsureMarksIndexes creates necessary indexes for the marks collection.
func EnsureMarksIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "sessionId", Value: 1}, {Key: "day", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updatedAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(marksTTL.Seconds())),
		},
	})
}
