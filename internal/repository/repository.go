package repository

//go:generate mockgen -source=repository.go -destination=mocks/repository.go -package=mocks

import (
	"context"

	"benfit/meustreinos/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository stores accounts, avatar choice and body measurements.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	SetAvatar(ctx context.Context, id primitive.ObjectID, avatarID string) error
	SetMeasurements(ctx context.Context, id primitive.ObjectID, weightKg, heightCm *float64) error
}

// ExerciseRepository stores the exercise catalog. List returns built-in entries first,
// in catalog order, followed by custom ones by creation time.
type ExerciseRepository interface {
	List(ctx context.Context) ([]domain.Exercise, error)
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	Create(ctx context.Context, exercise *domain.Exercise) error
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id string) error
	UpsertBuiltins(ctx context.Context, exercises []domain.Exercise) error
}

// PlanRepository keeps at most one plan per user.
type PlanRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.UserPlan, error)
	// Save replaces the user's plan.
	Save(ctx context.Context, plan *domain.UserPlan) error
}

// ProgressRepository keeps one progress record per user and month (YYYY-MM).
type ProgressRepository interface {
	Get(ctx context.Context, userID, month string) (domain.Progress, error)
	Save(ctx context.Context, userID, month string, progress domain.Progress) error
	ListByUser(ctx context.Context, userID string) (map[string]domain.Progress, error)
}

// PointsRepository keeps the points total of each user.
type PointsRepository interface {
	Get(ctx context.Context, userID string) (int, error)
	Set(ctx context.Context, userID string, points int) error
}

// MarksRepository keeps the completion marks of a session on a day (YYYY-MM-DD).
type MarksRepository interface {
	Get(ctx context.Context, userID, sessionID, day string) (domain.Marks, error)
	Save(ctx context.Context, userID, sessionID, day string, marks domain.Marks) error
	Delete(ctx context.Context, userID, sessionID, day string) error
}
