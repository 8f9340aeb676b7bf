package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"benfit/meustreinos/internal/catalog"
	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/repository"
	"benfit/meustreinos/internal/storage"

	"github.com/sirupsen/logrus"
)

var (
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrExerciseExists     = errors.New("exercise with this id already exists")
	ErrInvalidExercise    = errors.New("exercise needs a lowercase id, a name and known muscle groups")
	ErrBuiltinExercise    = errors.New("built-in exercises cannot be changed")
	ErrStorageDisabled    = errors.New("image storage is not configured")
	ErrInvalidContentType = errors.New("content type must be an image type")
)

var exerciseIDPattern = regexp.MustCompile(`^[a-z0-9_]{2,64}$`)

type ExerciseService interface {
	List(ctx context.Context) ([]domain.Exercise, error)
	Search(ctx context.Context, query string) ([]domain.Exercise, error)
	Get(ctx context.Context, id string) (*domain.Exercise, error)
	Create(ctx context.Context, exercise domain.Exercise) (*domain.Exercise, error)
	Update(ctx context.Context, id string, exercise domain.Exercise) (*domain.Exercise, error)
	Delete(ctx context.Context, id string) error
	ImageUploadURL(ctx context.Context, id, contentType string) (uploadURL, objectKey string, err error)
	ResolveImage(ctx context.Context, ref string) string
	SeedBuiltins(ctx context.Context) error
}

// exerciseService serves the catalog from the database, with the embedded catalog as
// the fallback when the database has nothing or cannot be read.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	builtin      *catalog.Catalog
	files        storage.FileStorage // nil when S3 is not configured
}

func NewExerciseService(exerciseRepo repository.ExerciseRepository, builtin *catalog.Catalog, files storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		builtin:      builtin,
		files:        files,
	}
}

func (s *exerciseService) List(ctx context.Context) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.List(ctx)
	if err != nil {
		logrus.WithError(err).Warnln("exercise list failed, serving built-in catalog")
		return s.builtin.ExerciseList(), nil
	}
	if len(exercises) == 0 {
		return s.builtin.ExerciseList(), nil
	}
	return exercises, nil
}

func (s *exerciseService) Search(ctx context.Context, query string) ([]domain.Exercise, error) {
	exercises, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Search(exercises, query), nil
}

func (s *exerciseService) Get(ctx context.Context, id string) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err == nil {
		return exercise, nil
	}
	if ex, ok := domain.FindExercise(s.builtin.Exercises, id); ok {
		if !errors.Is(err, repository.ErrNotFound) {
			logrus.WithError(err).WithField("exercise", id).Warnln("exercise lookup failed, serving built-in entry")
		}
		found := *ex
		return &found, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrExerciseNotFound
	}
	return nil, fmt.Errorf("get exercise %s: %w", id, err)
}

func (s *exerciseService) validate(ex *domain.Exercise) error {
	ex.Name = strings.TrimSpace(ex.Name)
	if !exerciseIDPattern.MatchString(ex.ID) || ex.Name == "" || len(ex.PrimaryMuscles) == 0 {
		return ErrInvalidExercise
	}
	for _, m := range ex.PrimaryMuscles {
		if !s.builtin.IsMuscle(m) {
			return ErrInvalidExercise
		}
	}
	return nil
}

func (s *exerciseService) Create(ctx context.Context, exercise domain.Exercise) (*domain.Exercise, error) {
	if err := s.validate(&exercise); err != nil {
		return nil, err
	}
	if s.builtin.IsBuiltinExercise(exercise.ID) {
		return nil, ErrExerciseExists
	}

	if err := s.exerciseRepo.Create(ctx, &exercise); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrExerciseExists
		}
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	return &exercise, nil
}

func (s *exerciseService) Update(ctx context.Context, id string, exercise domain.Exercise) (*domain.Exercise, error) {
	exercise.ID = id
	if s.builtin.IsBuiltinExercise(id) {
		return nil, ErrBuiltinExercise
	}
	if err := s.validate(&exercise); err != nil {
		return nil, err
	}

	if err := s.exerciseRepo.Update(ctx, &exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("update exercise: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a custom exercise and, best effort, its stored images.
// Plans still referencing it keep the id; clients show it as unavailable.
func (s *exerciseService) Delete(ctx context.Context, id string) error {
	if s.builtin.IsBuiltinExercise(id) {
		return ErrBuiltinExercise
	}

	existing, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return fmt.Errorf("get exercise %s: %w", id, err)
	}

	if err := s.exerciseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return fmt.Errorf("delete exercise: %w", err)
	}

	s.deleteImages(ctx, existing)
	return nil
}

func (s *exerciseService) deleteImages(ctx context.Context, ex *domain.Exercise) {
	if s.files == nil {
		return
	}
	refs := []string{ex.MachineImage}
	if ex.FreeWeight != nil {
		refs = append(refs, ex.FreeWeight.Image)
	}
	for _, ref := range refs {
		if !storage.IsObjectKey(ref) {
			continue
		}
		if err := s.files.DeleteObject(ctx, ref); err != nil {
			logrus.WithError(err).WithField("key", ref).Warnln("could not delete exercise image")
		}
	}
}

// ImageUploadURL presigns an upload of a new image for a custom exercise. The caller
// stores the returned key in the exercise afterwards.
func (s *exerciseService) ImageUploadURL(ctx context.Context, id, contentType string) (string, string, error) {
	if s.files == nil {
		return "", "", ErrStorageDisabled
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", ErrInvalidContentType
	}
	if s.builtin.IsBuiltinExercise(id) {
		return "", "", ErrBuiltinExercise
	}
	if _, err := s.Get(ctx, id); err != nil {
		return "", "", err
	}

	key := storage.ExerciseImageKey(id, contentType)
	uploadURL, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", fmt.Errorf("presign upload: %w", err)
	}
	return uploadURL, key, nil
}

// ResolveImage turns an image reference into something a client can fetch: absolute
// URLs pass through, object keys become presigned URLs. Unresolvable keys give "".
func (s *exerciseService) ResolveImage(ctx context.Context, ref string) string {
	if !storage.IsObjectKey(ref) {
		return ref
	}
	if s.files == nil {
		return ""
	}
	u, err := s.files.GeneratePresignedDownloadURL(ctx, ref, storage.DefaultPresignedURLExpiry)
	if err != nil {
		logrus.WithError(err).WithField("key", ref).Warnln("could not presign exercise image")
		return ""
	}
	return u
}

func (s *exerciseService) SeedBuiltins(ctx context.Context) error {
	if err := s.exerciseRepo.UpsertBuiltins(ctx, s.builtin.ExerciseList()); err != nil {
		return fmt.Errorf("seed built-in exercises: %w", err)
	}
	return nil
}
