package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"benfit/meustreinos/internal/catalog"
	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidUserID      = errors.New("invalid user id")
	ErrUnknownAvatar      = errors.New("unknown avatar")
	ErrInvalidMeasurement = errors.New("weight and height must be greater than zero")
)

// Profile is a user as shown on the profile screen.
type Profile struct {
	User   *domain.User  `json:"user"`
	Avatar domain.Avatar `json:"avatar"`
	BMI    *float64      `json:"bmi,omitempty"`
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	SetAvatar(ctx context.Context, userID, avatarID string) (*Profile, error)
	SetMeasurements(ctx context.Context, userID string, weightKg, heightCm *float64) (*Profile, error)
}

type profileService struct {
	userRepo repository.UserRepository
	builtin  *catalog.Catalog
	notifier Notifier
}

func NewProfileService(userRepo repository.UserRepository, builtin *catalog.Catalog, notifier Notifier) ProfileService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &profileService{
		userRepo: userRepo,
		builtin:  builtin,
		notifier: notifier,
	}
}

func parseUserID(userID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidUserID
	}
	return id, nil
}

func (s *profileService) Get(ctx context.Context, userID string) (*Profile, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	profile := &Profile{User: user}
	avatar, ok := s.builtin.Avatar(user.Avatar())
	if !ok {
		avatar, _ = s.builtin.Avatar(domain.DefaultAvatarID)
	}
	profile.Avatar = avatar
	if bmi, ok := user.BMI(); ok {
		profile.BMI = &bmi
	}
	return profile, nil
}

func (s *profileService) SetAvatar(ctx context.Context, userID, avatarID string) (*Profile, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	if _, ok := s.builtin.Avatar(avatarID); !ok {
		return nil, ErrUnknownAvatar
	}
	if err := s.userRepo.SetAvatar(ctx, id, avatarID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("set avatar: %w", err)
	}
	s.notifier.Notify(userID)
	return s.Get(ctx, userID)
}

func validMeasurement(v *float64) bool {
	return v == nil || (*v > 0 && !math.IsInf(*v, 0) && !math.IsNaN(*v))
}

// SetMeasurements stores weight and height; a nil value clears it.
func (s *profileService) SetMeasurements(ctx context.Context, userID string, weightKg, heightCm *float64) (*Profile, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	if !validMeasurement(weightKg) || !validMeasurement(heightCm) {
		return nil, ErrInvalidMeasurement
	}
	if err := s.userRepo.SetMeasurements(ctx, id, weightKg, heightCm); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("set measurements: %w", err)
	}
	s.notifier.Notify(userID)
	return s.Get(ctx, userID)
}
