package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"benfit/meustreinos/internal/catalog"
	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/metrics"
	"benfit/meustreinos/internal/planner"
	"benfit/meustreinos/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidGoal        = errors.New("goal must be strength, hypertrophy or endurance")
	ErrUnknownMuscleGroup = errors.New("unknown muscle group")
	ErrNoMuscleGroups     = errors.New("at least one muscle group is required")
	ErrInvalidFrequency   = errors.New("frequency must be greater than zero")
	ErrInvalidPlan        = errors.New("plan must have 3 to 4 sessions of at most 7 exercises")
	ErrPlanNotFound       = errors.New("no plan saved yet")
	ErrInvalidSwap        = errors.New("replacement must share a muscle group with the current exercise")
	ErrSessionNotFound    = planner.ErrSessionNotFound
	ErrItemOutOfRange     = planner.ErrItemOutOfRange
)

type PlanService interface {
	Preview(ctx context.Context, goal domain.Goal, groups []string, frequency float64) (*domain.UserPlan, error)
	Save(ctx context.Context, userID string, plan domain.UserPlan) (*domain.UserPlan, error)
	GenerateAndSave(ctx context.Context, userID string, goal domain.Goal, groups []string, frequency float64) (*domain.UserPlan, error)
	Current(ctx context.Context, userID string) (*domain.UserPlan, error)
	Alternatives(ctx context.Context, userID, sessionID string, index int) ([]domain.Exercise, error)
	Swap(ctx context.Context, userID, sessionID string, index int, exerciseID string) (*domain.UserPlan, error)
}

type planService struct {
	planRepo  repository.PlanRepository
	exercises ExerciseService
	builtin   *catalog.Catalog
	generator planner.Generator
	metrics   *metrics.Manager
	notifier  Notifier
}

func NewPlanService(
	planRepo repository.PlanRepository,
	exercises ExerciseService,
	builtin *catalog.Catalog,
	clock Clock,
	metricsManager *metrics.Manager,
	notifier Notifier,
) PlanService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &planService{
		planRepo:  planRepo,
		exercises: exercises,
		builtin:   builtin,
		generator: planner.Generator{Now: clock.now},
		metrics:   metricsManager,
		notifier:  notifier,
	}
}

func (s *planService) validateRequest(goal domain.Goal, groups []string, frequency float64) error {
	if !goal.Valid() {
		return ErrInvalidGoal
	}
	if len(groups) == 0 {
		return ErrNoMuscleGroups
	}
	for _, g := range groups {
		if !s.builtin.IsMuscle(g) {
			return fmt.Errorf("%w: %s", ErrUnknownMuscleGroup, g)
		}
	}
	if math.IsNaN(frequency) || frequency <= 0 {
		return ErrInvalidFrequency
	}
	return nil
}

// Preview generates a plan against the current catalog without storing it.
func (s *planService) Preview(ctx context.Context, goal domain.Goal, groups []string, frequency float64) (*domain.UserPlan, error) {
	if err := s.validateRequest(goal, groups, frequency); err != nil {
		return nil, err
	}
	exercises, err := s.exercises.List(ctx)
	if err != nil {
		return nil, err
	}

	plan := s.generator.Generate(goal, groups, frequency, exercises)
	s.metrics.CounterPlansGenerated.WithLabelValues(string(goal)).Inc()
	return &plan, nil
}

func validatePlan(plan *domain.UserPlan) error {
	if !plan.Goal.Valid() {
		return ErrInvalidGoal
	}
	if len(plan.Sessions) < planner.MinSessions || len(plan.Sessions) > planner.MaxSessions {
		return ErrInvalidPlan
	}
	seen := make(map[string]bool, len(plan.Sessions))
	for _, session := range plan.Sessions {
		if session.ID == "" || seen[session.ID] || len(session.Items) > planner.MaxItems {
			return ErrInvalidPlan
		}
		seen[session.ID] = true
		for _, it := range session.Items {
			if it.ExerciseID == "" {
				return ErrInvalidPlan
			}
		}
	}
	return nil
}

// Save replaces the user's plan with plan.
func (s *planService) Save(ctx context.Context, userID string, plan domain.UserPlan) (*domain.UserPlan, error) {
	plan = plan.Clone()
	if err := validatePlan(&plan); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	plan.UserID = userID
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.Month == "" {
		plan.Month = domain.MonthOf(s.generator.Now())
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now

	if err := s.planRepo.Save(ctx, &plan); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	s.metrics.CounterPlansSaved.Inc()
	s.notifier.Notify(userID)
	return &plan, nil
}

func (s *planService) GenerateAndSave(ctx context.Context, userID string, goal domain.Goal, groups []string, frequency float64) (*domain.UserPlan, error) {
	plan, err := s.Preview(ctx, goal, groups, frequency)
	if err != nil {
		return nil, err
	}
	return s.Save(ctx, userID, *plan)
}

func (s *planService) Current(ctx context.Context, userID string) (*domain.UserPlan, error) {
	plan, err := s.planRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return plan, nil
}

func (s *planService) itemAt(plan *domain.UserPlan, sessionID string, index int) (domain.SessionExercise, error) {
	session, ok := plan.Session(sessionID)
	if !ok {
		return domain.SessionExercise{}, ErrSessionNotFound
	}
	if index < 0 || index >= len(session.Items) {
		return domain.SessionExercise{}, ErrItemOutOfRange
	}
	return session.Items[index], nil
}

// Alternatives lists the exercises that may replace the item at index of a session.
func (s *planService) Alternatives(ctx context.Context, userID, sessionID string, index int) ([]domain.Exercise, error) {
	plan, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.alternatives(ctx, plan, sessionID, index)
}

func (s *planService) alternatives(ctx context.Context, plan *domain.UserPlan, sessionID string, index int) ([]domain.Exercise, error) {
	item, err := s.itemAt(plan, sessionID, index)
	if err != nil {
		return nil, err
	}
	exercises, err := s.exercises.List(ctx)
	if err != nil {
		return nil, err
	}
	pool := planner.ReplacementPool(exercises, item.ExerciseID)
	if pool == nil {
		pool = []domain.Exercise{}
	}
	return pool, nil
}

func (s *planService) Swap(ctx context.Context, userID, sessionID string, index int, exerciseID string) (*domain.UserPlan, error) {
	plan, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	pool, err := s.alternatives(ctx, plan, sessionID, index)
	if err != nil {
		return nil, err
	}
	if _, ok := domain.FindExercise(pool, exerciseID); !ok {
		return nil, ErrInvalidSwap
	}

	swapped, err := planner.Swap(*plan, sessionID, index, exerciseID)
	if err != nil {
		return nil, err
	}
	swapped.UpdatedAt = time.Now().UTC()

	if err := s.planRepo.Save(ctx, &swapped); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	s.notifier.Notify(userID)
	return &swapped, nil
}
