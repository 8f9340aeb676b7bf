package service

import (
	"sync"
	"testing"
	"time"

	"benfit/meustreinos/internal/catalog"
	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/metrics"
	"benfit/meustreinos/internal/repository/mocks"

	"go.uber.org/mock/gomock"
)

const testUserID = "64b7f0c2a1e4d3b2c1a09f87"

var testNow = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu    sync.Mutex
	users []string
}

func (n *recordingNotifier) Notify(userID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
}

func (n *recordingNotifier) notified() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.users...)
}

type fixture struct {
	users     *mocks.MockUserRepository
	exercises *mocks.MockExerciseRepository
	plans     *mocks.MockPlanRepository
	progress  *mocks.MockProgressRepository
	points    *mocks.MockPointsRepository
	marks     *mocks.MockMarksRepository

	clock    Clock
	metrics  *metrics.Manager
	notifier *recordingNotifier
	catalog  *catalog.Catalog

	exerciseService ExerciseService
	planService     PlanService
	progressService ProgressService
	profileService  ProfileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		users:     mocks.NewMockUserRepository(ctrl),
		exercises: mocks.NewMockExerciseRepository(ctrl),
		plans:     mocks.NewMockPlanRepository(ctrl),
		progress:  mocks.NewMockProgressRepository(ctrl),
		points:    mocks.NewMockPointsRepository(ctrl),
		marks:     mocks.NewMockMarksRepository(ctrl),
		clock:     Clock{Location: time.UTC, Now: func() time.Time { return testNow }},
		metrics:   metrics.NewTestManager(),
		notifier:  &recordingNotifier{},
		catalog:   catalog.MustBuiltin(),
	}

	f.exerciseService = NewExerciseService(f.exercises, f.catalog, nil)
	f.planService = NewPlanService(f.plans, f.exerciseService, f.catalog, f.clock, f.metrics, f.notifier)
	f.progressService = NewProgressService(
		f.progress, f.points, f.marks,
		f.planService, f.exerciseService,
		f.clock, NewUserLocks(), f.metrics, f.notifier,
	)
	f.profileService = NewProfileService(f.users, f.catalog, f.notifier)
	return f
}

// builtinCatalog makes the exercise repository empty so the embedded catalog is served.
func (f *fixture) builtinCatalog() {
	f.exercises.EXPECT().List(gomock.Any()).Return(nil, nil).AnyTimes()
}

func item(exerciseID string) domain.SessionExercise {
	return domain.SessionExercise{ExerciseID: exerciseID, Sets: 4, Reps: "8-12", Rest: "60-90s"}
}

func testPlan() *domain.UserPlan {
	return &domain.UserPlan{
		ID:        "plan-1",
		UserID:    testUserID,
		Goal:      domain.GoalHypertrophy,
		Groups:    []string{"Peito"},
		Frequency: 3,
		Month:     "2026-03",
		Sessions: []domain.SessionPlan{
			{ID: "s1", Name: "Treino A", Items: []domain.SessionExercise{item("supino_reto"), item("crucifixo_cabo")}},
			{ID: "s2", Name: "Treino B", Items: []domain.SessionExercise{item("crucifixo_cabo"), item("supino_reto")}},
			{ID: "s3", Name: "Treino C", Items: []domain.SessionExercise{item("supino_reto"), item("crucifixo_cabo")}},
		},
	}
}
