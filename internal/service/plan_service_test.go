package service

import (
	"context"
	"errors"
	"testing"

	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPlanService_Preview(t *testing.T) {
	f := newFixture(t)
	f.builtinCatalog()
	ctx := context.Background()

	plan, err := f.planService.Preview(ctx, domain.GoalStrength, []string{"Costas"}, 4)
	require.NoError(t, err)
	assert.Equal(t, "2026-03", plan.Month)
	assert.Empty(t, plan.UserID)
	require.Len(t, plan.Sessions, 4)
	for _, s := range plan.Sessions {
		for _, it := range s.Items {
			assert.Equal(t, 4, it.Sets)
			assert.Equal(t, "4-6", it.Reps)
		}
	}
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CounterPlansGenerated.WithLabelValues("strength")))
}

func TestPlanService_Preview_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.planService.Preview(ctx, "cardio", []string{"Peito"}, 3)
	assert.ErrorIs(t, err, ErrInvalidGoal)

	_, err = f.planService.Preview(ctx, domain.GoalEndurance, nil, 3)
	assert.ErrorIs(t, err, ErrNoMuscleGroups)

	_, err = f.planService.Preview(ctx, domain.GoalEndurance, []string{"Peito", "Pescoco"}, 3)
	assert.ErrorIs(t, err, ErrUnknownMuscleGroup)

	_, err = f.planService.Preview(ctx, domain.GoalEndurance, []string{"Peito"}, 0)
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestPlanService_Save(t *testing.T) {
	f := newFixture(t)

	input := *testPlan()
	input.UserID = "someone-else"
	f.plans.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.UserPlan) error {
			assert.Equal(t, testUserID, p.UserID)
			assert.False(t, p.UpdatedAt.IsZero())
			return nil
		})

	saved, err := f.planService.Save(context.Background(), testUserID, input)
	require.NoError(t, err)
	assert.Equal(t, testUserID, saved.UserID)
	assert.Equal(t, "someone-else", input.UserID)
	assert.Equal(t, []string{testUserID}, f.notifier.notified())
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CounterPlansSaved))
}

func TestPlanService_Save_Invalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	twoSessions := *testPlan()
	twoSessions.Sessions = twoSessions.Sessions[:2]
	_, err := f.planService.Save(ctx, testUserID, twoSessions)
	assert.ErrorIs(t, err, ErrInvalidPlan)

	long := *testPlan()
	for i := 0; i < 6; i++ {
		long.Sessions[0].Items = append(long.Sessions[0].Items, item("supino_reto"))
	}
	_, err = f.planService.Save(ctx, testUserID, long)
	assert.ErrorIs(t, err, ErrInvalidPlan)

	dup := *testPlan()
	dup.Sessions[1].ID = "s1"
	_, err = f.planService.Save(ctx, testUserID, dup)
	assert.ErrorIs(t, err, ErrInvalidPlan)

	noGoal := *testPlan()
	noGoal.Goal = ""
	_, err = f.planService.Save(ctx, testUserID, noGoal)
	assert.ErrorIs(t, err, ErrInvalidGoal)

	assert.Empty(t, f.notifier.notified())
}

func TestPlanService_GenerateAndSave(t *testing.T) {
	f := newFixture(t)
	f.builtinCatalog()

	f.plans.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	plan, err := f.planService.GenerateAndSave(context.Background(), testUserID, domain.GoalHypertrophy, []string{"Peito", "Triceps"}, 3)
	require.NoError(t, err)
	assert.Equal(t, testUserID, plan.UserID)
	assert.Len(t, plan.Sessions, 3)
}

func TestPlanService_Current(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.plans.EXPECT().GetByUserID(gomock.Any(), testUserID).Return(nil, repository.ErrNotFound)
	_, err := f.planService.Current(ctx, testUserID)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	f.plans.EXPECT().GetByUserID(gomock.Any(), testUserID).Return(nil, errors.New("boom"))
	_, err = f.planService.Current(ctx, testUserID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPlanNotFound)
}

func TestPlanService_AlternativesAndSwap(t *testing.T) {
	f := newFixture(t)
	f.builtinCatalog()
	ctx := context.Background()

	f.plans.EXPECT().GetByUserID(gomock.Any(), testUserID).Return(testPlan(), nil).AnyTimes()

	pool, err := f.planService.Alternatives(ctx, testUserID, "s1", 0)
	require.NoError(t, err)
	ids := make([]string, 0, len(pool))
	for _, ex := range pool {
		ids = append(ids, ex.ID)
	}
	assert.Contains(t, ids, "crucifixo_cabo")
	assert.Contains(t, ids, "triceps_corda")
	assert.NotContains(t, ids, "supino_reto")
	assert.NotContains(t, ids, "remada_sentada")

	_, err = f.planService.Alternatives(ctx, testUserID, "s9", 0)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.planService.Alternatives(ctx, testUserID, "s1", 5)
	assert.ErrorIs(t, err, ErrItemOutOfRange)

	_, err = f.planService.Swap(ctx, testUserID, "s1", 0, "remada_sentada")
	assert.ErrorIs(t, err, ErrInvalidSwap)

	f.plans.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	swapped, err := f.planService.Swap(ctx, testUserID, "s1", 0, "triceps_corda")
	require.NoError(t, err)
	got := swapped.Sessions[0].Items[0]
	assert.Equal(t, "triceps_corda", got.ExerciseID)
	assert.Equal(t, 4, got.Sets)
	assert.Equal(t, "8-12", got.Reps)
	assert.Equal(t, "60-90s", got.Rest)
	assert.Equal(t, []string{testUserID}, f.notifier.notified())
}
