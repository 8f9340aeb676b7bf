package planner

import (
	"fmt"
	"math"
	"testing"
	"time"

	"benfit/meustreinos/internal/catalog"
	"benfit/meustreinos/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedGenerator() Generator {
	n := 0
	return Generator{
		Now: func() time.Time { return time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func itemIDs(s domain.SessionPlan) []string {
	ids := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		ids = append(ids, it.ExerciseID)
	}
	return ids
}

func TestSchemaFor(t *testing.T) {
	assert.Equal(t, Schema{Sets: 4, Reps: "4-6", Rest: "120-180s"}, SchemaFor(domain.GoalStrength))
	assert.Equal(t, Schema{Sets: 4, Reps: "8-12", Rest: "60-90s"}, SchemaFor(domain.GoalHypertrophy))
	assert.Equal(t, Schema{Sets: 3, Reps: "12-20", Rest: "45-60s"}, SchemaFor(domain.GoalEndurance))
	assert.Equal(t, SchemaFor(domain.GoalEndurance), SchemaFor("unknown"))
}

func TestSessionCount(t *testing.T) {
	cases := map[float64]int{
		-2: 3, 0: 3, 0.4: 3, 1: 3, 3: 3, 3.4: 3, 3.5: 4, 4: 4, 7: 4, 100: 4,
		math.Inf(1): 4, math.Inf(-1): 3,
	}
	for freq, want := range cases {
		assert.Equal(t, want, SessionCount(freq), "frequency %v", freq)
	}
	assert.Equal(t, 3, SessionCount(math.NaN()))
}

func TestGenerate_HypertrophyChestTriceps(t *testing.T) {
	lib := catalog.MustBuiltin().ExerciseList()

	plan := fixedGenerator().Generate(domain.GoalHypertrophy, []string{"Peito", "Triceps"}, 3, lib)

	require.Len(t, plan.Sessions, 3)
	assert.Equal(t, "2025-03", plan.Month)
	assert.Empty(t, plan.UserID)
	assert.Equal(t, domain.GoalHypertrophy, plan.Goal)
	assert.Equal(t, []string{"Peito", "Triceps"}, plan.Groups)
	assert.Equal(t, "id-4", plan.ID)

	assert.Equal(t, []string{"supino_reto", "crucifixo_cabo", "supino_reto", "desenvolvimento_ombros"}, itemIDs(plan.Sessions[0]))
	assert.Equal(t, []string{"crucifixo_cabo", "supino_reto", "desenvolvimento_ombros", "triceps_corda"}, itemIDs(plan.Sessions[1]))
	assert.Equal(t, []string{"supino_reto", "crucifixo_cabo", "triceps_corda", "supino_reto"}, itemIDs(plan.Sessions[2]))

	for i, s := range plan.Sessions {
		assert.Equal(t, sessionNames[i], s.Name)
		assert.Equal(t, fmt.Sprintf("id-%d", i+1), s.ID)
	}

	first := plan.Sessions[0].Items[0]
	assert.Equal(t, domain.SessionExercise{
		ExerciseID: "supino_reto",
		Sets:       4,
		Reps:       "8-12",
		Rest:       "60-90s",
		Tips:       "Escapulas retraidas, controle na descida.",
	}, first)
}

func TestGenerate_SessionsAlwaysThreeOrFour(t *testing.T) {
	lib := catalog.MustBuiltin().ExerciseList()
	for _, freq := range []float64{-5, 0, 1, 2, 3, 4, 5, 6, 7, 14} {
		plan := Generate(domain.GoalStrength, []string{"Costas"}, freq, lib)
		assert.GreaterOrEqual(t, len(plan.Sessions), MinSessions)
		assert.LessOrEqual(t, len(plan.Sessions), MaxSessions)
	}
}

func TestGenerate_TruncatesToSevenItems(t *testing.T) {
	c := catalog.MustBuiltin()

	plan := Generate(domain.GoalEndurance, c.Muscles, 4, c.ExerciseList())

	require.Len(t, plan.Sessions, 4)
	for _, s := range plan.Sessions {
		assert.Len(t, s.Items, MaxItems)
		for _, it := range s.Items {
			assert.Equal(t, 3, it.Sets)
			assert.Equal(t, "12-20", it.Reps)
			assert.Equal(t, "45-60s", it.Rest)
		}
	}
}

func TestGenerate_SparseInputs(t *testing.T) {
	lib := catalog.MustBuiltin().ExerciseList()

	// single-exercise pool repeats
	plan := Generate(domain.GoalStrength, []string{"Core"}, 3, lib)
	for _, s := range plan.Sessions {
		assert.Equal(t, []string{"prancha", "prancha"}, itemIDs(s))
	}

	// no groups, unknown group, empty catalog: empty sessions, never a failure
	for _, p := range []domain.UserPlan{
		Generate(domain.GoalStrength, nil, 3, lib),
		Generate(domain.GoalStrength, []string{"Pescoco"}, 3, lib),
		Generate(domain.GoalStrength, []string{"Peito"}, 4, nil),
	} {
		require.NotEmpty(t, p.Sessions)
		for _, s := range p.Sessions {
			assert.NotNil(t, s.Items)
			assert.Empty(t, s.Items)
		}
	}
}

func TestGenerate_DeterministicApartFromIDs(t *testing.T) {
	lib := catalog.MustBuiltin().ExerciseList()
	a := Generate(domain.GoalHypertrophy, []string{"Costas", "Biceps"}, 4, lib)
	b := Generate(domain.GoalHypertrophy, []string{"Costas", "Biceps"}, 4, lib)

	assert.NotEqual(t, a.ID, b.ID)
	require.Len(t, b.Sessions, len(a.Sessions))
	for i := range a.Sessions {
		assert.NotEqual(t, a.Sessions[i].ID, b.Sessions[i].ID)
		assert.Equal(t, a.Sessions[i].Items, b.Sessions[i].Items)
	}
}

func TestReplacementPool(t *testing.T) {
	lib := catalog.MustBuiltin().ExerciseList()

	pool := ReplacementPool(lib, "triceps_corda")
	ids := make([]string, 0, len(pool))
	for _, ex := range pool {
		ids = append(ids, ex.ID)
	}
	assert.Equal(t, []string{"supino_reto", "desenvolvimento_ombros"}, ids)

	assert.Empty(t, ReplacementPool(lib, "prancha"))
	assert.Nil(t, ReplacementPool(lib, "missing"))
}

func TestSwap(t *testing.T) {
	lib := catalog.MustBuiltin().ExerciseList()
	plan := fixedGenerator().Generate(domain.GoalStrength, []string{"Peito"}, 3, lib)
	sessionID := plan.Sessions[1].ID
	before := plan.Sessions[1].Items[0]

	swapped, err := Swap(plan, sessionID, 0, "supino_reto")
	require.NoError(t, err)

	after := swapped.Sessions[1].Items[0]
	assert.Equal(t, "supino_reto", after.ExerciseID)
	assert.Equal(t, before.Sets, after.Sets)
	assert.Equal(t, before.Reps, after.Reps)
	assert.Equal(t, before.Rest, after.Rest)
	// original plan untouched
	assert.Equal(t, before, plan.Sessions[1].Items[0])

	_, err = Swap(plan, "nope", 0, "supino_reto")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = Swap(plan, sessionID, 2, "supino_reto")
	assert.ErrorIs(t, err, ErrItemOutOfRange)
	_, err = Swap(plan, sessionID, -1, "supino_reto")
	assert.ErrorIs(t, err, ErrItemOutOfRange)
}

func TestRestSeconds(t *testing.T) {
	assert.Equal(t, 60, RestSeconds("60-90s"))
	assert.Equal(t, 120, RestSeconds("120-180s"))
	assert.Equal(t, 45, RestSeconds("45-60s"))
	assert.Equal(t, 60, RestSeconds("90s"))
	assert.Equal(t, 60, RestSeconds(""))
}

func TestGroupCounts(t *testing.T) {
	lib := catalog.MustBuiltin().ExerciseList()
	plan := domain.UserPlan{Sessions: []domain.SessionPlan{{
		Items: []domain.SessionExercise{
			{ExerciseID: "supino_reto"},
			{ExerciseID: "triceps_corda"},
			{ExerciseID: "gone"},
		},
	}}}

	assert.Equal(t, map[string]int{"Peito": 1, "Triceps": 2}, GroupCounts(plan, lib))
}
