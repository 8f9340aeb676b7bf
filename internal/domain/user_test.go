package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_BMI(t *testing.T) {
	w, h := 80.0, 175.0
	u := User{WeightKg: &w, HeightCm: &h}

	bmi, ok := u.BMI()
	assert.True(t, ok)
	assert.Equal(t, 26.1, bmi)

	u.HeightCm = nil
	_, ok = u.BMI()
	assert.False(t, ok)

	_, ok = ComputeBMI(80, 0)
	assert.False(t, ok)
}

func TestUser_Avatar(t *testing.T) {
	u := User{}
	assert.Equal(t, DefaultAvatarID, u.Avatar())
	u.AvatarID = "a7"
	assert.Equal(t, "a7", u.Avatar())
}

func TestUserPlan_CloneIsDeep(t *testing.T) {
	p := UserPlan{
		Groups: []string{"Peito"},
		Sessions: []SessionPlan{
			{ID: "s1", Items: []SessionExercise{{ExerciseID: "supino_reto", Sets: 4}}},
		},
	}
	c := p.Clone()
	c.Sessions[0].Items[0].ExerciseID = "crucifixo_cabo"
	c.Groups[0] = "Costas"

	assert.Equal(t, "supino_reto", p.Sessions[0].Items[0].ExerciseID)
	assert.Equal(t, "Peito", p.Groups[0])

	s, ok := c.Session("s1")
	assert.True(t, ok)
	assert.Equal(t, "crucifixo_cabo", s.Items[0].ExerciseID)
	_, ok = c.Session("nope")
	assert.False(t, ok)
}

func TestGoal(t *testing.T) {
	assert.True(t, GoalStrength.Valid())
	assert.False(t, Goal("cardio").Valid())
	assert.Equal(t, "Hipertrofia", GoalHypertrophy.Label())
	assert.Equal(t, "Resistencia", Goal("cardio").Label())
}

func TestExercise_SharesMuscleWith(t *testing.T) {
	supino := Exercise{ID: "supino_reto", PrimaryMuscles: []string{"Peito", "Triceps"}}
	corda := Exercise{ID: "triceps_corda", PrimaryMuscles: []string{"Triceps"}}
	prancha := Exercise{ID: "prancha", PrimaryMuscles: []string{"Core"}}

	assert.True(t, supino.SharesMuscleWith(&corda))
	assert.False(t, supino.SharesMuscleWith(&prancha))

	found, ok := FindExercise([]Exercise{supino, corda}, "triceps_corda")
	assert.True(t, ok)
	assert.Equal(t, "triceps_corda", found.ID)
}
