package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	assert.Len(t, c.Muscles, 10)
	assert.Len(t, c.Avatars, 11)
	assert.Len(t, c.Exercises, 14)

	a, ok := c.Avatar("a1")
	require.True(t, ok)
	assert.Equal(t, "Luna", a.Label)
	_, ok = c.Avatar("a12")
	assert.False(t, ok)

	assert.True(t, c.IsMuscle("Peito"))
	assert.False(t, c.IsMuscle("peito"))
	assert.True(t, c.IsBuiltinExercise("supino_reto"))

	for _, ex := range c.Exercises {
		assert.True(t, ex.Builtin, ex.ID)
	}
	assert.Equal(t, []string{"Peito", "Triceps"}, c.Exercises[0].PrimaryMuscles)
}

func TestExerciseListIsACopy(t *testing.T) {
	c := MustBuiltin()
	list := c.ExerciseList()
	list[0].Name = "changed"
	assert.Equal(t, "Supino reto", c.Exercises[0].Name)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("exercises: [{id: x, name: X, primaryMuscles: [Peito]}]\navatars: [{id: a1}]"))
	assert.ErrorContains(t, err, `unknown muscle group "Peito"`)

	_, err = Parse([]byte("muscles: [Core]\nexercises: [{id: x, name: X}, {id: x, name: Y}]\navatars: [{id: a1}]"))
	assert.ErrorContains(t, err, "duplicate id")

	_, err = Parse([]byte("muscles: [Core]\nexercises: [{name: X}]"))
	assert.ErrorContains(t, err, "id and name are required")

	_, err = Parse([]byte("muscles: [Core]"))
	assert.ErrorContains(t, err, "no avatars")

	_, err = Parse([]byte("muscles: ["))
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	list := MustBuiltin().ExerciseList()

	byName := Search(list, "SUPINO")
	require.Len(t, byName, 1)
	assert.Equal(t, "supino_reto", byName[0].ID)

	byMuscle := Search(list, "triceps")
	ids := make([]string, 0, len(byMuscle))
	for _, ex := range byMuscle {
		ids = append(ids, ex.ID)
	}
	assert.Equal(t, []string{"supino_reto", "desenvolvimento_ombros", "triceps_corda"}, ids)

	assert.Len(t, Search(list, "  "), len(list))
	assert.Empty(t, Search(list, "natacao"))
}
