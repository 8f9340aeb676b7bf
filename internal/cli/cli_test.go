package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"benfit/meustreinos/internal/catalog"
	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/planner"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var app App
	parser, err := kong.New(&app, kong.Name("planctl"), kong.Exit(func(int) { t.Fatalf("unexpected exit for %v", args) }))
	require.NoError(t, err)

	kctx, err := parser.Parse(args)
	if err != nil {
		return "", err
	}

	out := &bytes.Buffer{}
	err = kctx.Run(&Context{
		Catalog: catalog.MustBuiltin(),
		Generator: planner.Generator{
			Now: func() time.Time { return time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC) },
		},
		Out: out,
	})
	return out.String(), err
}

func TestGenerateCmd_Text(t *testing.T) {
	out, err := run(t, "generate", "--goal", "strength", "-g", "Peito", "-g", "Costas", "-f", "4")
	require.NoError(t, err)

	assert.Contains(t, out, "Plan 2026-03 (strength): 4 sessions, 4 sets x 4-6 reps, rest 120-180s")
	for _, name := range []string{"Treino A", "Treino B", "Treino C", "Treino D"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "1. Supino reto  4x4-6")
}

func TestGenerateCmd_JSON(t *testing.T) {
	out, err := run(t, "generate", "-g", "Peito", "--json")
	require.NoError(t, err)

	var plan domain.UserPlan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, domain.GoalHypertrophy, plan.Goal)
	assert.Equal(t, []string{"Peito"}, plan.Groups)
	require.Len(t, plan.Sessions, 3)
	for _, session := range plan.Sessions {
		assert.Len(t, session.Items, 2)
	}
}

func TestGenerateCmd_Errors(t *testing.T) {
	_, err := run(t, "generate", "-g", "Pernas")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown muscle group "Pernas"`)

	_, err = run(t, "generate", "--goal", "bulking", "-g", "Peito")
	assert.Error(t, err)

	_, err = run(t, "generate")
	assert.Error(t, err)
}

func TestTrophyCmd(t *testing.T) {
	out, err := run(t, "trophy", "650")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "650 points: Ouro", lines[0])
	assert.Equal(t, "Next: Diamante at 1000 (350 to go)", lines[1])

	out, err = run(t, "trophy", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "1000 points: Diamante\nTop level reached\n")

	out, err = run(t, "trophy", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "0 points: Iniciante\nNext: Bronze at 100 (100 to go)\n")
}

func TestExercisesCmd(t *testing.T) {
	out, err := run(t, "exercises", "-q", "costas")
	require.NoError(t, err)
	assert.Contains(t, out, "remada_sentada")
	assert.Contains(t, out, "puxada_barra")
	assert.NotContains(t, out, "supino_reto")

	out, err = run(t, "exercises", "-q", "zzz")
	require.NoError(t, err)
	assert.Equal(t, "No exercises found\n", out)

	out, err = run(t, "exercises")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), len(catalog.MustBuiltin().Exercises))
}
