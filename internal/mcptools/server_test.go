package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"benfit/meustreinos/internal/catalog"
	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/planner"
	"benfit/meustreinos/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogPlanner struct {
	err error
}

func (p catalogPlanner) Preview(_ context.Context, goal domain.Goal, groups []string, frequency float64) (*domain.UserPlan, error) {
	if p.err != nil {
		return nil, p.err
	}
	plan := planner.Generate(goal, groups, frequency, catalog.MustBuiltin().ExerciseList())
	return &plan, nil
}

type catalogSearcher struct{}

func (catalogSearcher) Search(_ context.Context, query string) ([]domain.Exercise, error) {
	return catalog.Search(catalog.MustBuiltin().ExerciseList(), query), nil
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}

func TestNew_RegistersTools(t *testing.T) {
	s := New(catalogPlanner{}, catalogSearcher{}, "test")
	require.NotNil(t, s)
	require.NotNil(t, NewHTTPHandler(s))
}

func TestGeneratePlan(t *testing.T) {
	h := &handlers{plans: catalogPlanner{}, exercises: catalogSearcher{}}

	res, err := h.generatePlan(context.Background(), call("generate_plan", map[string]any{
		"goal":      "strength",
		"groups":    "Peito, Triceps",
		"frequency": 4.0,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var plan domain.UserPlan
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &plan))
	assert.Equal(t, domain.GoalStrength, plan.Goal)
	assert.Equal(t, []string{"Peito", "Triceps"}, plan.Groups)
	assert.Len(t, plan.Sessions, 4)
}

func TestGeneratePlan_Errors(t *testing.T) {
	h := &handlers{plans: catalogPlanner{err: service.ErrInvalidGoal}, exercises: catalogSearcher{}}
	ctx := context.Background()

	res, err := h.generatePlan(ctx, call("generate_plan", map[string]any{"goal": "strength"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = h.generatePlan(ctx, call("generate_plan", map[string]any{
		"goal": "yoga", "groups": "Peito", "frequency": 3.0,
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), service.ErrInvalidGoal.Error())

	h.plans = catalogPlanner{err: errors.New("mongo: connection refused")}
	res, err = h.generatePlan(ctx, call("generate_plan", map[string]any{
		"goal": "strength", "groups": "Peito", "frequency": 3.0,
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.NotContains(t, resultText(t, res), "mongo")
}

func TestTrophyForPoints(t *testing.T) {
	h := &handlers{}

	res, err := h.trophyForPoints(context.Background(), call("trophy_for_points", map[string]any{"points": 650.0}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var got trophyResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, "Ouro", got.Trophy.Name)
	require.NotNil(t, got.NextTrophy)
	assert.Equal(t, "Diamante", got.NextTrophy.Name)
	assert.Equal(t, 1000, got.NextTrophy.Threshold)
}

func TestSearchExercises(t *testing.T) {
	h := &handlers{exercises: catalogSearcher{}}

	res, err := h.searchExercises(context.Background(), call("search_exercises", map[string]any{"query": "PANTURRILHA"}))
	require.NoError(t, err)

	var found []domain.Exercise
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "panturrilha_em_pe", found[0].ID)

	res, err = h.searchExercises(context.Background(), call("search_exercises", map[string]any{"query": "zzz"}))
	require.NoError(t, err)
	assert.Equal(t, "[]", resultText(t, res))
}
