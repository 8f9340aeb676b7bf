// Package mcptools exposes the plan generator and the catalog as MCP tools.
package mcptools

import (
	"context"
	"errors"
	"strings"

	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/service"
	"benfit/meustreinos/internal/tracker"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// ServerName is the name announced to MCP clients.
const ServerName = "meustreinos"

type PlanPreviewer interface {
	Preview(ctx context.Context, goal domain.Goal, groups []string, frequency float64) (*domain.UserPlan, error)
}

type ExerciseSearcher interface {
	Search(ctx context.Context, query string) ([]domain.Exercise, error)
}

// requestErrors are echoed back to the client; anything else is logged and hidden.
var requestErrors = []error{
	service.ErrInvalidGoal,
	service.ErrNoMuscleGroups,
	service.ErrUnknownMuscleGroup,
	service.ErrInvalidFrequency,
}

// New creates an MCP server with all tools registered.
func New(plans PlanPreviewer, exercises ExerciseSearcher, version string) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Workout plan generator. Generate monthly plans from a goal, muscle groups and weekly frequency, search the exercise catalog and look up trophy levels."),
	)

	h := &handlers{plans: plans, exercises: exercises}
	s.AddTools(
		server.ServerTool{Tool: toolGeneratePlan, Handler: h.generatePlan},
		server.ServerTool{Tool: toolTrophyForPoints, Handler: h.trophyForPoints},
		server.ServerTool{Tool: toolSearchExercises, Handler: h.searchExercises},
	)
	return s
}

// NewHTTPHandler serves s over the streamable HTTP transport.
func NewHTTPHandler(s *server.MCPServer) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s)
}

type handlers struct {
	plans     PlanPreviewer
	exercises ExerciseSearcher
}

// --- Tool definitions ---

var toolGeneratePlan = mcp.NewTool("generate_plan",
	mcp.WithDescription("Generate a monthly workout plan (3 or 4 sessions of up to 7 exercises) without saving it."),
	mcp.WithString("goal", mcp.Required(), mcp.Description("Training goal"), mcp.Enum("strength", "hypertrophy", "endurance")),
	mcp.WithString("groups", mcp.Required(), mcp.Description("Comma separated muscle groups, e.g. 'Peito,Triceps'")),
	mcp.WithNumber("frequency", mcp.Required(), mcp.Description("Workouts per week; 3.5 or more gives 4 sessions")),
)

var toolTrophyForPoints = mcp.NewTool("trophy_for_points",
	mcp.WithDescription("Trophy level, next trophy and motivational phrase for a points total."),
	mcp.WithNumber("points", mcp.Required(), mcp.Description("Accumulated points")),
)

var toolSearchExercises = mcp.NewTool("search_exercises",
	mcp.WithDescription("Search the exercise catalog by name or primary muscle (case-insensitive). An empty query lists everything."),
	mcp.WithString("query", mcp.Description("Search text")),
)

// --- Handlers ---

func splitGroups(raw string) []string {
	var groups []string
	for _, g := range strings.Split(raw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) generatePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	goal, err := req.RequireString("goal")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	groups, err := req.RequireString("groups")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	frequency, err := req.RequireFloat("frequency")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	plan, err := h.plans.Preview(ctx, domain.Goal(goal), splitGroups(groups), frequency)
	if err != nil {
		for _, target := range requestErrors {
			if errors.Is(err, target) {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}
		logrus.WithError(err).Errorln("mcp generate_plan")
		return mcp.NewToolResultError("plan generation failed"), nil
	}
	return jsonResult(plan)
}

type trophyResult struct {
	Points     int             `json:"points"`
	Trophy     tracker.Trophy  `json:"trophy"`
	NextTrophy *tracker.Trophy `json:"nextTrophy,omitempty"`
	Phrase     string          `json:"phrase"`
}

func (h *handlers) trophyForPoints(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireFloat("points")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	points := int(raw)
	res := trophyResult{
		Points: points,
		Trophy: tracker.TrophyFor(points),
		Phrase: tracker.Phrase(points),
	}
	if next, ok := tracker.NextTrophy(points); ok {
		res.NextTrophy = &next
	}
	return jsonResult(res)
}

func (h *handlers) searchExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	found, err := h.exercises.Search(ctx, req.GetString("query", ""))
	if err != nil {
		logrus.WithError(err).Errorln("mcp search_exercises")
		return mcp.NewToolResultError("search failed"), nil
	}
	if found == nil {
		found = []domain.Exercise{}
	}
	return jsonResult(found)
}
