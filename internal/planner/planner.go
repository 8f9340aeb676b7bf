// Package planner builds monthly workout plans from the exercise catalog.
//
// Generation is deterministic for a given catalog order and input, except for the
// freshly generated plan and session ids.
package planner

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"time"

	"benfit/meustreinos/internal/domain"

	"github.com/google/uuid"
)

const (
	MinSessions     = 3
	MaxSessions     = 4
	MinItems        = 5
	MaxItems        = 7
	PicksPerGroup   = 2
	DefaultRestSecs = 60
)

var sessionNames = [MaxSessions]string{"Treino A", "Treino B", "Treino C", "Treino D"}

var (
	ErrSessionNotFound = errors.New("session not found in plan")
	ErrItemOutOfRange  = errors.New("item index out of range")
)

// Schema is the sets/reps/rest prescription applied to every item of a plan.
type Schema struct {
	Sets int    `json:"sets"`
	Reps string `json:"reps"`
	Rest string `json:"rest"`
}

// SchemaFor returns the prescription for a goal. Unknown goals get the endurance row.
func SchemaFor(goal domain.Goal) Schema {
	switch goal {
	case domain.GoalStrength:
		return Schema{Sets: 4, Reps: "4-6", Rest: "120-180s"}
	case domain.GoalHypertrophy:
		return Schema{Sets: 4, Reps: "8-12", Rest: "60-90s"}
	default:
		return Schema{Sets: 3, Reps: "12-20", Rest: "45-60s"}
	}
}

// SessionCount maps a weekly frequency to the number of sessions in the plan.
// The result is always 3 or 4, however far frequency is from that range.
func SessionCount(frequency float64) int {
	n := math.Round(frequency)
	if math.IsNaN(n) || n < MinSessions {
		return MinSessions
	}
	if n > MaxSessions {
		return MaxSessions
	}
	return int(n)
}

// Generator creates plans. Zero values fall back to time.Now and uuid.NewString.
type Generator struct {
	Now   func() time.Time
	NewID func() string
}

// Generate builds a plan with the default clock and id source.
func Generate(goal domain.Goal, groups []string, frequency float64, catalog []domain.Exercise) domain.UserPlan {
	return Generator{}.Generate(goal, groups, frequency, catalog)
}

// Generate builds a plan for the given goal, muscle groups and weekly frequency.
//
// For session i and every group, two exercises are picked round-robin from the group's
// pool (catalog entries training that group): pool[(i+k) % len(pool)] for k in {0,1}.
// Small pools repeat exercises; empty pools contribute nothing. Each session keeps at most
// 7 items. UserID is left blank for the caller to attach.
func (g Generator) Generate(goal domain.Goal, groups []string, frequency float64, catalog []domain.Exercise) domain.UserPlan {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	newID := uuid.NewString
	if g.NewID != nil {
		newID = g.NewID
	}

	schema := SchemaFor(goal)
	pools := make(map[string][]domain.Exercise, len(groups))
	for _, group := range groups {
		pools[group] = poolFor(catalog, group)
	}

	count := SessionCount(frequency)
	sessions := make([]domain.SessionPlan, 0, count)
	for i := 0; i < count; i++ {
		var items []domain.SessionExercise
		for _, group := range groups {
			pool := pools[group]
			if len(pool) == 0 {
				continue
			}
			for k := 0; k < PicksPerGroup; k++ {
				ex := pool[(i+k)%len(pool)]
				items = append(items, domain.SessionExercise{
					ExerciseID: ex.ID,
					Sets:       schema.Sets,
					Reps:       schema.Reps,
					Rest:       schema.Rest,
					Tips:       ex.Tips,
				})
			}
		}
		// Sessions longer than MaxItems are cut; short ones (sparse catalog) stay short.
		if len(items) > MaxItems {
			items = items[:MaxItems]
		}
		if items == nil {
			items = []domain.SessionExercise{}
		}
		sessions = append(sessions, domain.SessionPlan{
			ID:    newID(),
			Name:  sessionNames[i],
			Items: items,
		})
	}

	return domain.UserPlan{
		ID:        newID(),
		Goal:      goal,
		Groups:    append([]string(nil), groups...),
		Frequency: frequency,
		Sessions:  sessions,
		Month:     domain.MonthOf(now()),
	}
}

func poolFor(catalog []domain.Exercise, group string) []domain.Exercise {
	var pool []domain.Exercise
	for i := range catalog {
		if catalog[i].Works(group) {
			pool = append(pool, catalog[i])
		}
	}
	return pool
}

// ReplacementPool lists the catalog entries that can replace exerciseID: every other
// exercise sharing at least one primary muscle with it.
func ReplacementPool(catalog []domain.Exercise, exerciseID string) []domain.Exercise {
	current, ok := domain.FindExercise(catalog, exerciseID)
	if !ok {
		return nil
	}
	var pool []domain.Exercise
	for i := range catalog {
		if catalog[i].ID != current.ID && catalog[i].SharesMuscleWith(current) {
			pool = append(pool, catalog[i])
		}
	}
	return pool
}

// Swap returns a copy of plan where the item at index of the given session references
// newExerciseID. The prescription (sets, reps, rest, tips) is kept.
func Swap(plan domain.UserPlan, sessionID string, index int, newExerciseID string) (domain.UserPlan, error) {
	out := plan.Clone()
	session, ok := out.Session(sessionID)
	if !ok {
		return plan, ErrSessionNotFound
	}
	if index < 0 || index >= len(session.Items) {
		return plan, ErrItemOutOfRange
	}
	session.Items[index].ExerciseID = newExerciseID
	return out, nil
}

var restPattern = regexp.MustCompile(`^(\d+)-(\d+)s$`)

// RestSeconds is the suggested rest timer start for a rest range like "60-90s":
// the lower bound, or 60 when the string does not have that shape.
func RestSeconds(rest string) int {
	m := restPattern.FindStringSubmatch(rest)
	if m == nil {
		return DefaultRestSecs
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultRestSecs
	}
	return n
}

// GroupCounts counts, over all plan items, how often each muscle group is trained.
// Items referencing exercises missing from the catalog are skipped.
func GroupCounts(plan domain.UserPlan, catalog []domain.Exercise) map[string]int {
	counts := make(map[string]int)
	for _, s := range plan.Sessions {
		for _, it := range s.Items {
			ex, ok := domain.FindExercise(catalog, it.ExerciseID)
			if !ok {
				continue
			}
			for _, m := range ex.PrimaryMuscles {
				counts[m]++
			}
		}
	}
	return counts
}
