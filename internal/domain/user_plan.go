// internal/domain/user_plan.go
package domain

import "time"

// Goal is the training objective that drives the sets/reps/rest prescription.
type Goal string

const (
	GoalStrength    Goal = "strength"
	GoalHypertrophy Goal = "hypertrophy"
	GoalEndurance   Goal = "endurance"
)

// Goals lists the goals in display order.
var Goals = []Goal{GoalStrength, GoalHypertrophy, GoalEndurance}

func (g Goal) Valid() bool {
	switch g {
	case GoalStrength, GoalHypertrophy, GoalEndurance:
		return true
	}
	return false
}

// Label is the user facing name of the goal.
func (g Goal) Label() string {
	switch g {
	case GoalStrength:
		return "Forca"
	case GoalHypertrophy:
		return "Hipertrofia"
	default:
		return "Resistencia"
	}
}

// SessionExercise is one prescribed exercise inside a session.
// Only ExerciseID changes after creation (exercise swap).
type SessionExercise struct {
	ExerciseID string `bson:"exerciseId" json:"exerciseId"`
	Sets       int    `bson:"sets" json:"sets"`
	Reps       string `bson:"reps" json:"reps"` // e.g. "8-12"
	Rest       string `bson:"rest" json:"rest"` // e.g. "60-90s"
	Tips       string `bson:"tips,omitempty" json:"tips,omitempty"`
}

// SessionPlan is a named workout ("Treino A".."Treino D").
type SessionPlan struct {
	ID    string            `bson:"id" json:"id"`
	Name  string            `bson:"name" json:"name"`
	Items []SessionExercise `bson:"items" json:"items"`
}

// UserPlan is the monthly set of sessions of one user. A user has at most one plan;
// saving a new one replaces the previous.
type UserPlan struct {
	ID        string        `bson:"id" json:"id"`
	UserID    string        `bson:"userId" json:"userId"`
	Goal      Goal          `bson:"goal" json:"goal"`
	Groups    []string      `bson:"groups" json:"groups"`
	Frequency float64       `bson:"frequency" json:"frequency"`
	Sessions  []SessionPlan `bson:"sessions" json:"sessions"`
	Month     string        `bson:"month" json:"month"` // YYYY-MM

	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Session returns the session with the given id.
func (p *UserPlan) Session(id string) (*SessionPlan, bool) {
	for i := range p.Sessions {
		if p.Sessions[i].ID == id {
			return &p.Sessions[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy so callers can modify items without touching the original.
func (p UserPlan) Clone() UserPlan {
	out := p
	out.Groups = append([]string(nil), p.Groups...)
	out.Sessions = make([]SessionPlan, len(p.Sessions))
	for i, s := range p.Sessions {
		s.Items = append([]SessionExercise(nil), s.Items...)
		out.Sessions[i] = s
	}
	return out
}
