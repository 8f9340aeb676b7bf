// Package tracker holds the progress and points transitions. Every function is total:
// out-of-range input is clamped, never rejected.
package tracker

import (
	"maps"
	"math"

	"benfit/meustreinos/internal/domain"
)

const (
	MinTarget     = 1
	MaxTarget     = 60
	DefaultTarget = 30

	// SessionAward is the number of points granted per finished session.
	SessionAward = 50
)

// Trophy is a level unlocked at a points threshold.
type Trophy struct {
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
}

// Beginner is the level shown below the first trophy.
var Beginner = Trophy{Name: "Iniciante", Threshold: 0}

// trophies is ascending by threshold.
var trophies = []Trophy{
	{Name: "Bronze", Threshold: 100},
	{Name: "Prata", Threshold: 300},
	{Name: "Ouro", Threshold: 600},
	{Name: "Diamante", Threshold: 1000},
}

var phrases = []string{
	"Otimo ritmo! Cada repeticao conta.",
	"Consistencia vence motivacao.",
	"Respira, foca e vai!",
	"Hoje melhor que ontem, amanha melhor que hoje.",
}

// DefaultProgress is the progress of a month nobody touched yet.
func DefaultProgress() domain.Progress {
	return domain.Progress{Target: DefaultTarget, Done: 0}
}

// Normalize clamps a stored progress back into its invariants.
func Normalize(p domain.Progress) domain.Progress {
	p.Target = clamp(p.Target, MinTarget, MaxTarget)
	p.Done = clamp(p.Done, 0, p.Target)
	return p
}

// SetTarget clamps target to [1,60] and pulls done down to the new target if needed.
func SetTarget(p domain.Progress, target int) domain.Progress {
	p.Target = clamp(target, MinTarget, MaxTarget)
	p.Done = clamp(p.Done, 0, p.Target)
	return p
}

// FinishSession records one completed session: done grows up to the target and points
// always grow by SessionAward. Calling it twice records two sessions.
func FinishSession(p domain.Progress, points int) (domain.Progress, int) {
	p = Normalize(p)
	p.Done = min(p.Done+1, p.Target)
	return p, max(points, 0) + SessionAward
}

// ToggleMark returns a copy of marks with the flag at index flipped.
// index is not bound-checked.
func ToggleMark(marks domain.Marks, index int) domain.Marks {
	out := make(domain.Marks, len(marks)+1)
	maps.Copy(out, marks)
	out[index] = !out[index]
	return out
}

// AllDone reports whether every item of a session with itemCount items is marked.
// A session without items is never done.
func AllDone(marks domain.Marks, itemCount int) bool {
	if itemCount <= 0 {
		return false
	}
	for i := 0; i < itemCount; i++ {
		if !marks[i] {
			return false
		}
	}
	return true
}

// TrophyFor returns the highest trophy reached with points, or Beginner.
func TrophyFor(points int) Trophy {
	current := Beginner
	for _, t := range trophies {
		if points >= t.Threshold {
			current = t
		}
	}
	return current
}

// NextTrophy returns the first trophy not yet reached. ok is false past the last one.
func NextTrophy(points int) (next Trophy, ok bool) {
	for _, t := range trophies {
		if points < t.Threshold {
			return t, true
		}
	}
	return Trophy{}, false
}

// Trophies lists every level in ascending order, Beginner first.
func Trophies() []Trophy {
	return append([]Trophy{Beginner}, trophies...)
}

// Phrase picks the motivational line shown next to the points total.
func Phrase(points int) string {
	i := points % len(phrases)
	if i < 0 {
		i += len(phrases)
	}
	return phrases[i]
}

// Percent is the share of the monthly target already done, 0..100.
func Percent(p domain.Progress) int {
	p = Normalize(p)
	return int(math.Round(float64(p.Done) * 100 / float64(p.Target)))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
