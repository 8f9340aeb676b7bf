// Package catalog holds the built-in reference data: exercises, avatars and muscle groups.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"benfit/meustreinos/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var rawCatalog []byte

// Catalog is the decoded reference data.
type Catalog struct {
	Muscles   []string          `yaml:"muscles"`
	Avatars   []domain.Avatar   `yaml:"avatars"`
	Exercises []domain.Exercise `yaml:"exercises"`
}

var (
	builtinOnce sync.Once
	builtin     *Catalog
	builtinErr  error
)

// Builtin returns the embedded catalog. The returned value is shared; use the
// accessor methods, which hand out copies.
func Builtin() (*Catalog, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = Parse(rawCatalog)
	})
	return builtin, builtinErr
}

// MustBuiltin is Builtin for program start-up paths.
func MustBuiltin() *Catalog {
	c, err := Builtin()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Exercises))
	for i := range c.Exercises {
		ex := &c.Exercises[i]
		if ex.ID == "" || ex.Name == "" {
			return nil, fmt.Errorf("exercise #%d: id and name are required", i)
		}
		if seen[ex.ID] {
			return nil, fmt.Errorf("exercise %q: duplicate id", ex.ID)
		}
		seen[ex.ID] = true
		for _, m := range ex.PrimaryMuscles {
			if !slices.Contains(c.Muscles, m) {
				return nil, fmt.Errorf("exercise %q: unknown muscle group %q", ex.ID, m)
			}
		}
		ex.Builtin = true
		ex.Position = i
	}
	if len(c.Avatars) == 0 {
		return nil, fmt.Errorf("catalog has no avatars")
	}
	return &c, nil
}

// ExerciseList returns a copy of the exercises in catalog order.
func (c *Catalog) ExerciseList() []domain.Exercise {
	return slices.Clone(c.Exercises)
}

func (c *Catalog) IsMuscle(name string) bool {
	return slices.Contains(c.Muscles, name)
}

func (c *Catalog) Avatar(id string) (domain.Avatar, bool) {
	for _, a := range c.Avatars {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Avatar{}, false
}

// IsBuiltinExercise reports whether id belongs to the embedded exercise list.
func (c *Catalog) IsBuiltinExercise(id string) bool {
	_, ok := domain.FindExercise(c.Exercises, id)
	return ok
}

// Search filters exercises by a case-insensitive substring of the name or of any
// primary muscle. An empty query matches everything.
func Search(exercises []domain.Exercise, query string) []domain.Exercise {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(exercises)
	}
	var out []domain.Exercise
	for _, ex := range exercises {
		if matches(ex, q) {
			out = append(out, ex)
		}
	}
	return out
}

func matches(ex domain.Exercise, q string) bool {
	if strings.Contains(strings.ToLower(ex.Name), q) {
		return true
	}
	for _, m := range ex.PrimaryMuscles {
		if strings.Contains(strings.ToLower(m), q) {
			return true
		}
	}
	return false
}
