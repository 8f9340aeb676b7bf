// internal/domain/exercise.go
package domain

import (
	"slices"
	"time"
)

// Exercise is one entry of the exercise catalog.
// Image references are either absolute URLs or object storage keys.
type Exercise struct {
	ID             string                 `bson:"_id" json:"id" yaml:"id"` // slug, e.g. "supino_reto"
	Name           string                 `bson:"name" json:"name" yaml:"name"`
	PrimaryMuscles []string               `bson:"primaryMuscles" json:"primaryMuscles" yaml:"primaryMuscles"` // ordered
	MachineImage   string                 `bson:"machineImage,omitempty" json:"machineImage,omitempty" yaml:"machineImage,omitempty"`
	FreeWeight     *FreeWeightAlternative `bson:"freeWeight,omitempty" json:"freeWeight,omitempty" yaml:"freeWeight,omitempty"`
	Tips           string                 `bson:"tips,omitempty" json:"tips,omitempty" yaml:"tips,omitempty"`

	// Builtin entries come from the embedded catalog and cannot be deleted.
	// Position keeps their catalog order in storage.
	Builtin  bool `bson:"builtin" json:"builtin" yaml:"-"`
	Position int  `bson:"position" json:"-" yaml:"-"`

	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty" yaml:"-"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty" yaml:"-"`
}

// FreeWeightAlternative is the free-weight variant shown next to a machine exercise.
type FreeWeightAlternative struct {
	Name  string `bson:"name,omitempty" json:"name,omitempty" yaml:"name,omitempty"`
	Image string `bson:"image,omitempty" json:"image,omitempty" yaml:"image,omitempty"`
}

// Works reports whether the exercise has muscle among its primary muscles.
func (e *Exercise) Works(muscle string) bool {
	return slices.Contains(e.PrimaryMuscles, muscle)
}

// SharesMuscleWith reports whether both exercises train at least one common muscle group.
func (e *Exercise) SharesMuscleWith(other *Exercise) bool {
	for _, m := range other.PrimaryMuscles {
		if e.Works(m) {
			return true
		}
	}
	return false
}

// DisplayImage picks the machine image, then the free-weight one.
func (e *Exercise) DisplayImage() string {
	if e.MachineImage != "" {
		return e.MachineImage
	}
	if e.FreeWeight != nil {
		return e.FreeWeight.Image
	}
	return ""
}

// FindExercise looks an exercise up by id in a catalog slice.
func FindExercise(catalog []Exercise, id string) (*Exercise, bool) {
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i], true
		}
	}
	return nil, false
}
