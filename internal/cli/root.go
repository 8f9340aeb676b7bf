// Package cli holds the planctl commands. They work offline on the embedded catalog.
package cli

import (
	"io"
	"strings"

	"benfit/meustreinos/internal/catalog"
	"benfit/meustreinos/internal/planner"
)

type Context struct {
	Catalog   *catalog.Catalog
	Generator planner.Generator
	Out       io.Writer
}

// App is the planctl command tree.
type App struct {
	Generate  GenerateCmd  `cmd:"" help:"Generate a monthly workout plan."`
	Trophy    TrophyCmd    `cmd:"" help:"Show the trophy level for a points total."`
	Exercises ExercisesCmd `cmd:"" help:"List or search the built-in exercises."`
}

func muscleList(muscles []string) string {
	return strings.Join(muscles, ", ")
}
