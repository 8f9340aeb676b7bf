package cli

import (
	"fmt"

	"benfit/meustreinos/internal/catalog"
)

type ExercisesCmd struct {
	Query string `help:"Filter by name or muscle group." short:"q"`
}

func (c *ExercisesCmd) Run(ctx *Context) error {
	found := catalog.Search(ctx.Catalog.ExerciseList(), c.Query)
	if len(found) == 0 {
		fmt.Fprintln(ctx.Out, "No exercises found")
		return nil
	}
	for _, ex := range found {
		fmt.Fprintf(ctx.Out, "%-24s %s [%s]\n", ex.ID, ex.Name, muscleList(ex.PrimaryMuscles))
	}
	return nil
}
