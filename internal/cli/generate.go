package cli

import (
	"encoding/json"
	"fmt"

	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/planner"
)

type GenerateCmd struct {
	Goal      string   `help:"Training goal." enum:"strength,hypertrophy,endurance" default:"hypertrophy"`
	Group     []string `help:"Muscle group to train. Repeat for several." short:"g" required:""`
	Frequency float64  `help:"Workouts per week." short:"f" default:"3"`
	JSON      bool     `help:"Print the plan as JSON."`
}

func (c *GenerateCmd) Run(ctx *Context) error {
	for _, group := range c.Group {
		if !ctx.Catalog.IsMuscle(group) {
			return fmt.Errorf("unknown muscle group %q (known: %s)", group, muscleList(ctx.Catalog.Muscles))
		}
	}

	exercises := ctx.Catalog.ExerciseList()
	plan := ctx.Generator.Generate(domain.Goal(c.Goal), c.Group, c.Frequency, exercises)

	if c.JSON {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}

	schema := planner.SchemaFor(plan.Goal)
	fmt.Fprintf(ctx.Out, "Plan %s (%s): %d sessions, %d sets x %s reps, rest %s\n",
		plan.Month, plan.Goal, len(plan.Sessions), schema.Sets, schema.Reps, schema.Rest)
	for _, session := range plan.Sessions {
		fmt.Fprintf(ctx.Out, "\n%s\n", session.Name)
		if len(session.Items) == 0 {
			fmt.Fprintln(ctx.Out, "  (no exercises for these groups)")
			continue
		}
		for i, item := range session.Items {
			name := item.ExerciseID
			if ex, ok := domain.FindExercise(exercises, item.ExerciseID); ok {
				name = ex.Name
			}
			fmt.Fprintf(ctx.Out, "  %d. %s  %dx%s\n", i+1, name, item.Sets, item.Reps)
		}
	}
	return nil
}
