package cli

import (
	"fmt"

	"benfit/meustreinos/internal/tracker"
)

type TrophyCmd struct {
	Points int `arg:"" help:"Points total."`
}

func (c *TrophyCmd) Run(ctx *Context) error {
	points := max(c.Points, 0)
	current := tracker.TrophyFor(points)
	fmt.Fprintf(ctx.Out, "%d points: %s\n", points, current.Name)
	if next, ok := tracker.NextTrophy(points); ok {
		fmt.Fprintf(ctx.Out, "Next: %s at %d (%d to go)\n", next.Name, next.Threshold, next.Threshold-points)
	} else {
		fmt.Fprintln(ctx.Out, "Top level reached")
	}
	fmt.Fprintln(ctx.Out, tracker.Phrase(points))
	return nil
}
