package main

import (
	"fmt"
	"os"

	"benfit/meustreinos/internal/catalog"
	"benfit/meustreinos/internal/cli"

	"github.com/alecthomas/kong"
)

var version = "dev"

var CLI struct {
	Version kong.VersionFlag
	cli.App `embed:""`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("planctl"),
		kong.Description("Generate workout plans and look up trophies from the built-in catalog."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	err := ctx.Run(&cli.Context{
		Catalog: catalog.MustBuiltin(),
		Out:     os.Stdout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
