// Command fixture replays exec fixtures: expression trees stored as JSON or
// YAML next to a manifest.yaml describing the expected outcome.
package main

import (
	"context"

	"github.com/scott-cotton/cli"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

func MainCommand() *cli.Command {
	return cli.NewCommand("fixture").
		WithSynopsis("fixture command [opts]").
		WithDescription("fixture evaluates expression fixtures and compares them with their manifests.").
		WithSubs(
			RunCommand(),
			CheckCommand(),
		)
}
