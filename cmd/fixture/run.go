package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/quasarbright/simple-interpreter-js/pkg/interpreter"
)

type runConfig struct {
	*cli.Command
	Dir     string `cli:"name=dir desc='fixture directory holding manifest.yaml'"`
	Config  string `cli:"name=config desc='evaluator config file (yaml)'"`
	JSON    bool   `cli:"name=json desc='print the outcome as json'"`
	Verbose bool   `cli:"name=v desc='log evaluator calls to stderr'"`
}

// RunCommand returns the run subcommand.
func RunCommand() *cli.Command {
	cfg := &runConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "run").
		WithSynopsis("run -dir <fixture> [-config file] [-json]").
		WithDescription("evaluate one fixture and print its outcome").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *runConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	dir := cfg.Dir
	if dir == "" && len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		return fmt.Errorf("%w: run requires -dir", cli.ErrUsage)
	}
	opts, err := interpreterOptions(cfg.Config, cfg.Verbose, os.Stderr)
	if err != nil {
		return err
	}
	_, outcome, err := interpreter.RunFixture(context.Background(), dir, opts...)
	if err != nil {
		return err
	}
	if cfg.JSON {
		enc := json.NewEncoder(cc.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}
	if outcome.Result != nil {
		fmt.Fprintf(cc.Out, "%s %s\n", outcome.Result.Kind, outcome.Result.Value)
		return nil
	}
	fmt.Fprintln(cc.Out, outcome.Diagnostic)
	return cli.ExitCodeErr(1)
}
