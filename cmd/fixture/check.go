package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/quasarbright/simple-interpreter-js/pkg/interpreter"
)

type checkConfig struct {
	*cli.Command
	Root    string `cli:"name=root desc='directory searched for fixtures (default fixtures/exec)'"`
	Config  string `cli:"name=config desc='evaluator config file (yaml)'"`
	Verbose bool   `cli:"name=v desc='log evaluator calls to stderr'"`
}

// CheckCommand returns the check subcommand.
func CheckCommand() *cli.Command {
	cfg := &checkConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "check").
		WithAliases("c").
		WithSynopsis("check [-root dir] [-config file]").
		WithDescription("replay every fixture under root and report mismatches").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *checkConfig) run(cc *cli.Context, args []string) error {
	if _, err := cfg.Parse(cc, args); err != nil {
		return err
	}
	root := cfg.Root
	if root == "" {
		root = filepath.Join("fixtures", "exec")
	}
	opts, err := interpreterOptions(cfg.Config, cfg.Verbose, os.Stderr)
	if err != nil {
		return err
	}
	dirs, err := interpreter.CollectFixtureDirs(root)
	if err != nil {
		return err
	}
	useColor(cc.Out)

	failed := 0
	for _, dir := range dirs {
		name, err := filepath.Rel(root, dir)
		if err != nil {
			name = dir
		}
		manifest, outcome, err := interpreter.RunFixture(context.Background(), dir, opts...)
		if err != nil {
			failed++
			fmt.Fprintf(cc.Out, "%s %s: %v\n", color.RedString("FAIL"), name, err)
			continue
		}
		issues := interpreter.CompareFixtureOutcome(manifest.Expect, outcome)
		if len(issues) == 0 {
			fmt.Fprintf(cc.Out, "%s %s\n", color.GreenString("PASS"), name)
		} else {
			failed++
			fmt.Fprintf(cc.Out, "%s %s\n", color.RedString("FAIL"), name)
			for _, issue := range issues {
				fmt.Fprintf(cc.Out, "    %s\n", issue)
			}
		}
		if len(outcome.Uncovered) > 0 {
			fmt.Fprintf(cc.Out, "    %s unbound free names: %s\n", color.YellowString("note"), strings.Join(outcome.Uncovered, ", "))
		}
	}
	fmt.Fprintf(cc.Out, "%d fixtures, %d failed\n", len(dirs), failed)
	if failed > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}
