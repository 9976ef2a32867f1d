package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/quasarbright/simple-interpreter-js/pkg/driver"
	"github.com/quasarbright/simple-interpreter-js/pkg/interpreter"
)

// interpreterOptions loads the optional config file, whose limits and globals
// apply to every fixture, and routes evaluator logs to stderr. verbose forces
// debug level.
func interpreterOptions(configPath string, verbose bool, stderr io.Writer) ([]interpreter.Option, error) {
	cfg := driver.DefaultConfig()
	if configPath != "" {
		loaded, err := driver.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	level := cfg.LogLevel
	if verbose {
		level = slog.LevelDebug
	}
	return []interpreter.Option{
		interpreter.WithConfig(cfg),
		interpreter.WithLogger(driver.NewLogger(stderr, level)),
	}, nil
}

// useColor enables colored output only when w is a terminal.
func useColor(w io.Writer) {
	f, ok := w.(*os.File)
	color.NoColor = !ok || !isatty.IsTerminal(f.Fd())
}
