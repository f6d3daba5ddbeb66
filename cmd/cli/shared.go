package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sakif/scriptlab/internal/engine"
	"github.com/sakif/scriptlab/internal/scripts"
)

// newLogger builds the CLI logger. Logs go to stderr so script output
// on stdout stays pipeable.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newRunner builds the execution engine from the global flags.
func newRunner(logger *slog.Logger) *engine.Runner {
	return engine.NewRunner(engine.Config{Interpreter: flagInterpreter}, logger)
}

// newScriptService builds the workspace catalog over the engine.
func newScriptService(logger *slog.Logger) *scripts.Service {
	return scripts.NewService(flagWorkspace, newRunner(logger), logger)
}

// renderResult writes a result's streams to the terminal and exits the
// process with a code reflecting the outcome: 0 for success, the
// script's own exit code for failures (1 when no real code exists),
// 124 for timeouts.
func renderResult(res engine.ExecutionResult) {
	if res.Stdout != "" {
		fmt.Print(res.Stdout)
	}
	if res.Stderr != "" {
		fmt.Fprint(os.Stderr, res.Stderr)
	}

	switch res.Status {
	case engine.StatusSuccess:
		os.Exit(ExitSuccess)
	case engine.StatusTimedOut:
		os.Exit(ExitTimedOut)
	default:
		if res.ExitCode > 0 {
			os.Exit(res.ExitCode)
		}
		os.Exit(ExitFailure)
	}
}
