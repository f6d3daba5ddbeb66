// Package engine runs scripts as isolated child processes.
//
// The engine is a one-shot "run to completion or kill" primitive:
// a caller hands it inline source text or a path to an existing script,
// the engine stages it, runs it under a wall-clock deadline, captures
// both output streams in full, and returns a single structured result.
//
// THE NON-THROWING BOUNDARY:
// Execute never returns an error. Every failure mode (a script that
// exits non-zero, a missing interpreter, a missing file, a timeout)
// is folded into the ExecutionResult so callers (HTTP handlers, the
// CLI) can inspect one value and render it however they like. Nothing
// escapes as a Go error, and no child process survives the call.
package engine

import (
	"context"
	"log/slog"
	"time"
)

// DefaultTimeout is the wall-clock limit applied when a request does
// not override TimeoutSeconds.
const DefaultTimeout = 30 * time.Second

// SentinelExitCode marks results for which no real exit code exists:
// the process never started, or it was killed before exiting on its own.
const SentinelExitCode = -1

// Status discriminates the three possible outcomes of a run.
// Exactly one status holds for any result: a result is never both
// a success and a failure, and once a timeout kill has been issued
// the status is always StatusTimedOut.
type Status string

const (
	// StatusSuccess: the process ran to completion and exited 0.
	StatusSuccess Status = "success"
	// StatusFailure: the process exited non-zero, or could not be
	// staged/launched at all (sentinel exit code in that case).
	StatusFailure Status = "failure"
	// StatusTimedOut: the deadline elapsed and the process was killed.
	StatusTimedOut Status = "timed_out"
)

// Source identifies what to execute: inline text that the engine will
// stage into a temporary file, or an existing file on disk. The two
// variants are mutually exclusive; use the Inline and File constructors.
type Source struct {
	inline   string
	path     string
	fromFile bool
}

// Inline returns a Source holding raw script text. The engine writes it
// verbatim to a uniquely named temporary file before launch and removes
// that file on every exit path.
func Inline(code string) Source {
	return Source{inline: code}
}

// File returns a Source referring to an existing script file. The engine
// never takes ownership of the file; it is neither copied nor deleted.
func File(path string) Source {
	return Source{path: path, fromFile: true}
}

// ExecutionRequest describes one run.
type ExecutionRequest struct {
	// Source is the script to run: inline text or an existing file.
	Source Source
	// TimeoutSeconds is the wall-clock budget. Zero or negative means
	// the runner's default (30s).
	TimeoutSeconds int
	// Label is an optional display name used in log lines only.
	// It never affects behaviour.
	Label string
}

// ExecutionResult is the discriminated outcome of a run.
//
// Stdout and Stderr are always present (possibly empty), never null,
// so callers can concatenate and display them unconditionally.
type ExecutionResult struct {
	Status       Status        `json:"status"`
	Stdout       string        `json:"stdout"`
	Stderr       string        `json:"stderr"`
	ExitCode     int           `json:"exitCode"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// Executor is the single operation the engine exposes to its callers.
// Handlers and the CLI depend on this interface, not on *Runner, so
// tests can substitute a mock.
type Executor interface {
	Execute(ctx context.Context, req ExecutionRequest) ExecutionResult
}

// Run executes req with a Runner built from DefaultConfig.
//
// This is the stateless convenience wrapper over the one real
// implementation; there is no second code path behind it.
func Run(ctx context.Context, req ExecutionRequest) ExecutionResult {
	return NewRunner(DefaultConfig(), slog.Default()).Execute(ctx, req)
}
