package engine

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"syscall"
	"time"
)

// Config holds the runner's injected dependencies on the host.
//
// The interpreter is an explicit configuration value rather than an
// assumed "whatever python is on PATH". Tests substitute /bin/sh so
// they run anywhere, and deployments can pin a versioned binary.
type Config struct {
	// Interpreter is the executable that runs the staged script,
	// e.g. "python3" or "/usr/local/bin/python3.12".
	Interpreter string
	// DefaultTimeout applies when a request has no TimeoutSeconds.
	DefaultTimeout time.Duration
	// StagingDir is where inline sources are staged. Empty means the
	// OS temp directory. Tests point this at a private directory so
	// they can verify artifacts are cleaned up.
	StagingDir string
}

// DefaultConfig returns the production configuration: python3 with a
// 30-second budget, staging in the OS temp directory.
func DefaultConfig() Config {
	return Config{
		Interpreter:    "python3",
		DefaultTimeout: DefaultTimeout,
	}
}

// Runner owns the lifecycle of child-process runs: staging, launch,
// the wait-versus-deadline race, forced termination, and cleanup.
//
// A Runner holds no per-run state, so one instance may serve any
// number of concurrent Execute calls without locking. The only shared
// resource, the staging directory, relies on the OS's atomic unique
// temp-name allocation, not application-level coordination.
type Runner struct {
	config Config
	logger *slog.Logger
}

var _ Executor = (*Runner)(nil)

// NewRunner creates a Runner. Zero-valued config fields fall back to
// DefaultConfig values.
func NewRunner(cfg Config, logger *slog.Logger) *Runner {
	if cfg.Interpreter == "" {
		cfg.Interpreter = "python3"
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = DefaultTimeout
	}
	return &Runner{config: cfg, logger: logger}
}

// Execute runs one script to completion or forced termination.
//
// THE RACE:
// After launch, the runner waits on two channels at once: the child's
// exit and a deadline timer. Whichever fires first decides the outcome:
//
//   - exit observed first  → classify the real exit code
//   - deadline fires first → SIGKILL the whole process group, reap the
//     child, report timed_out
//
// Tie-break: once the kill has been issued the outcome is always
// timed_out, even if the process happens to die at the same instant.
// A murdered process never masquerades as a success.
//
// All failure modes are returned as values; see the package comment.
func (r *Runner) Execute(ctx context.Context, req ExecutionRequest) ExecutionResult {
	start := time.Now()

	seconds := req.TimeoutSeconds
	if seconds <= 0 {
		seconds = int(r.config.DefaultTimeout / time.Second)
	}
	timeout := time.Duration(seconds) * time.Second

	// Stage the source. For inline text this creates the temporary
	// artifact; cleanup removes it exactly once on every exit path
	// below (success, failure, timeout) before Execute returns.
	scriptPath, cleanup, err := r.stage(req)
	if err != nil {
		return finish(launchFailure(err), start)
	}
	defer cleanup()

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(r.config.Interpreter, scriptPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// No stdin: a script that blocks on input just burns its budget.
	cmd.Stdin = nil
	// The child gets its own process group so a timeout kill also
	// reaps anything the script spawned.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		// Interpreter missing, permission denied, etc. Reported
		// immediately; no point arming the deadline.
		r.logger.Warn("script failed to launch",
			slog.String("label", req.Label),
			slog.String("interpreter", r.config.Interpreter),
			slog.String("error", err.Error()),
		)
		return finish(launchFailure(err), start)
	}

	r.logger.Debug("script started",
		slog.String("label", req.Label),
		slog.String("path", scriptPath),
		slog.Int("pid", cmd.Process.Pid),
		slog.Duration("timeout", timeout),
	)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case waitErr := <-done:
		res := classifyExit(waitErr, stdout.String(), stderr.String())
		r.logger.Debug("script finished",
			slog.String("label", req.Label),
			slog.String("status", string(res.Status)),
			slog.Int("exitCode", res.ExitCode),
		)
		return finish(res, start)

	case <-timer.C:
		// Deadline elapsed: kill the group, then reap the child so no
		// orphan survives the call. From this point the outcome is
		// timed_out regardless of how the process dies.
		r.killGroup(cmd)
		<-done
		r.logger.Warn("script timed out",
			slog.String("label", req.Label),
			slog.Int("timeoutSeconds", seconds),
		)
		return finish(timedOut(seconds), start)

	case <-ctx.Done():
		// The caller went away (e.g. the HTTP request was aborted).
		// Same reap discipline as a timeout, classified as a failure.
		r.killGroup(cmd)
		<-done
		r.logger.Warn("script canceled",
			slog.String("label", req.Label),
			slog.String("error", ctx.Err().Error()),
		)
		return finish(launchFailure(ctx.Err()), start)
	}
}

// killGroup force-terminates the child's entire process group.
// Falls back to killing the single process if the group signal fails
// (the child may already have died and dissolved the group).
func (r *Runner) killGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	// A negative pid addresses the whole process group.
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		_ = cmd.Process.Kill()
	}
}

func finish(res ExecutionResult, start time.Time) ExecutionResult {
	res.Duration = time.Since(start)
	return res
}
