package engine

import (
	"errors"
	"fmt"
	"os/exec"
)

// This file is the result classifier: total, side-effect-free mappings
// from a raw process outcome to an ExecutionResult. It owns the three
// canonical error message templates; callers render them as they wish
// but never synthesize their own.

// classifyExit maps a completed cmd.Wait outcome to a result.
// Exit code 0 is the sole success indicator; any other code, including
// the -1 reported for a signaled process, is a failure.
func classifyExit(waitErr error, stdout, stderr string) ExecutionResult {
	if waitErr == nil {
		return ExecutionResult{
			Status:   StatusSuccess,
			Stdout:   stdout,
			Stderr:   stderr,
			ExitCode: 0,
		}
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		code := exitErr.ExitCode()
		return ExecutionResult{
			Status:       StatusFailure,
			Stdout:       stdout,
			Stderr:       stderr,
			ExitCode:     code,
			ErrorMessage: fmt.Sprintf("Script exited with code %d", code),
		}
	}

	// Wait failed for a reason other than the process exiting non-zero
	// (an I/O error copying output, for example). No usable exit code
	// exists, so fold it into a launch-style failure but keep whatever
	// output was captured before things went wrong.
	res := launchFailure(waitErr)
	res.Stdout = stdout
	if stderr != "" {
		res.Stderr = stderr
	}
	return res
}

// launchFailure covers everything that prevented a real exit code from
// existing: staging I/O errors, a missing script file, a missing
// interpreter, permission problems.
func launchFailure(err error) ExecutionResult {
	return ExecutionResult{
		Status:       StatusFailure,
		Stdout:       "",
		Stderr:       err.Error(),
		ExitCode:     SentinelExitCode,
		ErrorMessage: "Failed to execute script: " + err.Error(),
	}
}

// timedOut builds the result for a run killed at its deadline. Stdout
// is empty (the process was killed before flushing is guaranteed) and
// stderr carries the same message for caller convenience.
func timedOut(seconds int) ExecutionResult {
	msg := fmt.Sprintf("Script execution timed out after %d seconds", seconds)
	return ExecutionResult{
		Status:       StatusTimedOut,
		Stdout:       "",
		Stderr:       msg,
		ExitCode:     SentinelExitCode,
		ErrorMessage: msg,
	}
}
