package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// stage materializes the request's source into a path the interpreter
// can execute, and returns the cleanup responsible for any artifact it
// created.
//
// Inline text is written verbatim (UTF-8, no transformation) to a
// uniquely named file in the staging directory. Uniqueness comes from
// os.CreateTemp's atomic name allocation, so concurrent runs can never
// collide; the caller-supplied Label deliberately plays no part in
// the filename.
//
// A file source is only checked for existence; the engine takes no
// ownership and the returned cleanup is a no-op.
func (r *Runner) stage(req ExecutionRequest) (string, func(), error) {
	noop := func() {}

	if req.Source.fromFile {
		info, err := os.Stat(req.Source.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", noop, fmt.Errorf("script file not found: %s", req.Source.path)
			}
			return "", noop, fmt.Errorf("reading script file %s: %w", req.Source.path, err)
		}
		if info.IsDir() {
			return "", noop, fmt.Errorf("script path is a directory: %s", req.Source.path)
		}
		return req.Source.path, noop, nil
	}

	f, err := os.CreateTemp(r.config.StagingDir, "scriptlab-*.py")
	if err != nil {
		return "", noop, fmt.Errorf("staging script: %w", err)
	}
	path := f.Name()

	if _, err := f.WriteString(req.Source.inline); err != nil {
		f.Close()
		os.Remove(path)
		return "", noop, fmt.Errorf("staging script: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", noop, fmt.Errorf("staging script: %w", err)
	}

	cleanup := func() {
		if err := os.Remove(path); err != nil {
			// Best effort only: a janitorial failure must never mask
			// the run's real result, so it is logged and swallowed.
			r.logger.Warn("failed to remove staged script",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		}
	}
	return path, cleanup, nil
}
