package engine_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/scriptlab/internal/engine"
)

// The runner tests use /bin/sh as the injected interpreter so they run
// on any Unix box without a Python installation. The engine itself is
// interpreter-agnostic: it just hands the staged file to whatever
// binary the config names.

func newTestRunner(t *testing.T) (*engine.Runner, string) {
	t.Helper()

	stagingDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	r := engine.NewRunner(engine.Config{
		Interpreter:    "/bin/sh",
		DefaultTimeout: 10 * time.Second,
		StagingDir:     stagingDir,
	}, logger)

	return r, stagingDir
}

// assertStagingEmpty verifies that no staged artifact survived the call,
// the core cleanup invariant, checked on every outcome path.
func assertStagingEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staging directory should be empty after Execute returns")
}

func TestRunner_Success(t *testing.T) {
	r, stagingDir := newTestRunner(t)

	res := r.Execute(context.Background(), engine.ExecutionRequest{
		Source: engine.Inline(`echo "Hello, World!"`),
	})

	assert.Equal(t, engine.StatusSuccess, res.Status)
	assert.Equal(t, "Hello, World!\n", res.Stdout)
	assert.Equal(t, "", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
	assert.Empty(t, res.ErrorMessage)
	assert.Greater(t, res.Duration, time.Duration(0))
	assertStagingEmpty(t, stagingDir)
}

func TestRunner_CapturesBothStreamsVerbatim(t *testing.T) {
	r, _ := newTestRunner(t)

	res := r.Execute(context.Background(), engine.ExecutionRequest{
		Source: engine.Inline("printf 'out line 🎉'\nprintf 'err line ©' >&2\n"),
	})

	assert.Equal(t, engine.StatusSuccess, res.Status)
	assert.Equal(t, "out line 🎉", res.Stdout)
	assert.Equal(t, "err line ©", res.Stderr)
}

func TestRunner_LargeOutputNotTruncated(t *testing.T) {
	r, _ := newTestRunner(t)

	// 1 MB of 'a' on stdout. The engine captures output in full by
	// design: no cap, no truncation.
	res := r.Execute(context.Background(), engine.ExecutionRequest{
		Source: engine.Inline(`head -c 1048576 /dev/zero | tr '\0' 'a'`),
	})

	require.Equal(t, engine.StatusSuccess, res.Status)
	assert.Len(t, res.Stdout, 1048576)
}

func TestRunner_NonZeroExit(t *testing.T) {
	r, stagingDir := newTestRunner(t)

	res := r.Execute(context.Background(), engine.ExecutionRequest{
		Source: engine.Inline("echo before failure\necho oops >&2\nexit 3\n"),
	})

	assert.Equal(t, engine.StatusFailure, res.Status)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "before failure\n", res.Stdout)
	assert.Equal(t, "oops\n", res.Stderr)
	assert.Contains(t, res.ErrorMessage, "exited with code 3")
	assertStagingEmpty(t, stagingDir)
}

func TestRunner_Timeout(t *testing.T) {
	r, stagingDir := newTestRunner(t)

	start := time.Now()
	res := r.Execute(context.Background(), engine.ExecutionRequest{
		Source:         engine.Inline("sleep 5\necho never\n"),
		TimeoutSeconds: 1,
	})
	elapsed := time.Since(start)

	assert.Equal(t, engine.StatusTimedOut, res.Status)
	assert.Equal(t, engine.SentinelExitCode, res.ExitCode)
	assert.Contains(t, res.ErrorMessage, "timed out after 1 seconds")
	assert.Equal(t, res.ErrorMessage, res.Stderr)
	assert.Empty(t, res.Stdout)
	// Returned near the deadline, not after the sleep finished.
	assert.Less(t, elapsed, 3*time.Second)
	assertStagingEmpty(t, stagingDir)
}

func TestRunner_TimeoutKillsProcessGroup(t *testing.T) {
	r, _ := newTestRunner(t)

	// The script would drop a marker file 2s in. With a 1s budget the
	// whole process group must be dead before that happens.
	marker := filepath.Join(t.TempDir(), "survived")
	script := fmt.Sprintf("sleep 2\ntouch %s\n", marker)

	res := r.Execute(context.Background(), engine.ExecutionRequest{
		Source:         engine.Inline(script),
		TimeoutSeconds: 1,
	})
	require.Equal(t, engine.StatusTimedOut, res.Status)

	// Give a surviving orphan ample time to incriminate itself.
	time.Sleep(2500 * time.Millisecond)
	_, err := os.Stat(marker)
	assert.True(t, os.IsNotExist(err), "timed-out script kept running after Execute returned")
}

func TestRunner_FileSource(t *testing.T) {
	r, stagingDir := newTestRunner(t)

	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "greet.sh")
	require.NoError(t, os.WriteFile(scriptPath, []byte("echo from file\n"), 0o644))

	res := r.Execute(context.Background(), engine.ExecutionRequest{
		Source: engine.File(scriptPath),
	})

	assert.Equal(t, engine.StatusSuccess, res.Status)
	assert.Equal(t, "from file\n", res.Stdout)

	// File sources are never the engine's to delete.
	_, err := os.Stat(scriptPath)
	assert.NoError(t, err)
	assertStagingEmpty(t, stagingDir)
}

func TestRunner_FileNotFound(t *testing.T) {
	r, _ := newTestRunner(t)

	res := r.Execute(context.Background(), engine.ExecutionRequest{
		Source: engine.File("/does/not/exist.py"),
	})

	assert.Equal(t, engine.StatusFailure, res.Status)
	assert.Equal(t, engine.SentinelExitCode, res.ExitCode)
	assert.Contains(t, res.ErrorMessage, "not found")
	assert.Contains(t, res.ErrorMessage, "Failed to execute script")
}

func TestRunner_MissingInterpreter(t *testing.T) {
	stagingDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	r := engine.NewRunner(engine.Config{
		Interpreter:    "/no/such/interpreter",
		DefaultTimeout: 10 * time.Second,
		StagingDir:     stagingDir,
	}, logger)

	start := time.Now()
	res := r.Execute(context.Background(), engine.ExecutionRequest{
		Source: engine.Inline("echo hi"),
	})

	assert.Equal(t, engine.StatusFailure, res.Status)
	assert.Equal(t, engine.SentinelExitCode, res.ExitCode)
	assert.Contains(t, res.ErrorMessage, "Failed to execute script")
	// Launch failures report immediately, without waiting out the budget.
	assert.Less(t, time.Since(start), 2*time.Second)
	assertStagingEmpty(t, stagingDir)
}

func TestRunner_ConcurrentRunsAreIsolated(t *testing.T) {
	r, stagingDir := newTestRunner(t)

	const n = 8
	results := make([]engine.ExecutionResult, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Execute(context.Background(), engine.ExecutionRequest{
				Source: engine.Inline(fmt.Sprintf("echo run-%d", i)),
			})
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		assert.Equal(t, engine.StatusSuccess, res.Status)
		assert.Equal(t, fmt.Sprintf("run-%d\n", i), res.Stdout, "run %d saw another run's output", i)
	}
	assertStagingEmpty(t, stagingDir)
}

func TestRunner_StagedSourceWrittenVerbatim(t *testing.T) {
	r, _ := newTestRunner(t)

	// `cat "$0"` prints the staged file itself, proving the inline text
	// reached disk byte-for-byte with no transformation.
	script := "# héllo ✓\ncat \"$0\"\n"
	res := r.Execute(context.Background(), engine.ExecutionRequest{
		Source: engine.Inline(script),
	})

	require.Equal(t, engine.StatusSuccess, res.Status)
	assert.Equal(t, script, res.Stdout)
}

func TestRunner_LabelIsCosmetic(t *testing.T) {
	r, _ := newTestRunner(t)

	withLabel := r.Execute(context.Background(), engine.ExecutionRequest{
		Source: engine.Inline("echo labelled"),
		Label:  "../../etc/passwd", // hostile label must not influence staging
	})
	without := r.Execute(context.Background(), engine.ExecutionRequest{
		Source: engine.Inline("echo labelled"),
	})

	assert.Equal(t, engine.StatusSuccess, withLabel.Status)
	assert.Equal(t, without.Stdout, withLabel.Stdout)
}

func TestRunner_ContextCancel(t *testing.T) {
	r, stagingDir := newTestRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res := r.Execute(ctx, engine.ExecutionRequest{
		Source:         engine.Inline("sleep 5"),
		TimeoutSeconds: 30,
	})

	assert.Equal(t, engine.StatusFailure, res.Status)
	assert.Equal(t, engine.SentinelExitCode, res.ExitCode)
	assert.Less(t, time.Since(start), 3*time.Second)
	assertStagingEmpty(t, stagingDir)
}

func TestRun_ConvenienceWrapper(t *testing.T) {
	// Run uses DefaultConfig (python3). Skip quietly on hosts without it;
	// the wrapper shares every code path with the Runner tests above.
	if _, err := os.Stat("/usr/bin/python3"); err != nil {
		t.Skip("python3 not available")
	}

	res := engine.Run(context.Background(), engine.ExecutionRequest{
		Source: engine.Inline("print('Hello, World!')"),
	})

	assert.Equal(t, engine.StatusSuccess, res.Status)
	assert.Equal(t, "Hello, World!\n", res.Stdout)
}

func TestRunner_ScriptError(t *testing.T) {
	r, _ := newTestRunner(t)

	// Closest sh analogue of `raise ValueError`: write the error class
	// to stderr and exit non-zero.
	res := r.Execute(context.Background(), engine.ExecutionRequest{
		Source: engine.Inline("echo 'ValueError: x' >&2\nexit 1\n"),
	})

	assert.Equal(t, engine.StatusFailure, res.Status)
	assert.True(t, strings.Contains(res.Stderr, "ValueError"))
	assert.Contains(t, res.ErrorMessage, "exited with code 1")
}
