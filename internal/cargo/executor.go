package cargo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"time"
)

// ProcessResult is the outcome of a child process that was successfully
// spawned. A non-zero exit code is a legitimate answer, not an error:
// a failing build or test is exactly the information the caller asked for.
type ProcessResult struct {
	ExitCode        int
	Stdout          string
	Stderr          string
	StdoutTruncated bool
	StderrTruncated bool
	Duration        time.Duration
	TimedOut        bool
}

// Executor spawns build-tool processes. The zero value runs without a
// deadline and without an output cap.
type Executor struct {
	// Timeout bounds a single child process; zero means no deadline.
	Timeout time.Duration
	// MaxOutputBytes caps each captured stream; zero means unlimited.
	MaxOutputBytes int
}

// hostPassthroughKeys are the only ambient environment variables forwarded
// to the child. PATH locates the cargo binary; HOME, CARGO_HOME and
// RUSTUP_HOME are required for cargo to resolve its registry and toolchains.
// Everything else the child sees must come from the caller's overlay.
var hostPassthroughKeys = []string{"PATH", "HOME", "CARGO_HOME", "RUSTUP_HOME"}

// Execute runs the spec to completion, capturing stdout and stderr
// separately. A process that cannot be started at all is a SpawnError;
// anything that ran returns a ProcessResult and a nil error.
func (e *Executor) Execute(ctx context.Context, spec ProcessSpec) (ProcessResult, *ToolError) {
	if len(spec.Argv) == 0 {
		return ProcessResult{}, &ToolError{Kind: KindSpawn, Message: "empty argv"}
	}

	runCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir
	cmd.Env = childEnvironment(spec.Env)

	stdout := newCappedBuffer(e.MaxOutputBytes)
	stderr := newCappedBuffer(e.MaxOutputBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return ProcessResult{}, &ToolError{
			Kind:    KindSpawn,
			Message: fmt.Sprintf("could not start %s: %v", spec.Argv[0], err),
			Cause:   err,
		}
	}

	waitErr := cmd.Wait()
	result := ProcessResult{
		Stdout:          stdout.String(),
		Stderr:          stderr.String(),
		StdoutTruncated: stdout.Truncated(),
		StderrTruncated: stderr.Truncated(),
		Duration:        time.Since(start),
	}

	switch {
	case waitErr == nil:
		result.ExitCode = 0
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.ExitCode = -1
		result.TimedOut = true
	default:
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// wait failed without an exit status (signal, I/O error)
			result.ExitCode = -1
		}
	}

	return result, nil
}

// childEnvironment builds the child's explicit environment: the minimal host
// passthrough needed to run cargo, then the caller's overlay. Overlay entries
// win over passthrough values; the result is sorted so that specs render and
// compare deterministically.
func childEnvironment(overlay map[string]string) []string {
	merged := make(map[string]string, len(overlay)+len(hostPassthroughKeys))
	for _, key := range hostPassthroughKeys {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			merged[key] = v
		}
	}
	for k, v := range overlay {
		merged[k] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+merged[k])
	}
	return env
}

// cappedBuffer keeps the first limit bytes written and records whether more
// arrived. limit <= 0 disables the cap.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if b.limit <= 0 {
		return b.buf.Write(p)
	}
	remaining := b.limit - b.buf.Len()
	if remaining <= 0 {
		b.truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		b.truncated = true
		_, _ = b.buf.Write(p[:remaining])
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) String() string { return b.buf.String() }

func (b *cappedBuffer) Truncated() bool { return b.truncated }
