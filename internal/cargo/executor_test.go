package cargo

import (
	"context"
	"strings"
	"testing"
	"time"
)

// shSpec builds a ProcessSpec running a shell snippet. The executor treats
// specs as opaque data, so tests can exercise it without a cargo install.
func shSpec(dir, script string, env map[string]string) ProcessSpec {
	return ProcessSpec{Argv: []string{"sh", "-c", script}, Dir: dir, Env: env}
}

func TestExecute_CapturesStreamsSeparately(t *testing.T) {
	e := &Executor{}
	result, terr := e.Execute(context.Background(), shSpec(t.TempDir(), "echo out; echo err 1>&2", nil))
	if terr != nil {
		t.Fatalf("unexpected error: %v", terr)
	}
	if result.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", result.ExitCode)
	}
	if result.Stdout != "out\n" {
		t.Errorf("stdout = %q", result.Stdout)
	}
	if result.Stderr != "err\n" {
		t.Errorf("stderr = %q", result.Stderr)
	}
	if result.Duration <= 0 {
		t.Error("duration should be positive")
	}
}

func TestExecute_NonZeroExitIsNotAnError(t *testing.T) {
	e := &Executor{}
	result, terr := e.Execute(context.Background(), shSpec(t.TempDir(), "echo broken 1>&2; exit 101", nil))
	if terr != nil {
		t.Fatalf("a failing tool run is a result, not an error: %v", terr)
	}
	if result.ExitCode != 101 {
		t.Errorf("exit code = %d, want 101", result.ExitCode)
	}
	if !strings.Contains(result.Stderr, "broken") {
		t.Errorf("stderr = %q", result.Stderr)
	}
}

func TestExecute_MissingExecutableIsSpawnError(t *testing.T) {
	e := &Executor{}
	spec := ProcessSpec{Argv: []string{"definitely-not-a-real-binary-4711"}, Dir: t.TempDir()}
	_, terr := e.Execute(context.Background(), spec)
	if terr == nil {
		t.Fatal("expected spawn error")
	}
	if terr.Kind != KindSpawn {
		t.Errorf("kind = %s, want SpawnError", terr.Kind)
	}
}

func TestExecute_AmbientEnvNotInherited(t *testing.T) {
	t.Setenv("CARGOMCP_TEST_LEAK", "leaked")

	e := &Executor{}
	result, terr := e.Execute(context.Background(), shSpec(t.TempDir(), `printf "%s" "$CARGOMCP_TEST_LEAK"`, nil))
	if terr != nil {
		t.Fatalf("unexpected error: %v", terr)
	}
	if result.Stdout != "" {
		t.Errorf("ambient variable leaked to child: %q", result.Stdout)
	}
}

func TestExecute_OverlayReachesChild(t *testing.T) {
	e := &Executor{}
	env := map[string]string{"RUSTFLAGS": "-D warnings"}
	result, terr := e.Execute(context.Background(), shSpec(t.TempDir(), `printf "%s" "$RUSTFLAGS"`, env))
	if terr != nil {
		t.Fatalf("unexpected error: %v", terr)
	}
	if result.Stdout != "-D warnings" {
		t.Errorf("overlay variable = %q, want %q", result.Stdout, "-D warnings")
	}
}

func TestExecute_OverlayWinsOverPassthrough(t *testing.T) {
	e := &Executor{}
	env := map[string]string{"HOME": "/custom/home"}
	result, terr := e.Execute(context.Background(), shSpec(t.TempDir(), `printf "%s" "$HOME"`, env))
	if terr != nil {
		t.Fatalf("unexpected error: %v", terr)
	}
	if result.Stdout != "/custom/home" {
		t.Errorf("HOME = %q, want overlay value", result.Stdout)
	}
}

func TestExecute_OutputCap(t *testing.T) {
	e := &Executor{MaxOutputBytes: 16}
	result, terr := e.Execute(context.Background(), shSpec(t.TempDir(), `printf 'aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa'`, nil))
	if terr != nil {
		t.Fatalf("unexpected error: %v", terr)
	}
	if len(result.Stdout) != 16 {
		t.Errorf("stdout length = %d, want 16", len(result.Stdout))
	}
	if !result.StdoutTruncated {
		t.Error("expected stdout to be marked truncated")
	}
	if result.StderrTruncated {
		t.Error("stderr should not be marked truncated")
	}
}

func TestExecute_Timeout(t *testing.T) {
	e := &Executor{Timeout: 50 * time.Millisecond}
	result, terr := e.Execute(context.Background(), shSpec(t.TempDir(), "sleep 5", nil))
	if terr != nil {
		t.Fatalf("a timeout is a result, not a protocol error: %v", terr)
	}
	if !result.TimedOut {
		t.Error("expected timed_out flag")
	}
	if result.ExitCode != -1 {
		t.Errorf("exit code = %d, want -1 for abnormal termination", result.ExitCode)
	}
}

func TestChildEnvironment_Deterministic(t *testing.T) {
	overlay := map[string]string{"B_VAR": "2", "A_VAR": "1"}
	env1 := childEnvironment(overlay)
	env2 := childEnvironment(overlay)
	if len(env1) != len(env2) {
		t.Fatalf("env lengths differ: %d vs %d", len(env1), len(env2))
	}
	for i := range env1 {
		if env1[i] != env2[i] {
			t.Errorf("env not deterministic at %d: %q vs %q", i, env1[i], env2[i])
		}
	}
	// sorted order
	for i := 1; i < len(env1); i++ {
		if env1[i-1] > env1[i] {
			t.Errorf("env not sorted: %q before %q", env1[i-1], env1[i])
		}
	}
}
