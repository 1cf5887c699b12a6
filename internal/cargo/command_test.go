package cargo

import (
	"reflect"
	"testing"
)

var testProject = Project{Dir: "/work/myproj", PackageName: "myproj"}

func TestBuildSpec_ArgvShapes(t *testing.T) {
	cases := []struct {
		name string
		args Arguments
		want []string
	}{
		{
			"check bare",
			CheckArgs{CommonArgs: CommonArgs{Path: "/p"}},
			[]string{"cargo", "check"},
		},
		{
			"check with package",
			CheckArgs{CommonArgs: CommonArgs{Path: "/p"}, Package: "mylib"},
			[]string{"cargo", "check", "-p", "mylib"},
		},
		{
			"clippy with fix",
			ClippyArgs{CommonArgs: CommonArgs{Path: "/p"}, Fix: true},
			[]string{"cargo", "clippy", "--fix"},
		},
		{
			"test with filter and nocapture",
			TestArgs{CommonArgs: CommonArgs{Path: "/p"}, TestName: "parses_header", NoCapture: true},
			[]string{"cargo", "test", "parses_header", "--", "--nocapture"},
		},
		{
			"fmt check",
			FmtCheckArgs{CommonArgs: CommonArgs{Path: "/p"}},
			[]string{"cargo", "fmt", "--check"},
		},
		{
			"build release with package",
			BuildArgs{CommonArgs: CommonArgs{Path: "/p"}, Package: "mylib", Release: true},
			[]string{"cargo", "build", "-p", "mylib", "--release"},
		},
		{
			"bench with baseline",
			BenchArgs{CommonArgs: CommonArgs{Path: "/p"}, BenchName: "decode", Baseline: "main"},
			[]string{"cargo", "bench", "decode", "--", "--save-baseline", "main"},
		},
		{
			"add with features",
			AddArgs{CommonArgs: CommonArgs{Path: "/p"}, Dependencies: []string{"serde", "tokio@1.0"}, Features: []string{"derive"}},
			[]string{"cargo", "add", "serde", "tokio@1.0", "--features", "derive"},
		},
		{
			"add dev optional",
			AddArgs{CommonArgs: CommonArgs{Path: "/p"}, Dependencies: []string{"criterion"}, Dev: true, Optional: true},
			[]string{"cargo", "add", "--dev", "--optional", "criterion"},
		},
		{
			"remove",
			RemoveArgs{CommonArgs: CommonArgs{Path: "/p"}, Dependencies: []string{"serde", "rand"}, Dev: true},
			[]string{"cargo", "remove", "--dev", "serde", "rand"},
		},
		{
			"update dry run with specifiers",
			UpdateArgs{CommonArgs: CommonArgs{Path: "/p"}, DryRun: true, Dependencies: []string{"tokio", "serde"}},
			[]string{"cargo", "update", "--dry-run", "tokio", "serde"},
		},
		{
			"clean with package",
			CleanArgs{CommonArgs: CommonArgs{Path: "/p"}, Package: "mylib"},
			[]string{"cargo", "clean", "-p", "mylib"},
		},
		{
			"run full",
			RunArgs{
				CommonArgs: CommonArgs{Path: "/p"},
				Package:    "ws",
				Bin:        "serverd",
				Release:    true,
				Features:   "a b",
				Args:       []string{"--port", "8080"},
			},
			[]string{"cargo", "run", "-p", "ws", "--bin", "serverd", "--release", "--features", "a b", "--", "--port", "8080"},
		},
	}

	for _, tc := range cases {
		spec := BuildSpec(tc.args, testProject, "")
		if !reflect.DeepEqual(spec.Argv, tc.want) {
			t.Errorf("%s: argv = %v, want %v", tc.name, spec.Argv, tc.want)
		}
		if spec.Dir != testProject.Dir {
			t.Errorf("%s: dir = %q, want %q", tc.name, spec.Dir, testProject.Dir)
		}
	}
}

func TestBuildSpec_ToolchainToken(t *testing.T) {
	// request toolchain wins over the server default
	spec := BuildSpec(CheckArgs{CommonArgs: CommonArgs{Path: "/p", Toolchain: "nightly"}}, testProject, "stable")
	want := []string{"cargo", "+nightly", "check"}
	if !reflect.DeepEqual(spec.Argv, want) {
		t.Errorf("argv = %v, want %v", spec.Argv, want)
	}

	// server default applies when the request names none
	spec = BuildSpec(BuildArgs{CommonArgs: CommonArgs{Path: "/p"}, Release: true}, testProject, "1.70.0")
	want = []string{"cargo", "+1.70.0", "build", "--release"}
	if !reflect.DeepEqual(spec.Argv, want) {
		t.Errorf("argv = %v, want %v", spec.Argv, want)
	}

	// no toolchain at all: subcommand directly follows the executable
	spec = BuildSpec(CleanArgs{CommonArgs: CommonArgs{Path: "/p"}}, testProject, "")
	if spec.Argv[0] != Executable || spec.Argv[1] != "clean" {
		t.Errorf("argv = %v", spec.Argv)
	}
}

func TestBuildSpec_DependencyOrderPreserved(t *testing.T) {
	deps := []string{"zlib", "alpha", "middle"}
	spec := BuildSpec(AddArgs{CommonArgs: CommonArgs{Path: "/p"}, Dependencies: deps}, testProject, "")
	got := spec.Argv[2:5]
	if !reflect.DeepEqual(got, deps) {
		t.Errorf("dependency order changed: %v", got)
	}

	spec = BuildSpec(UpdateArgs{CommonArgs: CommonArgs{Path: "/p"}, Dependencies: deps}, testProject, "")
	got = spec.Argv[2:5]
	if !reflect.DeepEqual(got, deps) {
		t.Errorf("update specifier order changed: %v", got)
	}
}

func TestBuildSpec_EnvIsCallerOverlayOnly(t *testing.T) {
	args := CheckArgs{CommonArgs: CommonArgs{
		Path:     "/p",
		CargoEnv: map[string]string{"RUSTFLAGS": "-D warnings"},
	}}
	spec := BuildSpec(args, testProject, "")
	if len(spec.Env) != 1 || spec.Env["RUSTFLAGS"] != "-D warnings" {
		t.Errorf("env overlay = %v, want exactly the caller map", spec.Env)
	}

	// no overlay yields an empty map, never ambient entries
	spec = BuildSpec(CheckArgs{CommonArgs: CommonArgs{Path: "/p"}}, testProject, "")
	if len(spec.Env) != 0 {
		t.Errorf("expected empty env overlay, got %v", spec.Env)
	}
}

func TestCommandLine_QuotesWhitespaceTokens(t *testing.T) {
	spec := ProcessSpec{Argv: []string{"cargo", "run", "--features", "a b"}}
	got := spec.CommandLine()
	want := `cargo run --features "a b"`
	if got != want {
		t.Errorf("CommandLine() = %q, want %q", got, want)
	}
}
