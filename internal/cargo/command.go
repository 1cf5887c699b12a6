package cargo

import "strings"

// Executable is the build-tool binary. It is never taken from caller input.
const Executable = "cargo"

// ProcessSpec is a fully constructed child-process invocation. Argv is the
// complete token vector (Argv[0] is the executable); Env is the explicit
// overlay, never a copy of the server's environment. Specs are built fresh
// per invocation and never reused.
type ProcessSpec struct {
	Argv []string
	Dir  string
	Env  map[string]string
}

// CommandLine renders the argv for transcripts and audit rows. Tokens with
// whitespace are quoted for readability only; the spec itself is always an
// explicit vector and never passes through a shell.
func (s ProcessSpec) CommandLine() string {
	tokens := make([]string, len(s.Argv))
	for i, tok := range s.Argv {
		if strings.ContainsAny(tok, " \t\"'") {
			tokens[i] = "\"" + strings.ReplaceAll(tok, "\"", "\\\"") + "\""
		} else {
			tokens[i] = tok
		}
	}
	return strings.Join(tokens, " ")
}

// BuildSpec maps a validated argument record to its process spec. One
// deterministic branch per tool kind; the toolchain selector (request value,
// else the server-wide default) is inserted as a single `+<toolchain>` token
// between the executable and the subcommand.
func BuildSpec(args Arguments, project Project, defaultToolchain string) ProcessSpec {
	common := args.Common()
	toolchain := common.Toolchain
	if toolchain == "" {
		toolchain = defaultToolchain
	}

	argv := []string{Executable}
	if toolchain != "" {
		argv = append(argv, "+"+toolchain)
	}

	switch a := args.(type) {
	case CheckArgs:
		argv = append(argv, "check")
		argv = appendPackage(argv, a.Package)
	case ClippyArgs:
		argv = append(argv, "clippy")
		argv = appendPackage(argv, a.Package)
		if a.Fix {
			argv = append(argv, "--fix")
		}
	case TestArgs:
		argv = append(argv, "test")
		argv = appendPackage(argv, a.Package)
		if a.TestName != "" {
			argv = append(argv, a.TestName)
		}
		if a.NoCapture {
			argv = append(argv, "--", "--nocapture")
		}
	case FmtCheckArgs:
		argv = append(argv, "fmt", "--check")
	case BuildArgs:
		argv = append(argv, "build")
		argv = appendPackage(argv, a.Package)
		if a.Release {
			argv = append(argv, "--release")
		}
	case BenchArgs:
		argv = append(argv, "bench")
		argv = appendPackage(argv, a.Package)
		if a.BenchName != "" {
			argv = append(argv, a.BenchName)
		}
		if a.Baseline != "" {
			argv = append(argv, "--", "--save-baseline", a.Baseline)
		}
	case AddArgs:
		argv = append(argv, "add")
		argv = appendPackage(argv, a.Package)
		if a.Dev {
			argv = append(argv, "--dev")
		}
		if a.Optional {
			argv = append(argv, "--optional")
		}
		// caller order is preserved verbatim
		argv = append(argv, a.Dependencies...)
		if len(a.Features) > 0 {
			argv = append(argv, "--features", strings.Join(a.Features, ","))
		}
	case RemoveArgs:
		argv = append(argv, "remove")
		argv = appendPackage(argv, a.Package)
		if a.Dev {
			argv = append(argv, "--dev")
		}
		argv = append(argv, a.Dependencies...)
	case UpdateArgs:
		argv = append(argv, "update")
		argv = appendPackage(argv, a.Package)
		if a.DryRun {
			argv = append(argv, "--dry-run")
		}
		// specifier order expresses update preference; keep it
		argv = append(argv, a.Dependencies...)
	case CleanArgs:
		argv = append(argv, "clean")
		argv = appendPackage(argv, a.Package)
	case RunArgs:
		argv = append(argv, "run")
		argv = appendPackage(argv, a.Package)
		if a.Bin != "" {
			argv = append(argv, "--bin", a.Bin)
		}
		if a.Example != "" {
			argv = append(argv, "--example", a.Example)
		}
		if a.Release {
			argv = append(argv, "--release")
		}
		if a.Features != "" {
			argv = append(argv, "--features", a.Features)
		}
		if a.AllFeatures {
			argv = append(argv, "--all-features")
		}
		if a.NoDefaultFeatures {
			argv = append(argv, "--no-default-features")
		}
		if len(a.Args) > 0 {
			argv = append(argv, "--")
			argv = append(argv, a.Args...)
		}
	}

	env := make(map[string]string, len(common.CargoEnv))
	for k, v := range common.CargoEnv {
		env[k] = v
	}

	return ProcessSpec{Argv: argv, Dir: project.Dir, Env: env}
}

func appendPackage(argv []string, pkg string) []string {
	if pkg != "" {
		return append(argv, "-p", pkg)
	}
	return argv
}
