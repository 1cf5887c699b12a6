package cargo

import "cargomcp/internal/protocol"

// ToolDefinition describes one whitelisted cargo operation: its external
// JSON-Schema surface and the parser producing the typed argument record.
// Definitions are built once at startup and shared read-only; adding a
// capability means adding a registry entry, never widening a schema.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`

	parse func(map[string]any) (Arguments, error)
}

// Parse validates the raw argument bag against this tool's closed schema.
func (d ToolDefinition) Parse(raw map[string]any) (Arguments, *ToolError) {
	if raw == nil {
		raw = map[string]any{}
	}
	args, err := d.parse(raw)
	if err != nil {
		return nil, validationError(err.Error())
	}
	return args, nil
}

// ToolOrder is the listing order exposed via tools/list.
var ToolOrder = []string{
	protocol.ToolNameCheck,
	protocol.ToolNameClippy,
	protocol.ToolNameTest,
	protocol.ToolNameFmtCheck,
	protocol.ToolNameBuild,
	protocol.ToolNameBench,
	protocol.ToolNameAdd,
	protocol.ToolNameRemove,
	protocol.ToolNameUpdate,
	protocol.ToolNameClean,
	protocol.ToolNameRun,
}

// Registry returns the closed mapping from tool name to definition.
func Registry() map[string]ToolDefinition {
	return map[string]ToolDefinition{
		protocol.ToolNameCheck: {
			Name:        protocol.ToolNameCheck,
			Description: "Run cargo check to verify the project compiles without producing artifacts.",
			InputSchema: toolSchema(map[string]any{
				"package": stringProp("Optional package name to check (for workspaces)"),
			}),
			parse: parseCheckArgs,
		},
		protocol.ToolNameClippy: {
			Name:        protocol.ToolNameClippy,
			Description: "Run cargo clippy lints over the project.",
			InputSchema: toolSchema(map[string]any{
				"package": stringProp("Optional package name to lint (for workspaces)"),
				"fix":     boolProp("Apply machine-applicable lint suggestions"),
			}),
			parse: parseClippyArgs,
		},
		protocol.ToolNameTest: {
			Name:        protocol.ToolNameTest,
			Description: "Run cargo test to execute the project's tests.",
			InputSchema: toolSchema(map[string]any{
				"package":    stringProp("Optional package name to test (for workspaces)"),
				"test_name":  stringProp("Optional test name filter"),
				"no_capture": boolProp("Show test output as it runs (passes --nocapture to the test harness)"),
			}),
			parse: parseTestArgs,
		},
		protocol.ToolNameFmtCheck: {
			Name:        protocol.ToolNameFmtCheck,
			Description: "Check formatting with cargo fmt --check without modifying files.",
			InputSchema: toolSchema(map[string]any{}),
			parse:       parseFmtCheckArgs,
		},
		protocol.ToolNameBuild: {
			Name:        protocol.ToolNameBuild,
			Description: "Build the project with cargo build.",
			InputSchema: toolSchema(map[string]any{
				"package": stringProp("Optional package name to build (for workspaces)"),
				"release": boolProp("Build with optimizations (--release)"),
			}),
			parse: parseBuildArgs,
		},
		protocol.ToolNameBench: {
			Name:        protocol.ToolNameBench,
			Description: "Run benchmarks with cargo bench.",
			InputSchema: toolSchema(map[string]any{
				"package":    stringProp("Optional package name (for workspaces)"),
				"bench_name": stringProp("Optional benchmark name filter"),
				"baseline":   stringProp("Save results under this baseline name for comparison"),
			}),
			parse: parseBenchArgs,
		},
		protocol.ToolNameAdd: {
			Name:        protocol.ToolNameAdd,
			Description: "Add dependencies to Cargo.toml with cargo add.",
			InputSchema: toolSchema(map[string]any{
				"dependencies": stringArrayProp("Dependency specifiers to add, e.g. [\"serde\", \"tokio@1.0\"]"),
				"package":      stringProp("Optional package name (for workspaces)"),
				"dev":          boolProp("Add as development dependencies"),
				"optional":     boolProp("Add as optional dependencies"),
				"features":     stringArrayProp("Features to enable for the added dependencies"),
			}, "dependencies"),
			parse: parseAddArgs,
		},
		protocol.ToolNameRemove: {
			Name:        protocol.ToolNameRemove,
			Description: "Remove dependencies from Cargo.toml with cargo remove.",
			InputSchema: toolSchema(map[string]any{
				"dependencies": stringArrayProp("Dependency names to remove"),
				"package":      stringProp("Optional package name (for workspaces)"),
				"dev":          boolProp("Remove from development dependencies"),
			}, "dependencies"),
			parse: parseRemoveArgs,
		},
		protocol.ToolNameUpdate: {
			Name:        protocol.ToolNameUpdate,
			Description: "Update dependency versions in Cargo.lock with cargo update.",
			InputSchema: toolSchema(map[string]any{
				"package":      stringProp("Optional package name (for workspaces)"),
				"dependencies": stringArrayProp("Specific dependencies to update; order expresses preference"),
				"dry_run":      boolProp("Report what would be updated without writing Cargo.lock"),
			}),
			parse: parseUpdateArgs,
		},
		protocol.ToolNameClean: {
			Name:        protocol.ToolNameClean,
			Description: "Remove generated build artifacts with cargo clean.",
			InputSchema: toolSchema(map[string]any{
				"package": stringProp("Optional package to clean artifacts for"),
			}),
			parse: parseCleanArgs,
		},
		protocol.ToolNameRun: {
			Name:        protocol.ToolNameRun,
			Description: "Run a binary or example from the project with cargo run.",
			InputSchema: toolSchema(map[string]any{
				"package":             stringProp("Optional package name to run from (for workspaces)"),
				"bin":                 stringProp("Binary name to run when the package has several"),
				"example":             stringProp("Example name to run instead of a binary"),
				"release":             boolProp("Run the optimized build (--release)"),
				"features":            stringProp("Space-separated list of features to activate"),
				"all_features":        boolProp("Activate all available features"),
				"no_default_features": boolProp("Do not activate the default feature set"),
				"args":                stringArrayProp("Arguments passed to the binary after --"),
			}),
			parse: parseRunArgs,
		},
	}
}

// toolSchema builds a closed object schema carrying the common fields plus
// the tool-specific properties. path is always required.
func toolSchema(props map[string]any, required ...string) map[string]any {
	merged := map[string]any{
		"path":      stringProp("Project directory containing Cargo.toml"),
		"toolchain": stringProp("Rust toolchain to use, e.g. 'stable', 'nightly', '1.70.0'"),
		"cargo_env": map[string]any{
			"type":                 "object",
			"description":          "Environment variables set for the cargo process",
			"additionalProperties": map[string]any{"type": "string"},
		},
	}
	for key, prop := range props {
		merged[key] = prop
	}
	return map[string]any{
		"type":                 "object",
		"properties":           merged,
		"required":             append([]string{"path"}, required...),
		"additionalProperties": false,
	}
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func boolProp(description string) map[string]any {
	return map[string]any{"type": "boolean", "description": description}
}

func stringArrayProp(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": description,
		"items":       map[string]any{"type": "string"},
	}
}
