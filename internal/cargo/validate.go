package cargo

import (
	"fmt"
	"strings"
)

// Validation turns the untyped argument bag of a tools/call request into the
// typed record for one tool. Schemas are closed: an argument the tool does
// not declare is a validation error, not something to silently drop.

func assertNoUnknownArguments(args map[string]any, allowed map[string]struct{}) error {
	for key := range args {
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("unknown argument: %s", key)
		}
	}
	return nil
}

func parseRequiredString(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	v, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%s must not be empty", key)
	}
	return v, nil
}

func parseOptionalString(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", nil
	}
	v, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return v, nil
}

func parseOptionalBool(args map[string]any, key string, defaultValue bool) (bool, error) {
	raw, ok := args[key]
	if !ok {
		return defaultValue, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("%s must be a boolean", key)
	}
	return v, nil
}

func parseStringSlice(args map[string]any, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an array of strings", key)
	}
	out := make([]string, 0, len(items))
	for idx, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string", key, idx)
		}
		out = append(out, s)
	}
	return out, nil
}

func parseStringMap(args map[string]any, key string) (map[string]string, error) {
	raw, ok := args[key]
	if !ok {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object with string values", key)
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s.%s must be a string", key, k)
		}
		out[k] = s
	}
	return out, nil
}

// parseCommon extracts the fields shared by every tool schema.
func parseCommon(args map[string]any) (CommonArgs, error) {
	path, err := parseRequiredString(args, "path")
	if err != nil {
		return CommonArgs{}, err
	}
	toolchain, err := parseOptionalString(args, "toolchain")
	if err != nil {
		return CommonArgs{}, err
	}
	if err := validToolchainToken(toolchain); err != nil {
		return CommonArgs{}, err
	}
	env, err := parseStringMap(args, "cargo_env")
	if err != nil {
		return CommonArgs{}, err
	}
	return CommonArgs{Path: path, Toolchain: toolchain, CargoEnv: env}, nil
}

// validToolchainToken rejects values that could not be a single argv token in
// the `+<toolchain>` position.
func validToolchainToken(toolchain string) error {
	if toolchain == "" {
		return nil
	}
	if strings.ContainsAny(toolchain, " \t\n") {
		return fmt.Errorf("toolchain must not contain whitespace")
	}
	if strings.HasPrefix(toolchain, "-") || strings.HasPrefix(toolchain, "+") {
		return fmt.Errorf("toolchain must not start with %q", toolchain[:1])
	}
	return nil
}

func allowedSet(extra ...string) map[string]struct{} {
	allowed := map[string]struct{}{
		"path":      {},
		"toolchain": {},
		"cargo_env": {},
	}
	for _, key := range extra {
		allowed[key] = struct{}{}
	}
	return allowed
}

func parseCheckArgs(args map[string]any) (Arguments, error) {
	if err := assertNoUnknownArguments(args, allowedSet("package")); err != nil {
		return nil, err
	}
	common, err := parseCommon(args)
	if err != nil {
		return nil, err
	}
	pkg, err := parseOptionalString(args, "package")
	if err != nil {
		return nil, err
	}
	return CheckArgs{CommonArgs: common, Package: pkg}, nil
}

func parseClippyArgs(args map[string]any) (Arguments, error) {
	if err := assertNoUnknownArguments(args, allowedSet("package", "fix")); err != nil {
		return nil, err
	}
	common, err := parseCommon(args)
	if err != nil {
		return nil, err
	}
	pkg, err := parseOptionalString(args, "package")
	if err != nil {
		return nil, err
	}
	fix, err := parseOptionalBool(args, "fix", false)
	if err != nil {
		return nil, err
	}
	return ClippyArgs{CommonArgs: common, Package: pkg, Fix: fix}, nil
}

func parseTestArgs(args map[string]any) (Arguments, error) {
	if err := assertNoUnknownArguments(args, allowedSet("package", "test_name", "no_capture")); err != nil {
		return nil, err
	}
	common, err := parseCommon(args)
	if err != nil {
		return nil, err
	}
	pkg, err := parseOptionalString(args, "package")
	if err != nil {
		return nil, err
	}
	testName, err := parseOptionalString(args, "test_name")
	if err != nil {
		return nil, err
	}
	noCapture, err := parseOptionalBool(args, "no_capture", false)
	if err != nil {
		return nil, err
	}
	return TestArgs{CommonArgs: common, Package: pkg, TestName: testName, NoCapture: noCapture}, nil
}

func parseFmtCheckArgs(args map[string]any) (Arguments, error) {
	if err := assertNoUnknownArguments(args, allowedSet()); err != nil {
		return nil, err
	}
	common, err := parseCommon(args)
	if err != nil {
		return nil, err
	}
	return FmtCheckArgs{CommonArgs: common}, nil
}

func parseBuildArgs(args map[string]any) (Arguments, error) {
	if err := assertNoUnknownArguments(args, allowedSet("package", "release")); err != nil {
		return nil, err
	}
	common, err := parseCommon(args)
	if err != nil {
		return nil, err
	}
	pkg, err := parseOptionalString(args, "package")
	if err != nil {
		return nil, err
	}
	release, err := parseOptionalBool(args, "release", false)
	if err != nil {
		return nil, err
	}
	return BuildArgs{CommonArgs: common, Package: pkg, Release: release}, nil
}

func parseBenchArgs(args map[string]any) (Arguments, error) {
	if err := assertNoUnknownArguments(args, allowedSet("package", "bench_name", "baseline")); err != nil {
		return nil, err
	}
	common, err := parseCommon(args)
	if err != nil {
		return nil, err
	}
	pkg, err := parseOptionalString(args, "package")
	if err != nil {
		return nil, err
	}
	benchName, err := parseOptionalString(args, "bench_name")
	if err != nil {
		return nil, err
	}
	baseline, err := parseOptionalString(args, "baseline")
	if err != nil {
		return nil, err
	}
	return BenchArgs{CommonArgs: common, Package: pkg, BenchName: benchName, Baseline: baseline}, nil
}

func parseAddArgs(args map[string]any) (Arguments, error) {
	if err := assertNoUnknownArguments(args, allowedSet("dependencies", "package", "dev", "optional", "features")); err != nil {
		return nil, err
	}
	common, err := parseCommon(args)
	if err != nil {
		return nil, err
	}
	deps, err := parseStringSlice(args, "dependencies")
	if err != nil {
		return nil, err
	}
	if len(deps) == 0 {
		return nil, fmt.Errorf("dependencies is required and must not be empty")
	}
	pkg, err := parseOptionalString(args, "package")
	if err != nil {
		return nil, err
	}
	dev, err := parseOptionalBool(args, "dev", false)
	if err != nil {
		return nil, err
	}
	optional, err := parseOptionalBool(args, "optional", false)
	if err != nil {
		return nil, err
	}
	features, err := parseStringSlice(args, "features")
	if err != nil {
		return nil, err
	}
	return AddArgs{
		CommonArgs:   common,
		Dependencies: deps,
		Package:      pkg,
		Dev:          dev,
		Optional:     optional,
		Features:     features,
	}, nil
}

func parseRemoveArgs(args map[string]any) (Arguments, error) {
	if err := assertNoUnknownArguments(args, allowedSet("dependencies", "package", "dev")); err != nil {
		return nil, err
	}
	common, err := parseCommon(args)
	if err != nil {
		return nil, err
	}
	deps, err := parseStringSlice(args, "dependencies")
	if err != nil {
		return nil, err
	}
	if len(deps) == 0 {
		return nil, fmt.Errorf("dependencies is required and must not be empty")
	}
	pkg, err := parseOptionalString(args, "package")
	if err != nil {
		return nil, err
	}
	dev, err := parseOptionalBool(args, "dev", false)
	if err != nil {
		return nil, err
	}
	return RemoveArgs{CommonArgs: common, Dependencies: deps, Package: pkg, Dev: dev}, nil
}

func parseUpdateArgs(args map[string]any) (Arguments, error) {
	if err := assertNoUnknownArguments(args, allowedSet("package", "dependencies", "dry_run")); err != nil {
		return nil, err
	}
	common, err := parseCommon(args)
	if err != nil {
		return nil, err
	}
	pkg, err := parseOptionalString(args, "package")
	if err != nil {
		return nil, err
	}
	deps, err := parseStringSlice(args, "dependencies")
	if err != nil {
		return nil, err
	}
	dryRun, err := parseOptionalBool(args, "dry_run", false)
	if err != nil {
		return nil, err
	}
	return UpdateArgs{CommonArgs: common, Package: pkg, Dependencies: deps, DryRun: dryRun}, nil
}

func parseCleanArgs(args map[string]any) (Arguments, error) {
	if err := assertNoUnknownArguments(args, allowedSet("package")); err != nil {
		return nil, err
	}
	common, err := parseCommon(args)
	if err != nil {
		return nil, err
	}
	pkg, err := parseOptionalString(args, "package")
	if err != nil {
		return nil, err
	}
	return CleanArgs{CommonArgs: common, Package: pkg}, nil
}

func parseRunArgs(args map[string]any) (Arguments, error) {
	allowed := allowedSet("package", "bin", "example", "release", "features", "all_features", "no_default_features", "args")
	if err := assertNoUnknownArguments(args, allowed); err != nil {
		return nil, err
	}
	common, err := parseCommon(args)
	if err != nil {
		return nil, err
	}
	pkg, err := parseOptionalString(args, "package")
	if err != nil {
		return nil, err
	}
	bin, err := parseOptionalString(args, "bin")
	if err != nil {
		return nil, err
	}
	example, err := parseOptionalString(args, "example")
	if err != nil {
		return nil, err
	}
	release, err := parseOptionalBool(args, "release", false)
	if err != nil {
		return nil, err
	}
	features, err := parseOptionalString(args, "features")
	if err != nil {
		return nil, err
	}
	allFeatures, err := parseOptionalBool(args, "all_features", false)
	if err != nil {
		return nil, err
	}
	noDefault, err := parseOptionalBool(args, "no_default_features", false)
	if err != nil {
		return nil, err
	}
	binArgs, err := parseStringSlice(args, "args")
	if err != nil {
		return nil, err
	}
	return RunArgs{
		CommonArgs:        common,
		Package:           pkg,
		Bin:               bin,
		Example:           example,
		Release:           release,
		Features:          features,
		AllFeatures:       allFeatures,
		NoDefaultFeatures: noDefault,
		Args:              binArgs,
	}, nil
}
