package cargo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName marks a directory as a cargo project root.
const ManifestName = "Cargo.toml"

// Project is a directory that passed the precondition check. Dir is the
// canonical path; PackageName is informational and may be empty when the
// manifest could not be parsed (presence is the contract, not validity).
type Project struct {
	Dir         string
	PackageName string
}

type manifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

// ResolveProject canonicalizes path and confirms it is a directory with a
// manifest file directly inside it. There is no upward search: a manifest in
// a parent directory does not qualify. The check runs before any process is
// spawned, so no tool ever has side effects against a non-project directory.
func ResolveProject(path string) (Project, *ToolError) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Project{}, &ToolError{
			Kind:    KindInvalidProject,
			Message: fmt.Sprintf("could not resolve path %q: %v", path, err),
			Cause:   err,
		}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return Project{}, &ToolError{
			Kind:    KindInvalidProject,
			Message: fmt.Sprintf("could not resolve path %q: %v", path, err),
			Cause:   err,
		}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return Project{}, &ToolError{
			Kind:    KindInvalidProject,
			Message: fmt.Sprintf("project directory %q does not exist", path),
			Cause:   err,
		}
	}
	if !info.IsDir() {
		return Project{}, &ToolError{
			Kind:    KindInvalidProject,
			Message: fmt.Sprintf("%q is not a directory", path),
		}
	}

	manifestPath := filepath.Join(resolved, ManifestName)
	manifestInfo, err := os.Stat(manifestPath)
	if err != nil || manifestInfo.IsDir() {
		return Project{}, &ToolError{
			Kind:    KindInvalidProject,
			Message: fmt.Sprintf("not a cargo project: %s not found in %s", ManifestName, resolved),
		}
	}

	return Project{Dir: resolved, PackageName: peekPackageName(manifestPath)}, nil
}

// peekPackageName reads the package name from the manifest for display in
// transcripts and audit rows. Parse failures yield an empty name.
func peekPackageName(manifestPath string) string {
	var m manifest
	if _, err := toml.DecodeFile(manifestPath, &m); err != nil {
		return ""
	}
	return m.Package.Name
}
