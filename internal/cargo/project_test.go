package cargo

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveProject_ValidProject(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"widget\"\nversion = \"0.1.0\"\n")

	project, terr := ResolveProject(dir)
	if terr != nil {
		t.Fatalf("unexpected error: %v", terr)
	}
	if project.Dir == "" {
		t.Fatal("expected resolved dir")
	}
	if project.PackageName != "widget" {
		t.Errorf("package name = %q, want widget", project.PackageName)
	}
}

func TestResolveProject_MissingManifest(t *testing.T) {
	dir := t.TempDir()
	_, terr := ResolveProject(dir)
	if terr == nil {
		t.Fatal("expected error for directory without manifest")
	}
	if terr.Kind != KindInvalidProject {
		t.Errorf("kind = %s, want InvalidProject", terr.Kind)
	}
}

func TestResolveProject_NonexistentPath(t *testing.T) {
	_, terr := ResolveProject(filepath.Join(t.TempDir(), "missing"))
	if terr == nil || terr.Kind != KindInvalidProject {
		t.Fatalf("expected InvalidProject, got %v", terr)
	}
}

func TestResolveProject_FileNotDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "somefile")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, terr := ResolveProject(file)
	if terr == nil || terr.Kind != KindInvalidProject {
		t.Fatalf("expected InvalidProject, got %v", terr)
	}
}

func TestResolveProject_NoUpwardSearch(t *testing.T) {
	parent := t.TempDir()
	writeManifest(t, parent, "[package]\nname = \"parent\"\n")
	child := filepath.Join(parent, "subdir")
	if err := os.Mkdir(child, 0o755); err != nil {
		t.Fatal(err)
	}

	// parent has a manifest but the child does not; the child must fail
	if _, terr := ResolveProject(child); terr == nil {
		t.Fatal("manifest lookup must not walk upward")
	}
}

func TestResolveProject_ManifestDirectoryDoesNotCount(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ManifestName), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, terr := ResolveProject(dir); terr == nil {
		t.Fatal("a directory named Cargo.toml is not a manifest")
	}
}

func TestResolveProject_UnparseableManifestStillValid(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "this is { not [ toml")

	project, terr := ResolveProject(dir)
	if terr != nil {
		t.Fatalf("manifest presence is the contract, parse failures are fine: %v", terr)
	}
	if project.PackageName != "" {
		t.Errorf("expected empty package name, got %q", project.PackageName)
	}
}

func TestResolveProject_SymlinkResolved(t *testing.T) {
	real := t.TempDir()
	writeManifest(t, real, "[package]\nname = \"linked\"\n")

	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	project, terr := ResolveProject(link)
	if terr != nil {
		t.Fatalf("unexpected error: %v", terr)
	}
	resolved, err := filepath.EvalSymlinks(real)
	if err != nil {
		t.Fatal(err)
	}
	if project.Dir != resolved {
		t.Errorf("dir = %q, want canonical %q", project.Dir, resolved)
	}
}
