package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidatePath_RejectsTraversal(t *testing.T) {
	_, err := ValidatePath("../etc/passwd", PathOptions{})
	if !errors.Is(err, ErrPathTraversal) {
		t.Errorf("err = %v, want ErrPathTraversal", err)
	}
}

func TestValidatePath_AllowsRelativeUpWithinCWD(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(cwd, "subdir")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(sub)
	target := filepath.Join(cwd, "target.ttl")
	if err := os.WriteFile(target, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	defer os.Remove(target)

	resolved, err := ValidatePath(filepath.Join(sub, "..", "target.ttl"), PathOptions{
		AllowRelativeUp: true,
		CheckExists:     true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != target {
		t.Errorf("resolved = %q, want %q", resolved, target)
	}
}

func TestValidatePath_ExtensionMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := ValidatePath(path, PathOptions{
		CheckExists:       true,
		AllowedExtensions: []string{".ttl"},
	})
	if err == nil {
		t.Error("expected extension mismatch error")
	}
}

func TestValidatePath_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := ValidatePath(filepath.Join(dir, "missing.ttl"), PathOptions{CheckExists: true})
	if err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestValidatePath_EmptyPath(t *testing.T) {
	_, err := ValidatePath("   ", PathOptions{})
	if err == nil {
		t.Error("expected an error for an empty path")
	}
}
