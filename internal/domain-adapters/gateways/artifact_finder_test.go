package gateways

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/soverify/soverify/internal/domain/entities"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestArtifactFinder_NonexistentPath(t *testing.T) {
	finder := NewArtifactFinder()

	_, err := finder.DiscoverArtifacts("/nonexistent/artifacts", ".so")

	if err == nil {
		t.Fatal("Expected error for nonexistent path, got nil")
	}
	if !errors.Is(err, entities.ErrPathNotFound) {
		t.Errorf("Expected ErrPathNotFound, got: %v", err)
	}
}

func TestArtifactFinder_EmptyDirectoryIsNotAnError(t *testing.T) {
	finder := NewArtifactFinder()
	tmpDir := t.TempDir()

	artifacts, err := finder.DiscoverArtifacts(tmpDir, ".so")

	if err != nil {
		t.Fatalf("DiscoverArtifacts() error = %v", err)
	}
	if len(artifacts) != 0 {
		t.Errorf("Expected empty result, got %d artifacts", len(artifacts))
	}
}

func TestArtifactFinder_RecursiveSuffixMatch(t *testing.T) {
	finder := NewArtifactFinder()
	tmpDir := t.TempDir()

	touch(t, filepath.Join(tmpDir, "armeabi-v7a", "libijkffmpeg.so"))
	touch(t, filepath.Join(tmpDir, "arm64-v8a", "libijkffmpeg.so"))
	touch(t, filepath.Join(tmpDir, "arm64-v8a", "libijksdl.so"))
	touch(t, filepath.Join(tmpDir, "arm64-v8a", "notes.txt"))

	artifacts, err := finder.DiscoverArtifacts(tmpDir, ".so")
	if err != nil {
		t.Fatalf("DiscoverArtifacts() error = %v", err)
	}

	if len(artifacts) != 3 {
		t.Fatalf("Found %d artifacts, want 3", len(artifacts))
	}
	if !sort.SliceIsSorted(artifacts, func(i, j int) bool { return artifacts[i].Path < artifacts[j].Path }) {
		t.Error("Artifacts are not sorted by path")
	}
	for _, a := range artifacts {
		if !filepath.IsAbs(a.Path) {
			t.Errorf("Artifact path %s is not absolute", a.Path)
		}
	}
}

func TestArtifactFinder_ExactNameMatch(t *testing.T) {
	finder := NewArtifactFinder()
	tmpDir := t.TempDir()

	touch(t, filepath.Join(tmpDir, "libijkffmpeg.so"))
	touch(t, filepath.Join(tmpDir, "libijksdl.so"))

	artifacts, err := finder.DiscoverArtifacts(tmpDir, "libijkffmpeg.so")
	if err != nil {
		t.Fatalf("DiscoverArtifacts() error = %v", err)
	}

	if len(artifacts) != 1 {
		t.Fatalf("Found %d artifacts, want 1", len(artifacts))
	}
	if artifacts[0].Name != "libijkffmpeg.so" {
		t.Errorf("Name = %s, want libijkffmpeg.so", artifacts[0].Name)
	}
}

func TestArtifactFinder_SingleFile(t *testing.T) {
	finder := NewArtifactFinder()
	tmpDir := t.TempDir()
	soPath := filepath.Join(tmpDir, "libplayer.so")
	touch(t, soPath)

	tests := []struct {
		name    string
		pattern string
		want    int
	}{
		{name: "matching suffix includes the file", pattern: ".so", want: 1},
		{name: "matching exact name includes the file", pattern: "libplayer.so", want: 1},
		{name: "non-matching pattern yields empty result", pattern: ".dylib", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifacts, err := finder.DiscoverArtifacts(soPath, tt.pattern)
			if err != nil {
				t.Fatalf("DiscoverArtifacts() error = %v", err)
			}
			if len(artifacts) != tt.want {
				t.Errorf("Found %d artifacts, want %d", len(artifacts), tt.want)
			}
		})
	}
}
