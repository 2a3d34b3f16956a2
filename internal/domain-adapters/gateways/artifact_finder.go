// Package gateways provides adapter implementations for external services and tools.
package gateways

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/soverify/soverify/internal/domain/entities"
)

// ArtifactFinder locates shared-library artifacts on disk.
type ArtifactFinder struct{}

// NewArtifactFinder creates a new artifact finder
func NewArtifactFinder() *ArtifactFinder {
	return &ArtifactFinder{}
}

// DiscoverArtifacts returns every file under path whose name matches
// pattern, sorted by path so output is reproducible across runs. path may
// name a single file, which is included only when it matches. pattern is an
// exact filename, or a suffix when it starts with ".". Zero matches is a
// valid empty result, not an error; a nonexistent path is ErrPathNotFound.
func (f *ArtifactFinder) DiscoverArtifacts(path, pattern string) ([]entities.Artifact, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", entities.ErrPathNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if !info.IsDir() {
		if !matchesPattern(filepath.Base(path), pattern) {
			return []entities.Artifact{}, nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		return []entities.Artifact{{Name: filepath.Base(abs), Path: abs}}, nil
	}

	artifacts := make([]entities.Artifact, 0)
	err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() || !matchesPattern(fi.Name(), pattern) {
			return nil
		}

		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, entities.Artifact{Name: fi.Name(), Path: abs})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Path < artifacts[j].Path })
	return artifacts, nil
}

// matchesPattern applies the filename match rule: a leading "." makes the
// pattern a suffix match, anything else is exact equality.
func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return false
	}
	if strings.HasPrefix(pattern, ".") {
		return strings.HasSuffix(name, pattern)
	}
	return name == pattern
}
