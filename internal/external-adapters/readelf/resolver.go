// Package readelf implements ELF inspection by driving a readelf-class
// external tool and scraping its textual output.
package readelf

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/soverify/soverify/internal/domain/entities"
)

// Resolver locates a readelf-class executable. Resolution is deterministic
// and side-effect-free: no network access, no installation attempts.
//
// Order: explicit override path, then the execution search path, then a
// tool bundled under the configured NDK root.
type Resolver struct {
	Override string // explicit tool path, wins when set
	NDKRoot  string // Android NDK install root, searched last
}

// Names probed on PATH, in order.
var toolNames = []string{"readelf", "llvm-readelf", "eu-readelf"}

// Resolve returns the path of the tool to invoke, or ErrToolNotFound when
// no fallback yields one.
func (r Resolver) Resolve() (string, error) {
	if r.Override != "" {
		if err := statExecutable(r.Override); err != nil {
			return "", fmt.Errorf("%w: override %s: %v", entities.ErrToolNotFound, r.Override, err)
		}
		return r.Override, nil
	}

	for _, name := range toolNames {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	if r.NDKRoot != "" {
		// NDK r19+ layout; the host tag directory varies per platform.
		pattern := filepath.Join(r.NDKRoot, "toolchains", "llvm", "prebuilt", "*", "bin", "llvm-readelf")
		matches, err := filepath.Glob(pattern)
		if err == nil && len(matches) > 0 {
			sort.Strings(matches)
			for _, m := range matches {
				if statExecutable(m) == nil {
					return m, nil
				}
			}
		}
	}

	return "", fmt.Errorf("%w (tried %v on PATH, override and NDK root unset or empty)",
		entities.ErrToolNotFound, toolNames)
}

func statExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
