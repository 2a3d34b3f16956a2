package entities

import (
	"errors"
	"fmt"
)

// Structural errors abort a verification run before any artifact is
// evaluated. Per-artifact failures are recorded as Violations instead.
var (
	// ErrPathNotFound reports that the input path does not exist.
	ErrPathNotFound = errors.New("path not found")

	// ErrToolNotFound reports that no ELF inspection tool could be
	// resolved via any fallback location.
	ErrToolNotFound = errors.New("no ELF inspection tool found")
)

// ToolInvocationError reports an inspection tool that ran but exited
// nonzero or produced unparseable output for a specific artifact, after
// all format fallbacks were exhausted.
type ToolInvocationError struct {
	Artifact string
	Output   string // trailing tool output, for diagnostics
	Err      error
}

func (e *ToolInvocationError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("inspection of %s failed: %v: %s", e.Artifact, e.Err, e.Output)
	}
	return fmt.Sprintf("inspection of %s failed: %v", e.Artifact, e.Err)
}

func (e *ToolInvocationError) Unwrap() error {
	return e.Err
}
