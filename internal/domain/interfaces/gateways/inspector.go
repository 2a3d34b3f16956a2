// Package gateways defines domain-facing contracts for external tools.
package gateways

import "context"

// Inspector abstracts ELF inspection behind a narrow interface so the
// text-format dependency of external tools stays isolated and swappable
// for a native parser.
//
// Implementations must treat artifacts as read-only and hold no shared
// mutable state, so callers may inspect artifacts concurrently.
type Inspector interface {
	// LoadSegmentAlignments returns the alignment field of every LOAD
	// entry in the artifact's program header table. An artifact without
	// LOAD entries yields an empty slice, not an error.
	LoadSegmentAlignments(ctx context.Context, path string) ([]uint64, error)

	// SymbolNames returns the union of names in the artifact's dynamic
	// and full symbol tables. Stripped binaries may lack either table;
	// absence of a table is not an error.
	SymbolNames(ctx context.Context, path string) (map[string]struct{}, error)
}
