package gateways

import (
	"context"
	"debug/elf"
	"errors"
	"fmt"

	"github.com/soverify/soverify/internal/domain/entities"
)

// nativeInspector implements ELF inspection using pure Go
// Uses the debug/elf package - no external readelf-class tool required
type nativeInspector struct{}

// NewNativeInspector creates a new native ELF inspector
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewNativeInspector() *nativeInspector {
	return &nativeInspector{}
}

// LoadSegmentAlignments returns the p_align value of every PT_LOAD entry in
// the artifact's program header table.
func (g *nativeInspector) LoadSegmentAlignments(_ context.Context, path string) ([]uint64, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, &entities.ToolInvocationError{
			Artifact: path,
			Err:      fmt.Errorf("failed to open ELF file: %w", err),
		}
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	aligns := make([]uint64, 0, len(f.Progs))
	for _, prog := range f.Progs {
		if prog.Type == elf.PT_LOAD {
			aligns = append(aligns, prog.Align)
		}
	}
	return aligns, nil
}

// SymbolNames returns the union of the dynamic and full symbol tables.
// Stripped binaries may lack either table; only an unreadable file is an
// error, a missing table is not.
func (g *nativeInspector) SymbolNames(_ context.Context, path string) (map[string]struct{}, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, &entities.ToolInvocationError{
			Artifact: path,
			Err:      fmt.Errorf("failed to open ELF file: %w", err),
		}
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	names := make(map[string]struct{})

	dynSyms, err := f.DynamicSymbols()
	if err != nil && !errors.Is(err, elf.ErrNoSymbols) {
		return nil, &entities.ToolInvocationError{
			Artifact: path,
			Err:      fmt.Errorf("failed to read dynamic symbol table: %w", err),
		}
	}
	for _, sym := range dynSyms {
		if sym.Name != "" {
			names[sym.Name] = struct{}{}
		}
	}

	syms, err := f.Symbols()
	if err != nil && !errors.Is(err, elf.ErrNoSymbols) {
		return nil, &entities.ToolInvocationError{
			Artifact: path,
			Err:      fmt.Errorf("failed to read symbol table: %w", err),
		}
	}
	for _, sym := range syms {
		if sym.Name != "" {
			names[sym.Name] = struct{}{}
		}
	}

	return names, nil
}
