package gateways

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/soverify/soverify/internal/domain/entities"
	"github.com/soverify/soverify/internal/elftest"
)

func TestNativeInspector_LoadSegmentAlignments(t *testing.T) {
	inspector := NewNativeInspector()
	tmpDir := t.TempDir()

	const ptGNUStack = 0x6474e551
	path := elftest.WriteFile(t, tmpDir, "lib.so", elftest.Spec{
		LoadAligns:    []uint64{0x1000, 0x200000, 0x4000},
		ExtraSegTypes: []uint32{ptGNUStack},
	})

	aligns, err := inspector.LoadSegmentAlignments(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadSegmentAlignments() error = %v", err)
	}

	sort.Slice(aligns, func(i, j int) bool { return aligns[i] < aligns[j] })
	want := []uint64{0x1000, 0x4000, 0x200000}
	if len(aligns) != len(want) {
		t.Fatalf("Got %d LOAD alignments, want %d (non-LOAD segments must be ignored)", len(aligns), len(want))
	}
	for i := range want {
		if aligns[i] != want[i] {
			t.Errorf("aligns[%d] = 0x%x, want 0x%x", i, aligns[i], want[i])
		}
	}
}

func TestNativeInspector_NoLoadSegments(t *testing.T) {
	inspector := NewNativeInspector()
	tmpDir := t.TempDir()

	path := elftest.WriteFile(t, tmpDir, "odd.so", elftest.Spec{})

	aligns, err := inspector.LoadSegmentAlignments(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadSegmentAlignments() error = %v", err)
	}
	if len(aligns) != 0 {
		t.Errorf("Got %d alignments for a file without LOAD entries, want 0", len(aligns))
	}
}

func TestNativeInspector_SymbolNames_UnionOfTables(t *testing.T) {
	inspector := NewNativeInspector()
	tmpDir := t.TempDir()

	path := elftest.WriteFile(t, tmpDir, "lib.so", elftest.Spec{
		LoadAligns: []uint64{0x1000},
		DynSymbols: []string{"ff_https_protocol", "av_free"},
		Symbols:    []string{"ff_tls_protocol"},
	})

	names, err := inspector.SymbolNames(context.Background(), path)
	if err != nil {
		t.Fatalf("SymbolNames() error = %v", err)
	}

	for _, want := range []string{"ff_https_protocol", "av_free", "ff_tls_protocol"} {
		if _, ok := names[want]; !ok {
			t.Errorf("SymbolNames() missing %q", want)
		}
	}
	if _, ok := names["ff_https"]; ok {
		t.Error("SymbolNames() contains a name that was never defined")
	}
}

// Stripped binaries lack .symtab; the dynamic table alone must still be read.
func TestNativeInspector_SymbolNames_StrippedBinary(t *testing.T) {
	inspector := NewNativeInspector()
	tmpDir := t.TempDir()

	path := elftest.WriteFile(t, tmpDir, "stripped.so", elftest.Spec{
		LoadAligns: []uint64{0x1000},
		DynSymbols: []string{"SSL_CTX_new"},
	})

	names, err := inspector.SymbolNames(context.Background(), path)
	if err != nil {
		t.Fatalf("SymbolNames() error = %v", err)
	}
	if _, ok := names["SSL_CTX_new"]; !ok {
		t.Error("SymbolNames() missing dynamic symbol from stripped binary")
	}
}

func TestNativeInspector_NotAnELFFile(t *testing.T) {
	inspector := NewNativeInspector()
	tmpDir := t.TempDir()

	textFile := filepath.Join(tmpDir, "test.so")
	if err := os.WriteFile(textFile, []byte("not a binary"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := inspector.LoadSegmentAlignments(context.Background(), textFile)
	if err == nil {
		t.Fatal("Expected error for non-ELF file, got nil")
	}

	var toolErr *entities.ToolInvocationError
	if !errors.As(err, &toolErr) {
		t.Errorf("Expected ToolInvocationError, got: %T %v", err, err)
	}
}

func TestNativeInspector_NonexistentFile(t *testing.T) {
	inspector := NewNativeInspector()

	_, err := inspector.SymbolNames(context.Background(), "/nonexistent/lib.so")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}
