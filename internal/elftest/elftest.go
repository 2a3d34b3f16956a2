// Package elftest builds minimal ELF64 shared objects for tests.
//
// The generated files carry only what the inspectors read: a program header
// table and optional symbol tables. They are not loadable binaries.
package elftest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// Spec describes the fixture to generate.
type Spec struct {
	LoadAligns    []uint64 // one PT_LOAD program header per alignment value
	Symbols       []string // names placed in .symtab
	DynSymbols    []string // names placed in .dynsym
	ExtraSegTypes []uint32 // additional non-LOAD program header types
}

const (
	ehSize  = 64
	phSize  = 56
	shSize  = 64
	symSize = 24

	ptLoad    = 1
	shtSymtab = 2
	shtStrtab = 3
	shtDynsym = 11
	shnAbs    = 0xfff1
)

type section struct {
	name    string
	typ     uint32
	data    []byte
	link    uint32
	info    uint32
	entsize uint64
	offset  uint64
}

// Build renders the fixture as ELF64 little-endian bytes.
func Build(spec Spec) []byte {
	phnum := len(spec.LoadAligns) + len(spec.ExtraSegTypes)

	sections := []*section{{}} // index 0 is the mandatory NULL section

	if len(spec.DynSymbols) > 0 {
		symData, strData := buildSymtab(spec.DynSymbols)
		sections = append(sections,
			&section{name: ".dynsym", typ: shtDynsym, data: symData,
				link: uint32(len(sections) + 1), info: 1, entsize: symSize},
			&section{name: ".dynstr", typ: shtStrtab, data: strData})
	}
	if len(spec.Symbols) > 0 {
		symData, strData := buildSymtab(spec.Symbols)
		sections = append(sections,
			&section{name: ".symtab", typ: shtSymtab, data: symData,
				link: uint32(len(sections) + 1), info: 1, entsize: symSize},
			&section{name: ".strtab", typ: shtStrtab, data: strData})
	}

	shstr := &section{name: ".shstrtab", typ: shtStrtab}
	sections = append(sections, shstr)
	shstrndx := len(sections) - 1

	nameOffs := make(map[string]uint32)
	var shstrData bytes.Buffer
	shstrData.WriteByte(0)
	for _, s := range sections {
		if s.name == "" {
			continue
		}
		nameOffs[s.name] = uint32(shstrData.Len())
		shstrData.WriteString(s.name)
		shstrData.WriteByte(0)
	}
	shstr.data = shstrData.Bytes()

	// Section data is laid out after the headers, 8-aligned.
	off := uint64(ehSize + phnum*phSize)
	for _, s := range sections[1:] {
		off = align8(off)
		s.offset = off
		off += uint64(len(s.data))
	}
	shoff := align8(off)

	var buf bytes.Buffer

	// ELF header: ELF64, little-endian, ET_DYN, EM_X86_64.
	buf.Write([]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	put16(&buf, 3)
	put16(&buf, 62)
	put32(&buf, 1)
	put64(&buf, 0)
	if phnum > 0 {
		put64(&buf, ehSize)
	} else {
		put64(&buf, 0)
	}
	put64(&buf, shoff)
	put32(&buf, 0)
	put16(&buf, ehSize)
	put16(&buf, phSize)
	put16(&buf, uint16(phnum))
	put16(&buf, shSize)
	put16(&buf, uint16(len(sections)))
	put16(&buf, uint16(shstrndx))

	for _, a := range spec.LoadAligns {
		put32(&buf, ptLoad)
		put32(&buf, 5) // R+X
		put64(&buf, 0)
		put64(&buf, 0)
		put64(&buf, 0)
		put64(&buf, 0)
		put64(&buf, 0x1000)
		put64(&buf, a)
	}
	for _, typ := range spec.ExtraSegTypes {
		put32(&buf, typ)
		put32(&buf, 6) // R+W
		put64(&buf, 0)
		put64(&buf, 0)
		put64(&buf, 0)
		put64(&buf, 0)
		put64(&buf, 0)
		put64(&buf, 0x10)
	}

	for _, s := range sections[1:] {
		pad(&buf, s.offset)
		buf.Write(s.data)
	}

	pad(&buf, shoff)
	for _, s := range sections {
		if s.typ == 0 {
			buf.Write(make([]byte, shSize))
			continue
		}
		put32(&buf, nameOffs[s.name])
		put32(&buf, s.typ)
		put64(&buf, 0) // flags
		put64(&buf, 0) // addr
		put64(&buf, s.offset)
		put64(&buf, uint64(len(s.data)))
		put32(&buf, s.link)
		put32(&buf, s.info)
		put64(&buf, 1) // addralign
		put64(&buf, s.entsize)
	}

	return buf.Bytes()
}

// WriteFile writes the fixture under dir and returns its path.
func WriteFile(t *testing.T, dir, name string, spec Spec) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Build(spec), 0o600); err != nil {
		t.Fatalf("Failed to write ELF fixture: %v", err)
	}
	return path
}

// buildSymtab renders a symbol table and its string table. The first entry
// of each is the mandatory null entry.
func buildSymtab(names []string) (symData, strData []byte) {
	var str bytes.Buffer
	str.WriteByte(0)

	var syms bytes.Buffer
	syms.Write(make([]byte, symSize)) // null symbol

	for _, name := range names {
		nameOff := uint32(str.Len())
		str.WriteString(name)
		str.WriteByte(0)

		put32(&syms, nameOff)
		syms.WriteByte(0x12) // GLOBAL, FUNC
		syms.WriteByte(0)
		put16(&syms, shnAbs)
		put64(&syms, 0)
		put64(&syms, 0)
	}
	return syms.Bytes(), str.Bytes()
}

func align8(v uint64) uint64 {
	return (v + 7) &^ 7
}

func pad(buf *bytes.Buffer, target uint64) {
	if gap := target - uint64(buf.Len()); gap > 0 {
		buf.Write(make([]byte, gap))
	}
}

func put16(buf *bytes.Buffer, v uint16) {
	buf.Write([]byte{byte(v), byte(v >> 8)})
}

func put32(buf *bytes.Buffer, v uint32) {
	buf.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func put64(buf *bytes.Buffer, v uint64) {
	buf.Write([]byte{
		byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24),
		byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56),
	})
}
