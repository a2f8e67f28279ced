package ar

import "sort"

// DebugFlags marks properties of a single instruction.
type DebugFlags byte

const (
	// Breakpoint marks an instruction at which a program walk pauses.
	Breakpoint DebugFlags = 1 << iota
)

// Debug holds the source context of an assembled program.
type Debug struct {
	Files   []string    // Source file names, referenced by DebugData.File.
	Symbols []DebugData // One entry per instruction, in ascending address order.
}

// DebugData ties one instruction address to its source location.
type DebugData struct {
	Address uint64
	File    int // Index into Debug.Files.
	Line    int
	Col     int
	Offset  int // Byte offset into the source file.
	Flags   DebugFlags
}

// maxSymbolPrealloc bounds the symbol slice allocated up front when decoding.
const maxSymbolPrealloc = 4096

// symbolRecord is the fixed size wire form of DebugData.
type symbolRecord struct {
	Address                 uint64
	File, Line, Col, Offset uint32
	Flags                   uint8
}

// Clear drops all files and symbols.
func (d *Debug) Clear() {
	d.Files = nil
	d.Symbols = nil
}

// Find returns the symbol for the instruction at addr, or nil.
func (d *Debug) Find(addr uint64) *DebugData {
	i := sort.Search(len(d.Symbols), func(i int) bool {
		return d.Symbols[i].Address >= addr
	})

	if i < len(d.Symbols) && d.Symbols[i].Address == addr {
		return &d.Symbols[i]
	}

	return nil
}

// File returns the name of the source file sym was read from.
func (d *Debug) File(sym *DebugData) string {
	if sym == nil || sym.File < 0 || sym.File >= len(d.Files) {
		return ""
	}
	return d.Files[sym.File]
}

func (d *Debug) decode(dec decoder) {
	d.Clear()

	for n := dec.u32(); n > 0; n-- {
		d.Files = append(d.Files, string(dec.blob()))
	}

	n := dec.u32()

	// Records are read one at a time; the count is not trusted for allocation.
	d.Symbols = make([]DebugData, 0, min(n, maxSymbolPrealloc))
	for ; n > 0; n-- {
		var r symbolRecord
		dec.value(&r)

		d.Symbols = append(d.Symbols, DebugData{
			Address: r.Address,
			File:    int(r.File),
			Line:    int(r.Line),
			Col:     int(r.Col),
			Offset:  int(r.Offset),
			Flags:   DebugFlags(r.Flags),
		})
	}

	if len(d.Symbols) == 0 {
		d.Symbols = nil
	}
}

func (d *Debug) encode(enc encoder) {
	enc.value(uint32(len(d.Files)))
	for _, name := range d.Files {
		enc.blob([]byte(name))
	}

	recs := make([]symbolRecord, len(d.Symbols))
	for i, s := range d.Symbols {
		recs[i] = symbolRecord{
			Address: s.Address,
			File:    uint32(s.File),
			Line:    uint32(s.Line),
			Col:     uint32(s.Col),
			Offset:  uint32(s.Offset),
			Flags:   uint8(s.Flags),
		}
	}

	enc.value(uint32(len(recs)))
	if len(recs) > 0 {
		enc.value(recs)
	}
}
