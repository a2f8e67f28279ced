package cpu

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/hexaflex/rvsim/arch"
)

func TestCatalogCoverage(t *testing.T) {
	c32, c64 := RV32(), RV64()

	for i := 0; i < c32.Len(); i++ {
		e := c32.At(i)
		if have := c32.Decode(e.Match, 0x1000); have.Name != e.Name {
			t.Fatalf("RV32: word %08x: want %s; have %s", e.Match, e.Name, have.Name)
		}
	}

	for i := 0; i < c64.Len(); i++ {
		e := c64.At(i)
		if have := c64.Decode(e.Match, 0x1000); have.Name != e.Name {
			t.Fatalf("RV64: word %08x: want %s; have %s", e.Match, e.Name, have.Name)
		}
	}
}

func TestCatalogDontCareBits(t *testing.T) {
	// Any word agreeing with an entry on its mask bits decodes as that entry.
	rng := rand.New(rand.NewSource(1))
	c := RV64()

	for i := 0; i < c.Len(); i++ {
		e := c.At(i)
		for j := 0; j < 64; j++ {
			word := e.Match | rng.Uint32()&^e.Mask
			if have := c.Match(word); have.Name != e.Name {
				t.Fatalf("word %08x: want %s; have %s", word, e.Name, have.Name)
			}
		}
	}
}

func TestCatalogWidth(t *testing.T) {
	c32, c64 := RV32(), RV64()

	if c32.XLEN() != arch.RV32 || c64.XLEN() != arch.RV64 {
		t.Fatalf("want widths 32/64; have %d/%d", c32.XLEN(), c64.XLEN())
	}

	var n64 int
	for _, d := range arch.Descriptors() {
		if d.Standard.XLEN() == arch.RV64 {
			n64++
			if _, ok := c32.Lookup(d.Name); ok {
				t.Fatalf("RV32 catalog must not contain %s", d.Name)
			}
		}
		if _, ok := c64.Lookup(d.Name); !ok {
			t.Fatalf("RV64 catalog is missing %s", d.Name)
		}
	}

	if c32.Len()+n64 != c64.Len() {
		t.Fatalf("RV32 has %d entries, RV64 has %d, %d are RV64 only", c32.Len(), c64.Len(), n64)
	}

	// ld x1, 8(x2)
	if have := c32.Decode(0x00813083, 0); !have.IsUnknown() {
		t.Fatalf("RV32 decoded ld as %s", have.Name)
	}
	if have := c64.Decode(0x00813083, 0); have.Name != "ld" {
		t.Fatalf("RV64: want ld; have %s", have.Name)
	}
}

func TestCatalogOrder(t *testing.T) {
	c := RV32()
	var n int

	for _, d := range arch.Descriptors() {
		if !d.Standard.Supports(arch.RV32) {
			continue
		}
		if c.At(n).Name != d.Name {
			t.Fatalf("entry %d: want %s; have %s", n, d.Name, c.At(n).Name)
		}
		n++
	}
}

func TestCatalogSingleton(t *testing.T) {
	if RV32() != RV32() || RV64() != RV64() {
		t.Fatal("shared catalogs must be built once")
	}
}

func TestUnknownSentinel(t *testing.T) {
	e := RV32().Unknown()

	if e.Name != "unknown" || e.Match != 0 || e.Mask != 0 {
		t.Fatalf("unexpected sentinel descriptor: %+v", e.Descriptor)
	}
	if e.Operation != arch.Arithmetic || e.ImmKind != arch.NoImmediate || e.ImmPrint != arch.PrintNone {
		t.Fatalf("unexpected sentinel attributes: %v %v %v", e.Operation, e.ImmKind, e.ImmPrint)
	}
	if e.Src1 != arch.Src1Zero || e.Src2 != arch.Src2Zero || e.Dst != arch.DstZero {
		t.Fatal("sentinel roles must be inactive")
	}
	if e.Execute == nil {
		t.Fatal("sentinel must carry a no-op hook")
	}
	if have := RV32().Match(0xffffffff); have.Name != "unknown" || have.Mask != 0 {
		t.Fatal("0xffffffff must match the sentinel")
	}
}

func TestCatalogEntriesAreCopies(t *testing.T) {
	c := RV32()

	add, _ := c.Lookup("add")
	add.ImmPrint = arch.PrintHex
	add.Dst = arch.DstZero

	first := c.At(0)
	first.Match = 0x00000033
	first.Mask = 0x0000007f

	m := c.Match(0x00c58633)
	m.Src2 = arch.Src2Zero

	u := c.Unknown()
	u.Name = "add"

	if fresh, _ := c.Lookup("add"); fresh.ImmPrint == add.ImmPrint || fresh.Src2 == m.Src2 {
		t.Fatal("Lookup and Match must return copies")
	}
	if c.At(0).Match == first.Match || c.Unknown().Name == u.Name {
		t.Fatal("At and Unknown must return copies")
	}

	added := Decode32(0x00c58633, 0)
	if have := added.Disasm(); have != "add $12, $11, $12" {
		t.Fatalf("caller changes reached the shared catalog: %q", have)
	}
	if have := Decode32(0xffffffff, 0); have.Name != "unknown" {
		t.Fatalf("caller changes reached the sentinel: %q", have.Name)
	}
	if have := Decode32(0x00000037, 0); have.Name != "lui" {
		t.Fatalf("caller changes reached entry 0: %q", have.Name)
	}
}

func TestHooks(t *testing.T) {
	var calls []string

	c, err := NewCatalog(Hooks[uint32]{
		"add": func(i *Instruction[uint32]) {
			calls = append(calls, i.Name)
		},
		"beq": func(i *Instruction[uint32]) {
			calls = append(calls, i.Name)
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, word := range []uint32{0x00c58633, 0x00208463, 0x00000013, 0xffffffff} {
		instr := c.Decode(word, 0)
		if instr.Execute == nil {
			t.Fatalf("%s: missing execution hook", instr.Name)
		}
		instr.Execute(&instr)
	}

	if strings.Join(calls, ",") != "add,beq" {
		t.Fatalf("want hooks add,beq; have %v", calls)
	}

	// The shared catalog is unaffected.
	calls = nil
	instr := Decode32(0x00c58633, 0)
	instr.Execute(&instr)
	if len(calls) != 0 {
		t.Fatal("shared catalog must not see custom hooks")
	}
}

func TestHooksUnknownInstruction(t *testing.T) {
	_, err := NewCatalog(Hooks[uint32]{
		"ld": func(*Instruction[uint32]) {},
	})
	if err == nil {
		t.Fatal("expected an error for a hook on an RV64-only instruction in an RV32 catalog")
	}

	_, err = NewCatalog(Hooks[uint64]{
		"ld": func(*Instruction[uint64]) {},
	})
	if err != nil {
		t.Fatal(err)
	}
}
