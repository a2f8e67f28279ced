// Package cpu implements the RISC-V decode stage: instruction catalog,
// field extraction, decoded instructions and their disassembly.
package cpu

import (
	"math/bits"
	"sync"

	"github.com/pkg/errors"

	"github.com/hexaflex/rvsim/arch"
)

// Register is the native register width of the simulated hart.
type Register interface {
	~uint32 | ~uint64
}

// ExecuteFunc implements the semantics of one instruction.
// It is supplied by the execution subsystem and never called by this package.
type ExecuteFunc[T Register] func(*Instruction[T])

// Hooks maps instruction names to their execution functions.
type Hooks[T Register] map[string]ExecuteFunc[T]

// Entry describes how to decode one instruction.
type Entry[T Register] struct {
	arch.Descriptor
	Subset    byte               // ISA subset letter.
	Execute   ExecuteFunc[T]     // Execution hook; never nil.
	Operation arch.OperationType // Operation type.
	ImmKind   arch.ImmediateKind // Immediate bit layout.
	ImmPrint  arch.PrintStyle    // Immediate rendering.
	Src1      arch.Src1Role
	Src2      arch.Src2Role
	Dst       arch.DstRole
}

// attributes holds the per-instruction decode attributes.
type attributes struct {
	op   arch.OperationType
	imm  arch.ImmediateKind
	prn  arch.PrintStyle
	src1 arch.Src1Role
	src2 arch.Src2Role
	dst  arch.DstRole
}

// Shorthands to keep the attribute table readable.
const (
	_x = arch.PrintHex
	_d = arch.PrintDecimal
	_n = arch.PrintNone
)

var attributeTable = map[string]attributes{
	"lui":   {arch.Arithmetic, arch.ImmU, _x, arch.Src1Zero, arch.Src2Zero, arch.RD},
	"auipc": {arch.Arithmetic, arch.ImmU, _x, arch.Src1Zero, arch.Src2Zero, arch.RD},

	// Jumps and branches
	"jal":  {arch.JumpAbsolute, arch.ImmJ, _x, arch.Src1Zero, arch.Src2Zero, arch.RD},
	"jalr": {arch.JumpRegister, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"beq":  {arch.Branch, arch.ImmB, _d, arch.RS1, arch.RS2, arch.DstZero},
	"bne":  {arch.Branch, arch.ImmB, _d, arch.RS1, arch.RS2, arch.DstZero},
	"blt":  {arch.Branch, arch.ImmB, _d, arch.RS1, arch.RS2, arch.DstZero},
	"bge":  {arch.Branch, arch.ImmB, _d, arch.RS1, arch.RS2, arch.DstZero},
	"bltu": {arch.Branch, arch.ImmB, _d, arch.RS1, arch.RS2, arch.DstZero},
	"bgeu": {arch.Branch, arch.ImmB, _d, arch.RS1, arch.RS2, arch.DstZero},

	// Loads and stores
	"lb":  {arch.Load, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"lh":  {arch.Load, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"lw":  {arch.Load, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"ld":  {arch.Load, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"lbu": {arch.LoadUnsigned, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"lhu": {arch.LoadUnsigned, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"lwu": {arch.LoadUnsigned, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"sb":  {arch.Store, arch.ImmS, _x, arch.RS1, arch.RS2, arch.DstZero},
	"sh":  {arch.Store, arch.ImmS, _x, arch.RS1, arch.RS2, arch.DstZero},
	"sw":  {arch.Store, arch.ImmS, _x, arch.RS1, arch.RS2, arch.DstZero},
	"sd":  {arch.Store, arch.ImmS, _x, arch.RS1, arch.RS2, arch.DstZero},

	// Immediate arithmetics
	"addi":  {arch.Arithmetic, arch.ImmI, _d, arch.RS1, arch.Src2Zero, arch.RD},
	"slti":  {arch.Arithmetic, arch.ImmI, _d, arch.RS1, arch.Src2Zero, arch.RD},
	"sltiu": {arch.Arithmetic, arch.ImmI, _d, arch.RS1, arch.Src2Zero, arch.RD},
	"xori":  {arch.Arithmetic, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"ori":   {arch.Arithmetic, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"andi":  {arch.Arithmetic, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"slli":  {arch.Arithmetic, arch.ImmI, _d, arch.RS1, arch.Src2Zero, arch.RD},
	"srli":  {arch.Arithmetic, arch.ImmI, _d, arch.RS1, arch.Src2Zero, arch.RD},
	"srai":  {arch.Arithmetic, arch.ImmI, _d, arch.RS1, arch.Src2Zero, arch.RD},
	"addiw": {arch.Arithmetic, arch.ImmI, _d, arch.RS1, arch.Src2Zero, arch.RD},
	"slliw": {arch.Arithmetic, arch.ImmI, _d, arch.RS1, arch.Src2Zero, arch.RD},
	"srliw": {arch.Arithmetic, arch.ImmI, _d, arch.RS1, arch.Src2Zero, arch.RD},
	"sraiw": {arch.Arithmetic, arch.ImmI, _d, arch.RS1, arch.Src2Zero, arch.RD},

	// Register-register arithmetics
	"add":  {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"sub":  {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"sll":  {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"slt":  {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"sltu": {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"xor":  {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"srl":  {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"sra":  {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"or":   {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"and":  {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"addw": {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"subw": {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"sllw": {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"srlw": {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"sraw": {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},

	// Multiply and divide
	"mul":    {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"mulh":   {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"mulhsu": {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"mulhu":  {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"div":    {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"divu":   {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"rem":    {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"remu":   {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"mulw":   {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"divw":   {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"divuw":  {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"remw":   {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},
	"remuw":  {arch.Arithmetic, arch.NoImmediate, _n, arch.RS1, arch.RS2, arch.RD},

	// System
	"fence":   {arch.Fence, arch.ImmI, _x, arch.Src1Zero, arch.Src2Zero, arch.DstZero},
	"fence.i": {arch.Fence, arch.NoImmediate, _n, arch.Src1Zero, arch.Src2Zero, arch.DstZero},
	"ecall":   {arch.System, arch.NoImmediate, _n, arch.Src1Zero, arch.Src2Zero, arch.DstZero},
	"ebreak":  {arch.System, arch.NoImmediate, _n, arch.Src1Zero, arch.Src2Zero, arch.DstZero},
	"uret":    {arch.System, arch.NoImmediate, _n, arch.Src1Zero, arch.Src2Zero, arch.DstZero},
	"sret":    {arch.System, arch.NoImmediate, _n, arch.Src1Zero, arch.Src2Zero, arch.DstZero},
	"mret":    {arch.System, arch.NoImmediate, _n, arch.Src1Zero, arch.Src2Zero, arch.DstZero},
	"wfi":     {arch.System, arch.NoImmediate, _n, arch.Src1Zero, arch.Src2Zero, arch.DstZero},

	// The csr*i forms carry a 5-bit immediate in the rs1 field.
	"csrrw":  {arch.CSR, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"csrrs":  {arch.CSR, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"csrrc":  {arch.CSR, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"csrrwi": {arch.CSR, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"csrrsi": {arch.CSR, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
	"csrrci": {arch.CSR, arch.ImmI, _x, arch.RS1, arch.Src2Zero, arch.RD},
}

// Catalog is the ordered, read-only set of instructions known to a hart
// of register width T.
type Catalog[T Register] struct {
	entries []Entry[T]
	unknown Entry[T]
	xlen    arch.XLEN
}

// NewCatalog builds the catalog for register width T, attaching the given
// execution hooks. Instructions without a hook get a no-op.
// Returns an error if a hook names an instruction the catalog does not contain.
func NewCatalog[T Register](hooks Hooks[T]) (*Catalog[T], error) {
	var zero T
	c := &Catalog[T]{
		xlen: arch.XLEN(bits.Len64(uint64(^zero))),
		unknown: Entry[T]{
			Descriptor: arch.Descriptor{Name: "unknown"},
			Subset:     'I',
			Execute:    nop[T],
			Operation:  arch.Arithmetic,
		},
	}

	for _, d := range arch.Descriptors() {
		if !d.Standard.Supports(c.xlen) {
			continue
		}

		a, ok := attributeTable[d.Name]
		if !ok {
			return nil, errors.Errorf("cpu: no decode attributes for %q", d.Name)
		}

		c.entries = append(c.entries, Entry[T]{
			Descriptor: d,
			Subset:     byte(d.Standard.Extension()),
			Execute:    nop[T],
			Operation:  a.op,
			ImmKind:    a.imm,
			ImmPrint:   a.prn,
			Src1:       a.src1,
			Src2:       a.src2,
			Dst:        a.dst,
		})
	}

	for name, fn := range hooks {
		i := c.index(name)
		if i < 0 {
			return nil, errors.Errorf("cpu: hook for unknown instruction %q on %s", name, c)
		}
		if fn != nil {
			c.entries[i].Execute = fn
		}
	}

	return c, nil
}

// XLEN returns the register width of the catalog.
func (c *Catalog[T]) XLEN() arch.XLEN {
	return c.xlen
}

// Len returns the number of catalogued instructions, excluding the unknown sentinel.
func (c *Catalog[T]) Len() int {
	return len(c.entries)
}

// At returns a copy of the entry at index i.
func (c *Catalog[T]) At(i int) Entry[T] {
	return c.entries[i]
}

// Unknown returns a copy of the entry produced for words which match
// no instruction.
func (c *Catalog[T]) Unknown() Entry[T] {
	return c.unknown
}

// Lookup returns a copy of the entry for the given instruction name.
// Returns false if the name is not recognized.
func (c *Catalog[T]) Lookup(name string) (Entry[T], bool) {
	if i := c.index(name); i >= 0 {
		return c.entries[i], true
	}
	return Entry[T]{}, false
}

// Match returns a copy of the first entry whose encoding matches word,
// or of the unknown sentinel if there is none.
func (c *Catalog[T]) Match(word uint32) Entry[T] {
	return *c.match(word)
}

// Entries are shared by every decode on the catalog. The pointers returned
// by index and match never leave this package.

func (c *Catalog[T]) index(name string) int {
	for i := range c.entries {
		if c.entries[i].Name == name {
			return i
		}
	}
	return -1
}

func (c *Catalog[T]) match(word uint32) *Entry[T] {
	for i := range c.entries {
		if c.entries[i].Matches(word) {
			return &c.entries[i]
		}
	}
	return &c.unknown
}

func (c *Catalog[T]) String() string {
	return arch.Standard(c.xlen).String()
}

func nop[T Register](*Instruction[T]) {}

var (
	rv32 = sync.OnceValue(func() *Catalog[uint32] { return mustCatalog[uint32]() })
	rv64 = sync.OnceValue(func() *Catalog[uint64] { return mustCatalog[uint64]() })
)

// RV32 returns the shared catalog for 32-bit harts.
// It is built on first use and has no execution hooks.
func RV32() *Catalog[uint32] { return rv32() }

// RV64 returns the shared catalog for 64-bit harts.
// It is built on first use and has no execution hooks.
func RV64() *Catalog[uint64] { return rv64() }

func mustCatalog[T Register]() *Catalog[T] {
	c, err := NewCatalog[T](nil)
	if err != nil {
		panic(err)
	}
	return c
}
