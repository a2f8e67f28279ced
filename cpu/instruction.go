package cpu

import (
	"github.com/hexaflex/rvsim/arch"
)

// Instruction defines decoded instruction data.
// It is a value; nothing in it changes after Decode returns.
type Instruction[T Register] struct {
	Word      uint32             // Raw instruction word.
	PC        T                  // Instruction address.
	NewPC     T                  // Fallthrough address: PC + 4.
	Name      string             // Mnemonic.
	Subset    byte               // ISA subset letter.
	Operation arch.OperationType // Operation type.
	ImmKind   arch.ImmediateKind // Immediate bit layout.
	ImmPrint  arch.PrintStyle    // Immediate rendering.
	Imm       T                  // Immediate, sign-extended to the register width.
	Src1      uint8              // First source register.
	Src2      uint8              // Second source register.
	Dst       uint8              // Destination register.
	PrintSrc1 bool               // Is Src1 an operand?
	PrintSrc2 bool               // Is Src2 an operand?
	PrintDst  bool               // Is Dst an operand?
	Execute   ExecuteFunc[T]     // Execution hook of the matched entry.
}

// Decode decodes the given instruction word, fetched from address pc.
// Every word decodes; words matching no instruction yield the unknown sentinel.
func (c *Catalog[T]) Decode(word uint32, pc T) Instruction[T] {
	e := c.match(word)
	f := decodeFields(word, e.ImmKind, e.Src1, e.Src2, e.Dst)

	return Instruction[T]{
		Word:      word,
		PC:        pc,
		NewPC:     pc + 4,
		Name:      e.Name,
		Subset:    e.Subset,
		Operation: e.Operation,
		ImmKind:   e.ImmKind,
		ImmPrint:  e.ImmPrint,
		Imm:       T(f.imm),
		Src1:      f.src1,
		Src2:      f.src2,
		Dst:       f.dst,
		PrintSrc1: e.Src1 == arch.RS1,
		PrintSrc2: e.Src2 == arch.RS2,
		PrintDst:  e.Dst == arch.RD,
		Execute:   e.Execute,
	}
}

// Decode32 decodes word for a 32-bit hart using the shared RV32 catalog.
func Decode32(word, pc uint32) Instruction[uint32] {
	return RV32().Decode(word, pc)
}

// Decode64 decodes word for a 64-bit hart using the shared RV64 catalog.
func Decode64(word uint32, pc uint64) Instruction[uint64] {
	return RV64().Decode(word, pc)
}

// IsUnknown returns true if the word matched no catalogued instruction.
func (i *Instruction[T]) IsUnknown() bool {
	return i.Name == "unknown"
}

// SignedImm returns the immediate as a signed value.
// Immediates never exceed 32 significant bits.
func (i *Instruction[T]) SignedImm() int64 {
	return int64(int32(i.Imm))
}
