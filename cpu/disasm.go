package cpu

import (
	"strconv"
	"strings"

	"github.com/hexaflex/rvsim/arch"
)

// Disasm returns the assembly text for the instruction.
//
// Loads and stores are written as "lw $rd, 0x10($rs1)". Everything else
// lists the active operands in dst, src1, src2 order followed by the
// immediate, if it has a print style. The immediate is separated from a
// preceding register by ", " and from a bare mnemonic by a single space,
// so fence prints as "fence 0xff".
func (i *Instruction[T]) Disasm() string {
	var sb strings.Builder
	sb.Grow(32)
	sb.WriteString(i.Name)

	if i.Operation.IsMemory() {
		reg := i.Src2
		if i.PrintDst {
			reg = i.Dst
		}
		writeRegister(&sb, " $", reg)
		writeImmediate(&sb, ", ", i.ImmPrint, uint32(i.Imm))
		writeRegister(&sb, "($", i.Src1)
		sb.WriteByte(')')
		return sb.String()
	}

	sep := " $"
	if i.PrintDst {
		writeRegister(&sb, sep, i.Dst)
		sep = ", $"
	}
	if i.PrintSrc1 {
		writeRegister(&sb, sep, i.Src1)
		sep = ", $"
	}
	if i.PrintSrc2 {
		writeRegister(&sb, sep, i.Src2)
		sep = ", $"
	}

	if sep == " $" {
		writeImmediate(&sb, " ", i.ImmPrint, uint32(i.Imm))
	} else {
		writeImmediate(&sb, ", ", i.ImmPrint, uint32(i.Imm))
	}

	return sb.String()
}

func (i *Instruction[T]) String() string {
	return i.Disasm()
}

func writeRegister(sb *strings.Builder, prefix string, n uint8) {
	sb.WriteString(prefix)
	sb.WriteString(strconv.Itoa(int(n)))
}

// writeImmediate writes the low 32 bits of an immediate in the given style.
func writeImmediate(sb *strings.Builder, prefix string, style arch.PrintStyle, v uint32) {
	switch style {
	case arch.PrintHex:
		sb.WriteString(prefix)
		sb.WriteString("0x")
		sb.WriteString(strconv.FormatUint(uint64(v), 16))
	case arch.PrintDecimal:
		sb.WriteString(prefix)
		sb.WriteString(strconv.FormatInt(int64(int32(v)), 10))
	}
}
