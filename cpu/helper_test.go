package cpu

import (
	"github.com/hexaflex/rvsim/arch"
)

// Encoding helpers used to construct instruction words in tests.

func regs(rd, rs1, rs2 uint32) uint32 {
	return (rd&0x1f)<<7 | (rs1&0x1f)<<15 | (rs2&0x1f)<<20
}

func encodeImm(kind arch.ImmediateKind, imm int32) uint32 {
	u := uint32(imm)

	switch kind {
	case arch.ImmU:
		return u & 0xfffff000
	case arch.ImmJ:
		return (u>>20&0x1)<<31 | (u>>1&0x3ff)<<21 | (u>>11&0x1)<<20 | (u>>12&0xff)<<12
	case arch.ImmI:
		return (u & 0xfff) << 20
	case arch.ImmB:
		return (u>>12&0x1)<<31 | (u>>5&0x3f)<<25 | (u>>1&0xf)<<8 | (u>>11&0x1)<<7
	case arch.ImmS:
		return (u>>5&0x7f)<<25 | (u&0x1f)<<7
	}

	return 0
}

// encode builds a word for the named instruction.
func encode(name string, rd, rs1, rs2 uint32, imm int32) uint32 {
	e, ok := RV64().Lookup(name)
	if !ok {
		panic("unknown instruction " + name)
	}
	return e.Match | regs(rd, rs1, rs2) | encodeImm(e.ImmKind, imm)
}

// strip clears the execution hook so instructions can be compared with reflect.DeepEqual.
func strip[T Register](i Instruction[T]) Instruction[T] {
	i.Execute = nil
	return i
}
