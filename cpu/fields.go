package cpu

import "github.com/hexaflex/rvsim/arch"

// fields holds the operand values extracted from an instruction word.
type fields struct {
	imm  int32 // Immediate, sign-extended to 32 bits.
	src1 uint8 // rs1 or 0.
	src2 uint8 // rs2 or 0.
	dst  uint8 // rd or 0.
}

// decodeFields extracts the operands of word as described by the given roles
// and immediate kind. Inactive roles yield register 0.
func decodeFields(word uint32, kind arch.ImmediateKind, src1 arch.Src1Role, src2 arch.Src2Role, dst arch.DstRole) fields {
	var f fields
	f.imm = immediate(word, kind)

	if src1 == arch.RS1 {
		f.src1 = uint8(word>>15) & 0x1f
	}
	if src2 == arch.RS2 {
		f.src2 = uint8(word>>20) & 0x1f
	}
	if dst == arch.RD {
		f.dst = uint8(word>>7) & 0x1f
	}

	return f
}

// immediate reassembles the immediate of the given kind from word.
func immediate(word uint32, kind arch.ImmediateKind) int32 {
	switch kind {
	case arch.ImmU:
		return int32(word & 0xfffff000)

	case arch.ImmJ:
		v := (word>>31&0x1)<<20 |
			(word>>12&0xff)<<12 |
			(word>>20&0x1)<<11 |
			(word>>21&0x3ff)<<1
		return signExtend(v, 21)

	case arch.ImmI:
		return int32(word) >> 20

	case arch.ImmB:
		v := (word>>31&0x1)<<12 |
			(word>>7&0x1)<<11 |
			(word>>25&0x3f)<<5 |
			(word>>8&0xf)<<1
		return signExtend(v, 13)

	case arch.ImmS:
		v := (word>>25)<<5 | word>>7&0x1f
		return signExtend(v, 12)
	}

	return 0
}

// signExtend sign-extends the low n bits of v.
func signExtend(v uint32, n uint) int32 {
	shift := 32 - n
	return int32(v<<shift) >> shift
}
