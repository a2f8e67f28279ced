package asm

import (
	"github.com/pkg/errors"

	"github.com/hexaflex/rvsim/arch"
)

// normalize maps values written as unsigned 32-bit numbers, such as the
// disassembler's hex output, onto their signed equivalent.
func normalize(v int64) int64 {
	if v >= 1<<31 && v < 1<<32 {
		return int64(int32(uint32(v)))
	}
	return v
}

func encodeRegisters(rd, rs1, rs2 uint32) uint32 {
	return (rd&0x1f)<<7 | (rs1&0x1f)<<15 | (rs2&0x1f)<<20
}

// encodeImmediate scatters imm into the bit positions of the given layout.
// CSR instructions additionally accept their 12-bit field as an unsigned number.
func encodeImmediate(kind arch.ImmediateKind, imm int64, csr bool) (uint32, error) {
	u := uint32(imm)

	switch kind {
	case arch.NoImmediate:
		return 0, nil

	case arch.ImmU:
		if imm%4096 != 0 || imm < -1<<31 || imm > 1<<31-1 {
			return 0, errors.Errorf("immediate %d must be a multiple of 4096 in 32-bit range", imm)
		}
		return u & 0xfffff000, nil

	case arch.ImmJ:
		if err := checkRange(imm, -1<<20, 1<<20-2, 2); err != nil {
			return 0, err
		}
		return (u>>20&0x1)<<31 | (u>>1&0x3ff)<<21 | (u>>11&0x1)<<20 | (u>>12&0xff)<<12, nil

	case arch.ImmI:
		if csr && imm >= 0 && imm < 4096 {
			return (u & 0xfff) << 20, nil
		}
		if err := checkRange(imm, -2048, 2047, 1); err != nil {
			return 0, err
		}
		return (u & 0xfff) << 20, nil

	case arch.ImmB:
		if err := checkRange(imm, -4096, 4094, 2); err != nil {
			return 0, err
		}
		return (u>>12&0x1)<<31 | (u>>5&0x3f)<<25 | (u>>1&0xf)<<8 | (u>>11&0x1)<<7, nil

	case arch.ImmS:
		if err := checkRange(imm, -2048, 2047, 1); err != nil {
			return 0, err
		}
		return (u>>5&0x7f)<<25 | (u&0x1f)<<7, nil
	}

	return 0, errors.Errorf("unsupported immediate kind %v", kind)
}

func checkRange(imm, min, max, align int64) error {
	if imm < min || imm > max {
		return errors.Errorf("immediate %d out of range [%d, %d]", imm, min, max)
	}
	if imm%align != 0 {
		return errors.Errorf("immediate %d must be a multiple of %d", imm, align)
	}
	return nil
}
