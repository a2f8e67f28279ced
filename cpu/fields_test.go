package cpu

import (
	"testing"

	"github.com/hexaflex/rvsim/arch"
)

func TestImmediateKnownWords(t *testing.T) {
	for _, v := range []struct {
		word uint32
		kind arch.ImmediateKind
		want int32
	}{
		{0x123452b7, arch.ImmU, 0x12345000},      // lui x5, 0x12345
		{0xfffff2b7, arch.ImmU, -4096},           // lui x5, 0xfffff
		{0x010000ef, arch.ImmJ, 16},              // jal x1, 16
		{0xffdff06f, arch.ImmJ, -4},              // jal x0, -4
		{0x800000ef, arch.ImmJ, -1 << 20},        // jal x1, -1048576
		{0xfff00093, arch.ImmI, -1},              // addi x1, x0, -1
		{0x7ff00093, arch.ImmI, 2047},            // addi x1, x0, 2047
		{0x00208463, arch.ImmB, 8},               // beq x1, x2, 8
		{0xfe208ee3, arch.ImmB, -4},              // beq x1, x2, -4
		{0x80000063, arch.ImmB, -4096},           // beq x0, x0, -4096
		{0xfe612e23, arch.ImmS, -4},              // sw x6, -4(x2)
		{0x7e612fa3, arch.ImmS, 2047},            // sw x6, 2047(x2)
		{0xffffffff, arch.NoImmediate, 0},        // no immediate
		{0x00000013, arch.ImmI, 0},               // addi x0, x0, 0
		{0x40315093, arch.ImmI, 0x403},           // srai x1, x2, 3
		{0xc0002573, arch.ImmI, -1024},           // csrrs x10, cycle, x0
		{0x0ff0000f, arch.ImmI, 0xff},            // fence iorw, iorw
		{0x000000ef | 1<<20, arch.ImmJ, 1 << 11}, // jal x1, 2048
	} {
		if have := immediate(v.word, v.kind); have != v.want {
			t.Fatalf("immediate(%08x, %s):\nwant: %d\nhave: %d", v.word, v.kind, v.want, have)
		}
	}
}

func TestImmediateRoundTrip(t *testing.T) {
	for _, v := range []struct {
		kind     arch.ImmediateKind
		min, max int64
		step     int64
	}{
		{arch.ImmI, -2048, 2047, 1},
		{arch.ImmS, -2048, 2047, 1},
		{arch.ImmB, -4096, 4094, 2},
		{arch.ImmJ, -1 << 20, 1<<20 - 2, 2},
		{arch.ImmU, -1 << 31, 1<<31 - 4096, 4096},
	} {
		for imm := v.min; imm <= v.max; imm += v.step {
			word := encodeImm(v.kind, int32(imm))
			if have := immediate(word, v.kind); int64(have) != imm {
				t.Fatalf("%s immediate %d: encoded as %08x, decoded as %d", v.kind, imm, word, have)
			}
		}
	}
}

func TestImmediateEven(t *testing.T) {
	// B and J immediates have an implicit zero bit 0, whatever the word holds.
	for _, word := range []uint32{0xffffffff, 0x00000fff, 0x80000000, 0x7ffff080} {
		if immediate(word, arch.ImmB)&1 != 0 {
			t.Fatalf("B immediate of %08x is odd", word)
		}
		if immediate(word, arch.ImmJ)&1 != 0 {
			t.Fatalf("J immediate of %08x is odd", word)
		}
		if immediate(word, arch.ImmU)&0xfff != 0 {
			t.Fatalf("U immediate of %08x has low bits set", word)
		}
	}
}

func TestDecodeFieldsRoles(t *testing.T) {
	word := regs(12, 11, 13) | 0x33

	f := decodeFields(word, arch.NoImmediate, arch.RS1, arch.RS2, arch.RD)
	if f.dst != 12 || f.src1 != 11 || f.src2 != 13 || f.imm != 0 {
		t.Fatalf("active roles: have %+v", f)
	}

	f = decodeFields(word, arch.NoImmediate, arch.Src1Zero, arch.Src2Zero, arch.DstZero)
	if f != (fields{}) {
		t.Fatalf("inactive roles must read as register 0: have %+v", f)
	}
}

func TestSignExtend(t *testing.T) {
	for _, v := range []struct {
		in   uint32
		bits uint
		want int32
	}{
		{0x800, 12, -2048},
		{0x7ff, 12, 2047},
		{0x1000, 13, -4096},
		{0x100000, 21, -1 << 20},
		{0xffffffff, 32, -1},
		{0x1, 1, -1},
	} {
		if have := signExtend(v.in, v.bits); have != v.want {
			t.Fatalf("signExtend(%x, %d): want %d; have %d", v.in, v.bits, v.want, have)
		}
	}
}
