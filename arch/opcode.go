// Package arch defines the RISC-V instruction set vocabulary along with
// some related helper functions.
package arch

import (
	"slices"
	"strings"
)

// Descriptor identifies one instruction encoding.
// A word w belongs to the instruction if w&Mask == Match.
type Descriptor struct {
	Name     string
	Match    uint32
	Mask     uint32
	Standard Standard
}

// Matches returns true if word is an encoding of d.
func (d Descriptor) Matches(word uint32) bool {
	return word&d.Mask == d.Match
}

// descriptors lists every known instruction encoding, in table order.
// The match/mask pairs are taken from the riscv-opcodes generator output.
var descriptors = []Descriptor{
	// RV32I
	{"lui", 0x00000037, 0x0000007f, RV32I},
	{"auipc", 0x00000017, 0x0000007f, RV32I},
	{"jal", 0x0000006f, 0x0000007f, RV32I},
	{"jalr", 0x00000067, 0x0000707f, RV32I},
	{"beq", 0x00000063, 0x0000707f, RV32I},
	{"bne", 0x00001063, 0x0000707f, RV32I},
	{"blt", 0x00004063, 0x0000707f, RV32I},
	{"bge", 0x00005063, 0x0000707f, RV32I},
	{"bltu", 0x00006063, 0x0000707f, RV32I},
	{"bgeu", 0x00007063, 0x0000707f, RV32I},
	{"lb", 0x00000003, 0x0000707f, RV32I},
	{"lh", 0x00001003, 0x0000707f, RV32I},
	{"lw", 0x00002003, 0x0000707f, RV32I},
	{"lbu", 0x00004003, 0x0000707f, RV32I},
	{"lhu", 0x00005003, 0x0000707f, RV32I},
	{"sb", 0x00000023, 0x0000707f, RV32I},
	{"sh", 0x00001023, 0x0000707f, RV32I},
	{"sw", 0x00002023, 0x0000707f, RV32I},
	{"addi", 0x00000013, 0x0000707f, RV32I},
	{"slti", 0x00002013, 0x0000707f, RV32I},
	{"sltiu", 0x00003013, 0x0000707f, RV32I},
	{"xori", 0x00004013, 0x0000707f, RV32I},
	{"ori", 0x00006013, 0x0000707f, RV32I},
	{"andi", 0x00007013, 0x0000707f, RV32I},
	{"slli", 0x00001013, 0xfc00707f, RV32I},
	{"srli", 0x00005013, 0xfc00707f, RV32I},
	{"srai", 0x40005013, 0xfc00707f, RV32I},
	{"add", 0x00000033, 0xfe00707f, RV32I},
	{"sub", 0x40000033, 0xfe00707f, RV32I},
	{"sll", 0x00001033, 0xfe00707f, RV32I},
	{"slt", 0x00002033, 0xfe00707f, RV32I},
	{"sltu", 0x00003033, 0xfe00707f, RV32I},
	{"xor", 0x00004033, 0xfe00707f, RV32I},
	{"srl", 0x00005033, 0xfe00707f, RV32I},
	{"sra", 0x40005033, 0xfe00707f, RV32I},
	{"or", 0x00006033, 0xfe00707f, RV32I},
	{"and", 0x00007033, 0xfe00707f, RV32I},
	{"fence", 0x0000000f, 0x0000707f, RV32I},
	{"fence.i", 0x0000100f, 0x0000707f, RV32I},
	{"ecall", 0x00000073, 0xffffffff, RV32I},
	{"ebreak", 0x00100073, 0xffffffff, RV32I},
	{"uret", 0x00200073, 0xffffffff, RV32I},
	{"sret", 0x10200073, 0xffffffff, RV32I},
	{"mret", 0x30200073, 0xffffffff, RV32I},
	{"wfi", 0x10500073, 0xffffffff, RV32I},
	{"csrrw", 0x00001073, 0x0000707f, RV32I},
	{"csrrs", 0x00002073, 0x0000707f, RV32I},
	{"csrrc", 0x00003073, 0x0000707f, RV32I},
	{"csrrwi", 0x00005073, 0x0000707f, RV32I},
	{"csrrsi", 0x00006073, 0x0000707f, RV32I},
	{"csrrci", 0x00007073, 0x0000707f, RV32I},

	// RV32M
	{"mul", 0x02000033, 0xfe00707f, RV32M},
	{"mulh", 0x02001033, 0xfe00707f, RV32M},
	{"mulhsu", 0x02002033, 0xfe00707f, RV32M},
	{"mulhu", 0x02003033, 0xfe00707f, RV32M},
	{"div", 0x02004033, 0xfe00707f, RV32M},
	{"divu", 0x02005033, 0xfe00707f, RV32M},
	{"rem", 0x02006033, 0xfe00707f, RV32M},
	{"remu", 0x02007033, 0xfe00707f, RV32M},

	// RV64I
	{"lwu", 0x00006003, 0x0000707f, RV64I},
	{"ld", 0x00003003, 0x0000707f, RV64I},
	{"sd", 0x00003023, 0x0000707f, RV64I},
	{"addiw", 0x0000001b, 0x0000707f, RV64I},
	{"slliw", 0x0000101b, 0xfe00707f, RV64I},
	{"srliw", 0x0000501b, 0xfe00707f, RV64I},
	{"sraiw", 0x4000501b, 0xfe00707f, RV64I},
	{"addw", 0x0000003b, 0xfe00707f, RV64I},
	{"subw", 0x4000003b, 0xfe00707f, RV64I},
	{"sllw", 0x0000103b, 0xfe00707f, RV64I},
	{"srlw", 0x0000503b, 0xfe00707f, RV64I},
	{"sraw", 0x4000503b, 0xfe00707f, RV64I},

	// RV64M
	{"mulw", 0x0200003b, 0xfe00707f, RV64M},
	{"divw", 0x0200403b, 0xfe00707f, RV64M},
	{"divuw", 0x0200503b, 0xfe00707f, RV64M},
	{"remw", 0x0200603b, 0xfe00707f, RV64M},
	{"remuw", 0x0200703b, 0xfe00707f, RV64M},
}

// Descriptors returns a copy of the encoding table, in table order.
func Descriptors() []Descriptor {
	return slices.Clone(descriptors)
}

// Opcode returns the descriptor for the given instruction name, regardless
// of register width. Returns false if the name is not recognized.
func Opcode(name string) (Descriptor, bool) {
	name = strings.ToLower(name)
	for _, d := range descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}
