package cpu

import (
	"encoding/binary"
	"io"
)

// InstructionSize is the size of an instruction word in bytes.
const InstructionSize = 4

// Memory defines a program image mapped at a base address.
// Instruction words are stored little-endian.
type Memory struct {
	Base uint64 // Address of the first byte.
	Data []byte // Image contents.
}

// NewMemory creates a memory image holding p at the given base address.
func NewMemory(base uint64, p []byte) *Memory {
	return &Memory{Base: base, Data: p}
}

// End returns the address one past the last byte of the image.
func (m *Memory) End() uint64 {
	return m.Base + uint64(len(m.Data))
}

// Contains returns true if a full instruction word is stored at addr.
func (m *Memory) Contains(addr uint64) bool {
	return addr >= m.Base && addr-m.Base+InstructionSize <= uint64(len(m.Data))
}

// Fetch returns the instruction word at the given address.
// Returns io.EOF if addr lies at or past the end of the image and an
// *Error if it is misaligned or below the base address.
func (m *Memory) Fetch(addr uint64) (uint32, error) {
	if addr%InstructionSize != 0 {
		return 0, NewError(addr, "misaligned instruction fetch")
	}
	if addr < m.Base {
		return 0, NewError(addr, "fetch below image base %08x", m.Base)
	}
	if !m.Contains(addr) {
		return 0, io.EOF
	}

	off := addr - m.Base
	return binary.LittleEndian.Uint32(m.Data[off:]), nil
}
