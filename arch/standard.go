package arch

import "fmt"

// Extension identifies an ISA extension by its canonical letter.
type Extension byte

// Known extensions.
const (
	ExtInvalid Extension = 0
	ExtI       Extension = 'I' // Base integer.
	ExtM       Extension = 'M' // Multiply and divide.
)

// XLEN is a native register width in bits.
type XLEN uint8

// Known register widths.
const (
	RV32 XLEN = 32
	RV64 XLEN = 64
)

func (x XLEN) String() string {
	return fmt.Sprintf("RV%d", uint8(x))
}

// Standard combines a register width and an extension.
// The low byte holds the width, the high byte the extension letter.
type Standard uint16

// Known standards.
const (
	Invalid = Standard(0)

	RV32I = Standard(uint16(RV32) | uint16(ExtI)<<8)
	RV32M = Standard(uint16(RV32) | uint16(ExtM)<<8)
	RV64I = Standard(uint16(RV64) | uint16(ExtI)<<8)
	RV64M = Standard(uint16(RV64) | uint16(ExtM)<<8)
)

// XLEN returns the minimum register width the standard requires.
func (s Standard) XLEN() XLEN {
	return XLEN(s & 0xff)
}

// Extension returns the standard's extension.
func (s Standard) Extension() Extension {
	return Extension(s >> 8)
}

// Supports returns true if a hart with the given register width
// can execute instructions from this standard.
func (s Standard) Supports(xlen XLEN) bool {
	return s != Invalid && s.XLEN() <= xlen
}

func (s Standard) String() string {
	if s.Extension() == ExtInvalid {
		return fmt.Sprintf("RV%d", s.XLEN())
	}
	return fmt.Sprintf("RV%d%c", s.XLEN(), s.Extension())
}
