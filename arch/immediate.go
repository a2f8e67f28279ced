package arch

// ImmediateKind selects the bit layout of an instruction's immediate.
type ImmediateKind byte

// Known immediate kinds.
const (
	NoImmediate ImmediateKind = iota // No immediate; decodes as 0.
	ImmU                             // imm[31:12] = word[31:12]
	ImmJ                             // imm[20|10:1|11|19:12] = word[31:12]
	ImmI                             // imm[11:0] = word[31:20]
	ImmB                             // imm[12|10:5] = word[31:25], imm[4:1|11] = word[11:7]
	ImmS                             // imm[11:5] = word[31:25], imm[4:0] = word[11:7]
)

func (k ImmediateKind) String() string {
	switch k {
	case ImmU:
		return "U"
	case ImmJ:
		return "J"
	case ImmI:
		return "I"
	case ImmB:
		return "B"
	case ImmS:
		return "S"
	}
	return " "
}

// PrintStyle defines how an immediate is rendered in disassembly.
type PrintStyle byte

// Known print styles.
const (
	PrintNone    PrintStyle = iota // Immediate is not printed.
	PrintHex                       // ", 0x" followed by the low 32 bits in lowercase hex.
	PrintDecimal                   // ", " followed by the value as a signed 32-bit integer.
)

func (p PrintStyle) String() string {
	switch p {
	case PrintHex:
		return "x"
	case PrintDecimal:
		return "d"
	}
	return " "
}
