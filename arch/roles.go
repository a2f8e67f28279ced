package arch

// Src1Role defines whether the rs1 field (word[19:15]) is an operand.
type Src1Role byte

// Known src1 roles.
const (
	Src1Zero Src1Role = iota // Not used; reads as x0.
	RS1                      // Read from word[19:15].
)

// Src2Role defines whether the rs2 field (word[24:20]) is an operand.
type Src2Role byte

// Known src2 roles.
const (
	Src2Zero Src2Role = iota // Not used; reads as x0.
	RS2                      // Read from word[24:20].
)

// DstRole defines whether the rd field (word[11:7]) is an operand.
type DstRole byte

// Known dst roles.
const (
	DstZero DstRole = iota // Not used; writes are discarded.
	RD                     // Read from word[11:7].
)
