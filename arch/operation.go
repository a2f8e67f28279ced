package arch

// OperationType classifies what an instruction does, as far as the
// pipeline cares: plain arithmetic, control flow or memory access.
type OperationType byte

// Known operation types.
const (
	Arithmetic   OperationType = iota // Register or immediate arithmetic.
	JumpAbsolute                      // PC-relative jump with an immediate target (jal).
	JumpRegister                      // Jump through a register (jalr).
	Branch                            // Conditional PC-relative branch.
	Load                              // Sign-extending memory load.
	LoadUnsigned                      // Zero-extending memory load.
	Store                             // Memory store.
	System                            // Environment calls, trap returns, wfi.
	Fence                             // Memory ordering.
	CSR                               // Control and status register access.
)

var operationNames = [...]string{
	Arithmetic:   "arithmetic",
	JumpAbsolute: "jump",
	JumpRegister: "jump-register",
	Branch:       "branch",
	Load:         "load",
	LoadUnsigned: "load-unsigned",
	Store:        "store",
	System:       "system",
	Fence:        "fence",
	CSR:          "csr",
}

func (o OperationType) String() string {
	if int(o) < len(operationNames) {
		return operationNames[o]
	}
	return ""
}

// IsMemory returns true for loads and stores.
func (o OperationType) IsMemory() bool {
	return o == Load || o == LoadUnsigned || o == Store
}
