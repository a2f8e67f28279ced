package arch

import (
	"strconv"
	"strings"
)

// RegisterCount is the number of integer registers.
const RegisterCount = 32

// abiNames holds the calling convention names for x0 to x31.
var abiNames = [RegisterCount]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// IsRegister returns true if the given name represents a known register.
func IsRegister(name string) bool {
	return RegisterIndex(name) > -1
}

// RegisterIndex returns the index for the given register.
// Accepted forms are "$n", "xn", the ABI name and "fp" as an alias of s0.
// Returns -1 if the name is not recognized.
func RegisterIndex(name string) int {
	name = strings.ToLower(name)

	switch {
	case name == "fp":
		return 8
	case strings.HasPrefix(name, "$"), strings.HasPrefix(name, "x"):
		n, err := strconv.Atoi(name[1:])
		if err != nil || n < 0 || n >= RegisterCount || name[1] == '+' || name[1] == '-' {
			return -1
		}
		return n
	}

	for i, v := range abiNames {
		if v == name {
			return i
		}
	}
	return -1
}

// RegisterName returns the ABI name associated with the given register index.
// Returns "" if the index is not recognized.
func RegisterName(n int) string {
	if n < 0 || n >= RegisterCount {
		return ""
	}
	return abiNames[n]
}
