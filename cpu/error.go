package cpu

import "fmt"

// Error defines a fetch error at a given address.
type Error struct {
	Addr uint64
	Msg  string
}

// NewError creates a new, formatted error message for the given address.
func NewError(addr uint64, f string, argv ...interface{}) *Error {
	return &Error{
		Addr: addr,
		Msg:  fmt.Sprintf(f, argv...),
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%08x: %s", e.Addr, e.Msg)
}
