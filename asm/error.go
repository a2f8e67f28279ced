package asm

import (
	"fmt"
	"strings"

	"github.com/hexaflex/rvsim/asm/parser"
)

// Error is an assembly error tied to a source location.
type Error struct {
	Pos parser.Position
	Msg string
}

func newError(pos parser.Position, f string, argv ...interface{}) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(f, argv...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ErrorSet collects every error found in a single assembly pass.
type ErrorSet []error

// Len returns the number of collected errors.
func (e ErrorSet) Len() int { return len(e) }

// Append adds errs to the set.
func (e *ErrorSet) Append(errs ...error) { *e = append(*e, errs...) }

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e ErrorSet) Unwrap() []error { return e }

// Error lists one error per line.
func (e ErrorSet) Error() string {
	lines := make([]string, len(e))
	for i, err := range e {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}
