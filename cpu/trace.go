package cpu

import "io"

// TraceFunc represents a callback handler for decoded instructions.
// Returning a non-nil error stops the walk.
type TraceFunc[T Register] func(*Instruction[T]) error

// Walk decodes every instruction word in m, in address order, starting at
// the image base, and hands each one to fn. It returns nil once the end of
// the image is reached, or the first error returned by fn.
func Walk[T Register](c *Catalog[T], m *Memory, fn TraceFunc[T]) error {
	return WalkFrom(c, m, m.Base, fn)
}

// WalkFrom does the same as Walk, starting at the given address.
func WalkFrom[T Register](c *Catalog[T], m *Memory, addr uint64, fn TraceFunc[T]) error {
	for {
		word, err := m.Fetch(addr)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		instr := c.Decode(word, T(addr))
		if err := fn(&instr); err != nil {
			return err
		}

		addr += InstructionSize
	}
}
