package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/hexaflex/rvsim/arch"
	"github.com/hexaflex/rvsim/cpu"
)

// Stats counts decoded instructions by mnemonic and operation type.
type Stats struct {
	Total   int
	Unknown int
	names   map[string]int
	ops     map[arch.OperationType]int
}

// NewStats creates a new, empty set of statistics.
func NewStats() *Stats {
	return &Stats{
		names: make(map[string]int),
		ops:   make(map[arch.OperationType]int),
	}
}

func (s *Stats) record(name string, op arch.OperationType) {
	s.Total++
	s.names[name]++
	s.ops[op]++
}

func (s *Stats) recordUnknown() {
	s.Total++
	s.Unknown++
}

// Count returns the number of times the given mnemonic was seen.
func (s *Stats) Count(name string) int {
	return s.names[name]
}

// statsHooks returns execution hooks recording every instruction in c into s.
func statsHooks[T cpu.Register](s *Stats, c *cpu.Catalog[T]) cpu.Hooks[T] {
	hooks := make(cpu.Hooks[T], c.Len())
	for i := 0; i < c.Len(); i++ {
		hooks[c.At(i).Name] = func(instr *cpu.Instruction[T]) {
			s.record(instr.Name, instr.Operation)
		}
	}
	return hooks
}

// Print writes the statistics, most frequent first.
func (s *Stats) Print(w io.Writer) {
	fmt.Fprintf(w, "\n%d instructions, %d unknown\n", s.Total, s.Unknown)

	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		a, b := s.names[names[i]], s.names[names[j]]
		if a != b {
			return a > b
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		fmt.Fprintf(w, " %-8s %6d\n", name, s.names[name])
	}

	ops := make([]arch.OperationType, 0, len(s.ops))
	for op := range s.ops {
		ops = append(ops, op)
	}

	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })

	fmt.Fprintln(w, "by operation:")
	for _, op := range ops {
		fmt.Fprintf(w, " %-13s %6d\n", op, s.ops[op])
	}
}
