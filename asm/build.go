// Package asm implements an assembler which turns source written in the
// disassembler's text syntax back into RISC-V instruction words.
package asm

import (
	"io"

	"github.com/pkg/errors"

	"github.com/hexaflex/rvsim/arch"
	"github.com/hexaflex/rvsim/asm/ar"
	"github.com/hexaflex/rvsim/asm/parser"
	"github.com/hexaflex/rvsim/cpu"
)

// Options defines assembler settings.
type Options struct {
	Base  uint64    // Address of the first instruction. Must be word aligned.
	XLEN  arch.XLEN // Register width selecting the instruction set. Defaults to RV64.
	Debug bool      // Emit debug symbols, including breakpoints.
}

// Build assembles the given source files, in order, into a single archive.
func Build(opt Options, files ...string) (*ar.Archive, error) {
	prog, err := BuildProgram(files...)
	if err != nil {
		return nil, err
	}
	return Assemble(prog, opt)
}

// BuildProgram parses the given source files into a single program.
func BuildProgram(files ...string) (*parser.Program, error) {
	if len(files) == 0 {
		return nil, errors.New("no source files")
	}

	prog := parser.NewProgram()
	for _, file := range files {
		if err := prog.ParseFile(file); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

// AssembleReader parses and assembles source from the given stream.
// The filename provides source context.
func AssembleReader(r io.Reader, filename string, opt Options) (*ar.Archive, error) {
	prog := parser.NewProgram()
	if err := prog.Parse(r, filename); err != nil {
		return nil, err
	}
	return Assemble(prog, opt)
}

// Assemble encodes the given program into an archive.
func Assemble(prog *parser.Program, opt Options) (*ar.Archive, error) {
	set, err := isaFor(opt.XLEN)
	if err != nil {
		return nil, err
	}

	if opt.Base%cpu.InstructionSize != 0 {
		return nil, errors.Errorf("base address %x is not word aligned", opt.Base)
	}

	a := newAssembler(set, opt)
	return a.assemble(prog)
}

// opcode holds the width independent part of a catalog entry.
type opcode struct {
	arch.Descriptor
	Operation arch.OperationType
	ImmKind   arch.ImmediateKind
	ImmPrint  arch.PrintStyle
	Src1      arch.Src1Role
	Src2      arch.Src2Role
	Dst       arch.DstRole
}

// isa gives the assembler access to a catalog without tying it to a register width.
type isa struct {
	xlen   arch.XLEN
	lookup func(name string) (opcode, bool)
	decode func(word uint32) string
}

func isaFor(xlen arch.XLEN) (*isa, error) {
	switch xlen {
	case arch.RV32:
		return newISA(cpu.RV32()), nil
	case 0, arch.RV64:
		return newISA(cpu.RV64()), nil
	}
	return nil, errors.Errorf("unsupported register width %d", xlen)
}

func newISA[T cpu.Register](c *cpu.Catalog[T]) *isa {
	return &isa{
		xlen: c.XLEN(),
		lookup: func(name string) (opcode, bool) {
			e, ok := c.Lookup(name)
			if !ok {
				return opcode{}, false
			}
			return opcode{
				Descriptor: e.Descriptor,
				Operation:  e.Operation,
				ImmKind:    e.ImmKind,
				ImmPrint:   e.ImmPrint,
				Src1:       e.Src1,
				Src2:       e.Src2,
				Dst:        e.Dst,
			}, true
		},
		decode: func(word uint32) string {
			return c.Match(word).Name
		},
	}
}
