// Package parser reads assembly source in the disassembler's text syntax.
//
// A source file holds one instruction per line. Lines may carry a label
// definition, a breakpoint marker and a comment:
//
//	:loop
//		addi $1, $1, -1   ; count down
//		break
//		bne ra, zero, loop
//		lw $3, 0x10($5)
//
// Registers are written as $n, xN or by their ABI name. Branch and jump
// targets may name a label instead of giving a numeric offset.
package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hexaflex/rvsim/arch"
)

// OperandType defines the kind of an instruction operand.
type OperandType int

// Known operand types.
const (
	_ OperandType = iota
	Register
	Number
	LabelRef
	Memory
)

func (t OperandType) String() string {
	switch t {
	case Register:
		return "Register"
	case Number:
		return "Number"
	case LabelRef:
		return "LabelRef"
	case Memory:
		return "Memory"
	}
	return ""
}

// Operand defines a single instruction operand.
type Operand struct {
	Pos   Position
	Type  OperandType
	Value int64  // Register index, number or memory offset.
	Name  string // Label name for LabelRef operands.
	Base  int    // Base register for Memory operands.
}

func (o Operand) String() string {
	switch o.Type {
	case Register:
		return "$" + strconv.FormatInt(o.Value, 10)
	case Number:
		return strconv.FormatInt(o.Value, 10)
	case LabelRef:
		return o.Name
	case Memory:
		return fmt.Sprintf("%d($%d)", o.Value, o.Base)
	}
	return "?"
}

// Instruction defines a single source instruction.
type Instruction struct {
	Pos        Position
	Name       string // Lower case mnemonic.
	Operands   []Operand
	Breakpoint bool // Set when preceded by a break marker.
}

func (i *Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(i.Name)
	for j, op := range i.Operands {
		if j == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(op.String())
	}
	return sb.String()
}

// Label defines a named position in the instruction stream.
type Label struct {
	Pos   Position
	Name  string
	Index int // Index of the instruction following the label.
}

// Program defines the parsed contents of one or more source files.
type Program struct {
	Files        []string
	Instructions []*Instruction
	Labels       []*Label
}

// NewProgram creates a new, empty program.
func NewProgram() *Program {
	return &Program{}
}

// Label returns the label with the given name, or nil if it is not defined.
// Label names are case sensitive.
func (p *Program) Label(name string) *Label {
	for _, l := range p.Labels {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// ParseFile parses the given file into the program.
// Parsing the same file more than once is not an error and is silently ignored.
func (p *Program) ParseFile(filename string) error {
	fd, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer fd.Close()
	return p.Parse(fd, filename)
}

// Parse parses the given stream into the program. The filename is used
// to provide source context.
func (p *Program) Parse(r io.Reader, filename string) error {
	if filename != "" && p.hasFile(filename) {
		return nil
	}

	p.Files = append(p.Files, filename)

	var instr *Instruction
	var op *Operand
	var brk *Position

	err := tokenize(r, filename, func(tt int, pos Position, value string) error {
		switch tt {
		case tokLabel:
			if l := p.Label(value); l != nil {
				return NewError(pos, "duplicate label %q; first defined at %s", value, l.Pos)
			}
			p.Labels = append(p.Labels, &Label{Pos: pos, Name: value, Index: len(p.Instructions)})

		case tokBreakPoint:
			brk = &pos

		case tokInstructionBegin:
			instr = &Instruction{
				Pos:        pos,
				Name:       strings.ToLower(value),
				Breakpoint: brk != nil,
			}
			brk = nil

		case tokInstructionEnd:
			p.Instructions = append(p.Instructions, instr)
			instr = nil

		case tokOperandBegin:
			op = &Operand{Pos: pos}

		case tokOperandEnd:
			instr.Operands = append(instr.Operands, *op)
			op = nil

		case tokMemoryBegin:
			op.Type = Memory

		case tokRegister, tokIdent:
			index := arch.RegisterIndex(value)

			switch {
			case op.Type == Memory && index < 0:
				return NewError(pos, "invalid base register %q", value)
			case op.Type == Memory:
				op.Base = index
			case index > -1:
				op.Type = Register
				op.Value = int64(index)
			case tt == tokRegister:
				return NewError(pos, "invalid register %q", value)
			default:
				op.Type = LabelRef
				op.Name = value
			}

		case tokNumber:
			num, err := ParseNumber(value)
			if err != nil {
				return NewError(pos, "invalid number %q", value)
			}
			op.Type = Number
			op.Value = num
		}

		return nil
	})

	if err != nil {
		return err
	}

	if brk != nil {
		return NewError(*brk, "breakpoint must be followed by an instruction")
	}

	return nil
}

// hasFile returns true if the program has seen the given file before.
func (p *Program) hasFile(filename string) bool {
	for _, v := range p.Files {
		if v == filename {
			return true
		}
	}
	return false
}

// String returns a human readable listing of the program.
func (p *Program) String() string {
	var sb strings.Builder
	var next int

	for i, instr := range p.Instructions {
		for next < len(p.Labels) && p.Labels[next].Index <= i {
			dumpPos(&sb, p.Labels[next].Pos)
			fmt.Fprintf(&sb, ":%s\n", p.Labels[next].Name)
			next++
		}

		dumpPos(&sb, instr.Pos)
		if instr.Breakpoint {
			sb.WriteString("break ")
		}
		fmt.Fprintf(&sb, "%s\n", instr)
	}

	for ; next < len(p.Labels); next++ {
		dumpPos(&sb, p.Labels[next].Pos)
		fmt.Fprintf(&sb, ":%s\n", p.Labels[next].Name)
	}

	return sb.String()
}

func dumpPos(w io.Writer, pos Position) {
	_, file := filepath.Split(pos.File)
	fmt.Fprintf(w, "%s:%d:%d ", file, pos.Line, pos.Col)
}
