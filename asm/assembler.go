package asm

import (
	"github.com/hexaflex/rvsim/arch"
	"github.com/hexaflex/rvsim/asm/ar"
	"github.com/hexaflex/rvsim/asm/parser"
	"github.com/hexaflex/rvsim/cpu"
)

// Label names checked, in order, when looking for the program entrypoint.
var entrypoints = []string{"_start", "main"}

// assembler holds assembler context. It turns a parsed program into a binary archive.
type assembler struct {
	ar      *ar.Archive       // Target archive.
	isa     *isa              // Instruction set to encode against.
	symbols map[string]uint64 // Label addresses.
	address uint64            // Address at which next instruction is written.
	debug   bool              // Emit debug symbols?
}

func newAssembler(set *isa, opt Options) *assembler {
	a := &assembler{
		ar:      ar.New(),
		isa:     set,
		symbols: make(map[string]uint64),
		debug:   opt.Debug,
	}
	a.ar.XLEN = set.xlen
	a.ar.Base = opt.Base
	a.ar.Entrypoint = opt.Base
	return a
}

// assemble compiles the given program into an archive.
func (a *assembler) assemble(prog *parser.Program) (*ar.Archive, error) {
	if err := a.resolveLabels(prog); err != nil {
		return nil, err
	}

	a.resolveEntrypoint()

	if err := a.compile(prog); err != nil {
		return nil, err
	}

	return a.ar, nil
}

// resolveLabels assigns an address to every label definition.
// Every instruction occupies one word, so addresses follow from instruction indices.
func (a *assembler) resolveLabels(prog *parser.Program) error {
	size := uint64(len(prog.Instructions)) * cpu.InstructionSize
	if a.isa.xlen == arch.RV32 && size > 0 && a.ar.Base+size > 1<<32 {
		return newError(prog.Instructions[0].Pos, "program does not fit in a 32-bit address space at base %x", a.ar.Base)
	}

	for _, l := range prog.Labels {
		if _, ok := a.symbols[l.Name]; ok {
			return newError(l.Pos, "duplicate label %q", l.Name)
		}
		a.symbols[l.Name] = a.ar.Base + uint64(l.Index)*cpu.InstructionSize
	}

	return nil
}

// resolveEntrypoint sets the entrypoint to a well known label if one is defined.
// Otherwise execution starts at the base address.
func (a *assembler) resolveEntrypoint() {
	for _, name := range entrypoints {
		if addr, ok := a.symbols[name]; ok {
			a.ar.Entrypoint = addr
			return
		}
	}
}

// compile encodes all instructions. Errors are collected so that a single
// run reports every faulty instruction.
func (a *assembler) compile(prog *parser.Program) error {
	var errs ErrorSet

	a.address = a.ar.Base
	a.ar.Instructions = make([]byte, 0, len(prog.Instructions)*cpu.InstructionSize)

	for _, instr := range prog.Instructions {
		word, err := a.encode(instr)
		if err != nil {
			errs.Append(err)
		}
		a.emit(instr, word)
	}

	if errs.Len() > 0 {
		return errs
	}
	return nil
}

// emit emits the given instruction word.
// It optionally generates debug symbols.
func (a *assembler) emit(instr *parser.Instruction, word uint32) {
	a.ar.Instructions = append(a.ar.Instructions, byte(word), byte(word>>8), byte(word>>16), byte(word>>24))

	address := a.address
	a.address += cpu.InstructionSize

	if !a.debug {
		return
	}

	var flags ar.DebugFlags
	if instr.Breakpoint {
		flags |= ar.Breakpoint
	}

	pos := instr.Pos
	a.ar.Debug.Symbols = append(a.ar.Debug.Symbols, ar.DebugData{
		Address: address,
		File:    a.addDebugFile(pos.File),
		Line:    pos.Line,
		Col:     pos.Col,
		Offset:  pos.Offset,
		Flags:   flags,
	})
}

// addDebugFile adds a filename to the debug symbol table, provided it does
// not already exist. Returns the index of the entry in the file list.
func (a *assembler) addDebugFile(file string) int {
	for i, v := range a.ar.Debug.Files {
		if v == file {
			return i
		}
	}
	a.ar.Debug.Files = append(a.ar.Debug.Files, file)
	return len(a.ar.Debug.Files) - 1
}

// encode encodes the given instruction into its final binary form.
//
// Operands follow the disassembler's order. Memory accesses take a register
// and an offset(base) pair. Everything else takes dst, src1 and src2, each
// only when the instruction uses it, followed by the immediate when the
// instruction prints one.
func (a *assembler) encode(instr *parser.Instruction) (uint32, error) {
	op, ok := a.isa.lookup(instr.Name)
	if !ok {
		if d, known := arch.Opcode(instr.Name); known {
			return 0, newError(instr.Pos, "instruction %q requires %s; building for %s", instr.Name, d.Standard, a.isa.xlen)
		}
		return 0, newError(instr.Pos, "unknown instruction %q", instr.Name)
	}

	var f fields
	var err error

	if op.Operation.IsMemory() {
		err = a.memoryOperands(instr, op, &f)
	} else {
		err = a.operands(instr, op, &f)
	}

	if err != nil {
		return 0, err
	}

	imm, err := encodeImmediate(op.ImmKind, f.imm, op.Operation == arch.CSR)
	if err != nil {
		return 0, newError(f.immPos, "%s: %v", op.Name, err)
	}

	word := op.Match | encodeRegisters(f.dst, f.src1, f.src2) | imm

	// Immediates may overlap fixed opcode bits, as with shift amounts.
	if name := a.isa.decode(word); name != op.Name {
		return 0, newError(f.immPos, "%s: immediate %d conflicts with the instruction encoding", op.Name, f.imm)
	}

	return word, nil
}

// fields holds the operand values of a single instruction.
type fields struct {
	dst, src1, src2 uint32
	imm             int64
	immPos          parser.Position
}

// memoryOperands reads the operands of a load or store.
func (a *assembler) memoryOperands(instr *parser.Instruction, op opcode, f *fields) error {
	if len(instr.Operands) != 2 {
		return newError(instr.Pos, "%s: invalid number of operands; expected 2, have %d", op.Name, len(instr.Operands))
	}

	reg, mem := instr.Operands[0], instr.Operands[1]

	if reg.Type != parser.Register {
		return newError(reg.Pos, "%s: expected register; have %s", op.Name, reg.Type)
	}

	if mem.Type != parser.Memory {
		return newError(mem.Pos, "%s: expected memory operand offset($base); have %s", op.Name, mem.Type)
	}

	if op.Dst == arch.RD {
		f.dst = uint32(reg.Value)
	} else {
		f.src2 = uint32(reg.Value)
	}

	f.src1 = uint32(mem.Base)
	f.imm = normalize(mem.Value)
	f.immPos = mem.Pos
	return nil
}

// operands reads the operands of any instruction other than a load or store.
func (a *assembler) operands(instr *parser.Instruction, op opcode, f *fields) error {
	var regs []*uint32

	if op.Dst == arch.RD {
		regs = append(regs, &f.dst)
	}
	if op.Src1 == arch.RS1 {
		regs = append(regs, &f.src1)
	}
	if op.Src2 == arch.RS2 {
		regs = append(regs, &f.src2)
	}

	argc := len(regs)
	hasImm := op.ImmKind != arch.NoImmediate && op.ImmPrint != arch.PrintNone
	if hasImm {
		argc++
	}

	if len(instr.Operands) != argc {
		return newError(instr.Pos, "%s: invalid number of operands; expected %d, have %d", op.Name, argc, len(instr.Operands))
	}

	for i, reg := range regs {
		arg := instr.Operands[i]
		if arg.Type != parser.Register {
			return newError(arg.Pos, "%s: operand %d: expected register; have %s", op.Name, i+1, arg.Type)
		}
		*reg = uint32(arg.Value)
	}

	if !hasImm {
		return nil
	}

	arg := instr.Operands[len(regs)]
	f.immPos = arg.Pos

	switch arg.Type {
	case parser.Number:
		f.imm = normalize(arg.Value)

	case parser.LabelRef:
		if op.Operation != arch.Branch && op.Operation != arch.JumpAbsolute {
			return newError(arg.Pos, "%s: label operands are only valid for branches and jumps", op.Name)
		}

		target, ok := a.symbols[arg.Name]
		if !ok {
			return newError(arg.Pos, "%s: reference to undefined label %q", op.Name, arg.Name)
		}

		f.imm = int64(target - a.address)

	default:
		return newError(arg.Pos, "%s: operand %d: expected number or label; have %s", op.Name, len(regs)+1, arg.Type)
	}

	return nil
}
