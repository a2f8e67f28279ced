package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/hexaflex/rvsim/arch"
	"github.com/hexaflex/rvsim/asm/ar"
	"github.com/hexaflex/rvsim/cpu"
)

// App defines application context.
type App struct {
	config  *Config     // Application configuration.
	archive *ar.Archive // Program being disassembled.
	out     io.Writer   // Listing output.
	layout  layout      // Listing column layout.
	stats   *Stats      // Optional instruction statistics.
}

// NewApp creates a new application instance using the given configuration.
func NewApp(config *Config) *App {
	return &App{
		config: config,
		out:    os.Stdout,
		layout: terminalLayout(os.Stdout),
	}
}

// Run loads the program and writes its listing.
func (a *App) Run() error {
	if err := a.loadProgram(); err != nil {
		return err
	}

	if a.config.Stats {
		a.stats = NewStats()
	}

	var err error
	switch a.xlen() {
	case arch.RV32:
		err = disassemble(a, cpu.RV32())
	default:
		err = disassemble(a, cpu.RV64())
	}

	if err != nil {
		return err
	}

	if a.stats != nil {
		a.stats.Print(a.out)
	}

	return nil
}

// xlen returns the register width to decode with: the one requested on the
// command line, else the one recorded in the archive, else RV64.
func (a *App) xlen() arch.XLEN {
	switch {
	case a.config.XLEN != 0:
		return a.config.XLEN
	case a.archive.XLEN != 0:
		return a.archive.XLEN
	}
	return arch.RV64
}

// loadProgram loads the program from disk.
func (a *App) loadProgram() error {
	log.Println("loading", a.config.Input)

	fd, err := os.Open(a.config.Input)
	if err != nil {
		return err
	}

	defer fd.Close()

	arc := ar.New()

	if a.config.Raw {
		arc.Base = a.config.Base
		arc.Entrypoint = a.config.Base
		arc.Instructions, err = io.ReadAll(fd)
		if err != nil {
			return errors.Wrapf(err, "read %s", a.config.Input)
		}
	} else if err = arc.Load(fd); err != nil {
		return err
	}

	a.archive = arc
	return nil
}

// disassemble walks the loaded program and prints every instruction.
// When statistics are requested, they are gathered by execution hooks
// installed in a private catalog.
func disassemble[T cpu.Register](a *App, c *cpu.Catalog[T]) error {
	if a.stats != nil {
		var err error
		if c, err = cpu.NewCatalog(statsHooks(a.stats, c)); err != nil {
			return err
		}
	}

	m := cpu.NewMemory(a.archive.Base, a.archive.Instructions)
	if !m.Contains(a.archive.Entrypoint) {
		log.Printf("entrypoint %08x lies outside of the image [%08x, %08x)", a.archive.Entrypoint, m.Base, m.End())
	}

	return cpu.Walk(c, m, func(i *cpu.Instruction[T]) error {
		i.Execute(i)

		if a.stats != nil && i.IsUnknown() {
			a.stats.recordUnknown()
		}

		a.printTrace(uint64(i.PC), i.Word, i.Disasm())

		if a.config.Dump {
			a.dump(i)
		}
		return nil
	})
}

// printTrace prints a single listing line. The entrypoint is marked with
// '>' and instructions carrying a breakpoint with '*', after their address.
func (a *App) printTrace(pc uint64, word uint32, text string) {
	var sb strings.Builder
	sb.Grow(120)

	dbg := a.archive.Debug.Find(pc)

	entry, mark := ' ', ' '
	if pc == a.archive.Entrypoint {
		entry = '>'
	}
	if dbg != nil && dbg.Flags&ar.Breakpoint != 0 {
		mark = '*'
	}

	fmt.Fprintf(&sb, "%08x%c%c %08x  %s", pc, entry, mark, word, text)

	// Add source context if it is available.
	if a.config.Source && dbg != nil {
		pad(&sb, a.layout.sourceColumn)
		fmt.Fprintf(&sb, " ; %s:%d:%d", a.layout.file(a.archive.Debug.File(dbg)), dbg.Line, dbg.Col)
	}

	fmt.Fprintln(a.out, sb.String())
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableMethods:          true,
}

// dump writes the full decoded instruction structure.
func (a *App) dump(v interface{}) {
	dumper.Fdump(a.out, v)
}

// pad padds sb with spaces until it reaches the given size.
var pad = func() func(*strings.Builder, int) {
	set := strings.Repeat(" ", 120)
	return func(sb *strings.Builder, size int) {
		if sb.Len() >= size {
			return
		}
		if size > len(set) {
			size = len(set)
		}
		if size < sb.Len() {
			size = sb.Len()
		}
		sb.WriteString(set[:size-sb.Len()])
	}
}()
