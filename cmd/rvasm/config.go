package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hexaflex/rvsim/arch"
	"github.com/hexaflex/rvsim/asm/parser"
)

// Config defines program configuration.
type Config struct {
	Inputs      []string  // Input source files to build, in order.
	Output      string    // Path to store output in.
	Base        uint64    // Load address of the first instruction.
	XLEN        arch.XLEN // Register width selecting the instruction set.
	DebugBuild  bool      // Include debug symbols in build?
	DumpAST     bool      // Print a dump of the parsed program.
	DumpArchive bool      // Print a human-readable dump of the compiled archive and exit.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.Output = "out.a"

	flag.Usage = func() {
		fmt.Printf("%s [options] <input source files>\n", os.Args[0])
		flag.PrintDefaults()
	}

	base := flag.String("base", "0", "Load address of the first instruction. Accepts any assembler number syntax.")
	xlen := flag.Uint("xlen", 64, "Register width in bits: 32 or 64.")
	flag.StringVar(&c.Output, "out", c.Output, "Output file.")
	flag.BoolVar(&c.DebugBuild, "debug", c.DebugBuild, "Include debug symbols and breakpoints in the build.")
	flag.BoolVar(&c.DumpAST, "dump-ast", c.DumpAST, "Print a dump of the parsed program to stdout.")
	flag.BoolVar(&c.DumpArchive, "dump-ar", c.DumpArchive, "Print a human-readable version of the compiled binary to stdout.")
	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	addr, err := parser.ParseNumber(*base)
	if err != nil || addr < 0 {
		fmt.Fprintf(os.Stderr, "invalid base address %q\n", *base)
		os.Exit(1)
	}

	if *xlen != 32 && *xlen != 64 {
		fmt.Fprintf(os.Stderr, "invalid register width %d; expected 32 or 64\n", *xlen)
		os.Exit(1)
	}

	c.Base = uint64(addr)
	c.XLEN = arch.XLEN(*xlen)
	c.Inputs = flag.Args()
	return &c
}
