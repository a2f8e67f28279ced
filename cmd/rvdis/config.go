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
	Input  string    // Path to the archive or raw image to load.
	XLEN   arch.XLEN // Register width selecting the instruction set; 0 uses the archive's.
	Base   uint64    // Load address for raw images.
	Raw    bool      // Is the input a flat little-endian image rather than an archive?
	Dump   bool      // Dump every decoded instruction structure?
	Stats  bool      // Print instruction statistics?
	Source bool      // Print source context from debug symbols?
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.Source = true

	flag.Usage = func() {
		fmt.Printf("%s [options] <archive or image file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	base := flag.String("base", "0", "Load address of a raw image. Accepts any assembler number syntax.")
	xlen := flag.Uint("xlen", 0, "Register width in bits: 32 or 64. Defaults to the width recorded in the archive, or 64.")
	flag.BoolVar(&c.Raw, "raw", c.Raw, "Treat the input as a raw little-endian image instead of an archive.")
	flag.BoolVar(&c.Dump, "dump", c.Dump, "Dump the full structure of every decoded instruction.")
	flag.BoolVar(&c.Stats, "stats", c.Stats, "Print per-instruction and per-operation counts.")
	flag.BoolVar(&c.Source, "source", c.Source, "Print source context when debug symbols are available.")
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

	if *xlen != 0 && *xlen != 32 && *xlen != 64 {
		fmt.Fprintf(os.Stderr, "invalid register width %d; expected 32 or 64\n", *xlen)
		os.Exit(1)
	}

	c.Base = uint64(addr)
	c.XLEN = arch.XLEN(*xlen)
	c.Input = flag.Arg(0)
	return &c
}
