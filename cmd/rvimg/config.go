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
	Inputs []string  // Raw input files, packed in order.
	Output string    // Target archive file.
	Base   uint64    // Load address of the first input byte.
	Entry  uint64    // Program entrypoint.
	XLEN   arch.XLEN // Register width recorded in the archive; 0 leaves it open.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config

	flag.Usage = func() {
		fmt.Printf("%s [options] <input files>\n", os.Args[0])
		flag.PrintDefaults()
	}

	base := flag.String("base", "0", "Load address of the image.")
	entry := flag.String("entry", "", "Entrypoint address. Defaults to the base address.")
	xlen := flag.Uint("xlen", 0, "Register width to record in the archive: 32 or 64. Left open by default.")
	flag.StringVar(&c.Output, "out", c.Output, "Output file to generate (Not optional).")
	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if len(c.Output) == 0 || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	c.Base = parseAddress("base", *base)
	c.Entry = c.Base
	if *entry != "" {
		c.Entry = parseAddress("entry", *entry)
	}

	if *xlen != 0 && *xlen != 32 && *xlen != 64 {
		fmt.Fprintf(os.Stderr, "invalid register width %d; expected 32 or 64\n", *xlen)
		os.Exit(1)
	}

	c.XLEN = arch.XLEN(*xlen)
	c.Inputs = flag.Args()
	return &c
}

// parseAddress parses an address flag value or exits with an error.
func parseAddress(name, value string) uint64 {
	addr, err := parser.ParseNumber(value)
	if err != nil || addr < 0 {
		fmt.Fprintf(os.Stderr, "invalid %s address %q\n", name, value)
		os.Exit(1)
	}
	return uint64(addr)
}
