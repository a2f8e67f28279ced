package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/hexaflex/rvsim/asm"
)

func main() {
	if err := run(parseArgs()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *Config) error {
	if c.DumpAST {
		return dumpAST(c)
	}

	arc, err := asm.Build(asm.Options{
		Base:  c.Base,
		XLEN:  c.XLEN,
		Debug: c.DebugBuild,
	}, c.Inputs...)
	if err != nil {
		return err
	}

	if c.DumpArchive {
		fmt.Print(arc)
		return nil
	}

	return writeOutput(c.Output, arc.Save)
}

// dumpAST prints the program listing, followed by its full parsed structure.
func dumpAST(c *Config) error {
	prog, err := asm.BuildProgram(c.Inputs...)
	if err != nil {
		return err
	}

	fmt.Println(prog)

	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		DisableMethods:          true,
	}
	cfg.Fdump(os.Stdout, prog)
	return nil
}

// writeOutput hands save a writer for the given path. An empty path or "-"
// selects stdout. Missing parent directories are created.
func writeOutput(path string, save func(io.Writer) error) error {
	if path == "" || path == "-" {
		return save(os.Stdout)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	fd, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := save(fd); err != nil {
		fd.Close()
		return err
	}

	return errors.Wrapf(fd.Close(), "write %s", path)
}
