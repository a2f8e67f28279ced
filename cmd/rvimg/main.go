package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/hexaflex/rvsim/asm/ar"
	"github.com/hexaflex/rvsim/cpu"
)

func main() {
	config := parseArgs()

	arc, err := pack(config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := writeArchive(config.Output, arc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log.Printf("wrote %d bytes at %08x to %s", len(arc.Instructions), arc.Base, config.Output)
}

// pack concatenates the input files into a single archive.
// Each file starts on a word boundary.
func pack(c *Config) (*ar.Archive, error) {
	if c.Base%cpu.InstructionSize != 0 {
		return nil, errors.Errorf("base address %x is not word aligned", c.Base)
	}

	arc := ar.New()
	arc.Base = c.Base
	arc.Entrypoint = c.Entry
	arc.XLEN = c.XLEN

	for _, file := range c.Inputs {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", file)
		}

		arc.Instructions = append(arc.Instructions, data...)
		for len(arc.Instructions)%cpu.InstructionSize != 0 {
			arc.Instructions = append(arc.Instructions, 0)
		}
	}

	if arc.Entrypoint < arc.Base || arc.Entrypoint >= arc.End() {
		return nil, errors.Errorf("entrypoint %x lies outside of the image [%x, %x)", arc.Entrypoint, arc.Base, arc.End())
	}

	return arc, nil
}

// writeArchive saves the archive to the given file.
func writeArchive(file string, arc *ar.Archive) error {
	// Ensure the target directory exists.
	if dir, _ := filepath.Split(file); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	fd, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := arc.Save(fd); err != nil {
		fd.Close()
		return err
	}

	return fd.Close()
}
