package main

import (
	"os"
	"path/filepath"

	"golang.org/x/term"
)

// layout defines the listing column layout.
type layout struct {
	sourceColumn int  // Column at which source context starts.
	shortPaths   bool // Print only the base name of source files.
}

// defaultLayout is used when output does not go to a terminal.
var defaultLayout = layout{sourceColumn: 56}

// terminalLayout fits the listing to the terminal attached to f, if any.
func terminalLayout(f *os.File) layout {
	l := defaultLayout

	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return l
	}

	width, _, err := term.GetSize(fd)
	if err != nil {
		return l
	}

	return fitLayout(width)
}

// fitLayout returns the layout for a terminal of the given width.
func fitLayout(width int) layout {
	l := defaultLayout

	switch {
	case width < 80:
		l.sourceColumn = 0
		l.shortPaths = true
	case width < 120:
		l.sourceColumn = 48
		l.shortPaths = true
	}

	return l
}

// file returns the source file name as it should be printed.
func (l layout) file(path string) string {
	if l.shortPaths && path != "" {
		return filepath.Base(path)
	}
	return path
}
