// Package ar reads and writes assembled program archives.
//
// An archive is a gzip stream holding, in order: the magic header, the
// register width, the load address, the entrypoint, the debug section and
// the instruction image. All integers are little-endian.
package ar

import (
	"compress/gzip"
	"encoding/hex"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/hexaflex/rvsim/arch"
)

// magic identifies the archive format and its version.
const magic = "RVAR\x02"

// Archive is an assembled program, ready to be loaded at Base.
type Archive struct {
	Debug        Debug
	XLEN         arch.XLEN // Register width the program targets; 0 if unknown.
	Base         uint64
	Entrypoint   uint64
	Instructions []byte // Little-endian 32-bit instruction words.
}

// New returns an empty archive.
func New() *Archive {
	return &Archive{}
}

// End returns the address just past the instruction image.
func (a *Archive) End() uint64 {
	return a.Base + uint64(len(a.Instructions))
}

// Load replaces the archive contents with those read from r.
func (a *Archive) Load(r io.Reader) (err error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return errors.Wrap(err, "ar: not an archive")
	}
	defer gz.Close()
	defer recoverOnPanic(&err)

	dec := decoder{gz}
	if string(dec.raw(len(magic))) != magic {
		return errors.New("ar: unsupported archive header")
	}

	var xlen uint8
	dec.value(&xlen)
	a.XLEN = arch.XLEN(xlen)

	a.Base = dec.u64()
	a.Entrypoint = dec.u64()
	a.Debug.decode(dec)
	a.Instructions = dec.blob()
	return nil
}

// Save writes the archive to w.
func (a *Archive) Save(w io.Writer) (err error) {
	gz := gzip.NewWriter(w)
	defer func() {
		if cerr := gz.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "ar")
		}
	}()
	defer recoverOnPanic(&err)

	enc := encoder{gz}
	enc.raw([]byte(magic))
	enc.value(uint8(a.XLEN))
	enc.value(a.Base)
	enc.value(a.Entrypoint)
	a.Debug.encode(enc)
	enc.blob(a.Instructions)
	return nil
}

// recoverOnPanic converts a panicking codec failure into *err.
func recoverOnPanic(err *error) {
	switch x := recover().(type) {
	case nil:
	case runtime.Error:
		panic(x)
	case error:
		*err = errors.Wrap(x, "ar")
	default:
		*err = fmt.Errorf("ar: %v", x)
	}
}

func (a *Archive) String() string {
	var sb strings.Builder

	if a.XLEN != 0 {
		fmt.Fprintf(&sb, "%s, ", a.XLEN)
	}
	fmt.Fprintf(&sb, "base %08x, entry %08x, %d bytes\n", a.Base, a.Entrypoint, len(a.Instructions))

	for i, name := range a.Debug.Files {
		fmt.Fprintf(&sb, "file %d: %s\n", i, name)
	}

	for _, s := range a.Debug.Symbols {
		fmt.Fprintf(&sb, "%08x  %s:%d:%d", s.Address, a.Debug.File(&s), s.Line, s.Col)
		if s.Flags&Breakpoint != 0 {
			sb.WriteString(" break")
		}
		sb.WriteByte('\n')
	}

	if len(a.Instructions) > 0 {
		sb.WriteString(hex.Dump(a.Instructions))
	}

	return sb.String()
}
