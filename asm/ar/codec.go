package ar

import (
	"bytes"
	"encoding/binary"
	"io"
)

// decoder reads little-endian archive fields. Read failures panic and are
// turned back into errors by recoverOnPanic.
type decoder struct {
	r io.Reader
}

func (d decoder) value(v interface{}) {
	must(binary.Read(d.r, binary.LittleEndian, v))
}

func (d decoder) u32() uint32 {
	var v uint32
	d.value(&v)
	return v
}

func (d decoder) u64() uint64 {
	var v uint64
	d.value(&v)
	return v
}

// raw reads exactly n bytes.
func (d decoder) raw(n int) []byte {
	p := make([]byte, n)
	_, err := io.ReadFull(d.r, p)
	must(err)
	return p
}

// blob reads a length-prefixed byte slice. The buffer grows with the data
// actually read, so a bogus length ends in io.ErrUnexpectedEOF rather than
// a huge allocation.
func (d decoder) blob() []byte {
	n := int64(d.u32())

	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, d.r, n); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		panic(err)
	}

	return buf.Bytes()
}

// encoder is the counterpart to decoder.
type encoder struct {
	w io.Writer
}

func (e encoder) value(v interface{}) {
	must(binary.Write(e.w, binary.LittleEndian, v))
}

func (e encoder) raw(p []byte) {
	_, err := e.w.Write(p)
	must(err)
}

func (e encoder) blob(p []byte) {
	e.value(uint32(len(p)))
	e.raw(p)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
