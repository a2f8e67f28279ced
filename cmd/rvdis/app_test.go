package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hexaflex/rvsim/arch"
	"github.com/hexaflex/rvsim/asm"
)

const listingSource = `	addi $1, $0, 10
:main
	ld $1, 8($2)
	break
	ecall
`

// writeProgram assembles listingSource for RV64 and saves it with the
// given register width recorded in the archive.
func writeProgram(t *testing.T, xlen arch.XLEN) (string, string) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.s")

	arc, err := asm.AssembleReader(strings.NewReader(listingSource), src, asm.Options{
		Base:  0x1000,
		XLEN:  arch.RV64,
		Debug: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	arc.XLEN = xlen

	out := filepath.Join(dir, "prog.a")
	fd, err := os.Create(out)
	if err != nil {
		t.Fatal(err)
	}
	if err := arc.Save(fd); err != nil {
		t.Fatal(err)
	}
	if err := fd.Close(); err != nil {
		t.Fatal(err)
	}

	return out, src
}

func listing(t *testing.T, c *Config) []string {
	var buf bytes.Buffer

	app := NewApp(c)
	app.out = &buf
	app.layout = defaultLayout

	if err := app.Run(); err != nil {
		t.Fatal(err)
	}

	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestListing(t *testing.T) {
	file, src := writeProgram(t, arch.RV64)
	lines := listing(t, &Config{Input: file, Source: true})

	want := []struct {
		prefix string
		source string
	}{
		{"00001000   00a00093  addi $1, $0, 10", ":1:2"},
		{"00001004>  00813083  ld $1, 0x8($2)", ":3:2"},
		{"00001008 * 00000073  ecall", ":5:2"},
	}

	if len(lines) != len(want) {
		t.Fatalf("want %d lines; have:\n%s", len(want), strings.Join(lines, "\n"))
	}

	for i, v := range want {
		if !strings.HasPrefix(lines[i], v.prefix) {
			t.Fatalf("line %d:\nwant: %q\nhave: %q", i, v.prefix, lines[i])
		}
		if !strings.HasSuffix(lines[i], " ; "+src+v.source) {
			t.Fatalf("line %d: missing source context %s%s: %q", i, src, v.source, lines[i])
		}
	}
}

func TestListingWidth(t *testing.T) {
	file, _ := writeProgram(t, arch.RV32)

	// The archive's width applies unless one is requested.
	lines := listing(t, &Config{Input: file})
	if !strings.HasPrefix(lines[1], "00001004>  00813083  unknown") {
		t.Fatalf("RV32 archive must not decode ld: %q", lines[1])
	}

	lines = listing(t, &Config{Input: file, XLEN: arch.RV64})
	if !strings.HasPrefix(lines[1], "00001004>  00813083  ld $1, 0x8($2)") {
		t.Fatalf("-xlen 64 must override the archive: %q", lines[1])
	}

	for _, line := range lines {
		if strings.Contains(line, " ; ") {
			t.Fatalf("source context printed without being asked for: %q", line)
		}
	}
}

func TestListingRaw(t *testing.T) {
	file := filepath.Join(t.TempDir(), "image.bin")
	if err := os.WriteFile(file, []byte{0x13, 0, 0, 0, 0x73, 0, 0, 0}, 0644); err != nil {
		t.Fatal(err)
	}

	lines := listing(t, &Config{Input: file, Raw: true, Base: 0x80000000, XLEN: arch.RV32, Stats: true})

	if lines[0] != "80000000>  00000013  addi $0, $0, 0" || lines[1] != "80000004   00000073  ecall" {
		t.Fatalf("unexpected listing:\n%s", strings.Join(lines, "\n"))
	}
	if !strings.Contains(strings.Join(lines, "\n"), "2 instructions, 0 unknown") {
		t.Fatalf("missing statistics:\n%s", strings.Join(lines, "\n"))
	}
}
