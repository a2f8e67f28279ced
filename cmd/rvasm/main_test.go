package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hexaflex/rvsim/arch"
	"github.com/hexaflex/rvsim/asm/ar"
)

func writeSource(t *testing.T, dir, name, src string) string {
	file := filepath.Join(dir, name)
	if err := os.WriteFile(file, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.s", ":_start\n\taddi $1, $0, 1\n")
	b := writeSource(t, dir, "b.s", "break\n\tjal $0, _start\n")
	out := filepath.Join(dir, "build", "prog.a")

	err := run(&Config{
		Inputs:     []string{a, b},
		Output:     out,
		Base:       0x80000000,
		XLEN:       arch.RV32,
		DebugBuild: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	fd, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer fd.Close()

	arc := ar.New()
	if err := arc.Load(fd); err != nil {
		t.Fatal(err)
	}

	if arc.XLEN != arch.RV32 || arc.Base != 0x80000000 || arc.Entrypoint != 0x80000000 || len(arc.Instructions) != 8 {
		t.Fatalf("unexpected archive:\n%s", arc)
	}

	if len(arc.Debug.Files) != 2 || len(arc.Debug.Symbols) != 2 {
		t.Fatalf("want 2 files and 2 symbols; have %v, %d", arc.Debug.Files, len(arc.Debug.Symbols))
	}

	sym := arc.Debug.Find(0x80000004)
	if sym == nil || sym.Flags&ar.Breakpoint == 0 || arc.Debug.File(sym) != b {
		t.Fatalf("unexpected symbol for the jump: %+v", sym)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "prog.a")

	for _, c := range []*Config{
		{Inputs: []string{writeSource(t, dir, "bad.s", "addi $1, $0\n")}, Output: out},
		{Inputs: []string{writeSource(t, dir, "wide.s", "ld $1, 0($2)\n")}, Output: out, XLEN: arch.RV32},
		{Inputs: []string{filepath.Join(dir, "missing.s")}, Output: out},
	} {
		if err := run(c); err == nil {
			t.Fatalf("%v: expected an error", c.Inputs)
		}
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("a failed build must not write output")
	}
}
