package arch

import "testing"

func TestRegisterIndex(t *testing.T) {
	for _, v := range []struct {
		name string
		want int
	}{
		{"$0", 0},
		{"$31", 31},
		{"x5", 5},
		{"X12", 12},
		{"zero", 0},
		{"ra", 1},
		{"sp", 2},
		{"fp", 8},
		{"s0", 8},
		{"a0", 10},
		{"t6", 31},
		{"$32", -1},
		{"x-1", -1},
		{"$+1", -1},
		{"$", -1},
		{"r0", -1},
		{"loop", -1},
	} {
		if have := RegisterIndex(v.name); have != v.want {
			t.Fatalf("RegisterIndex(%q): want %d; have %d", v.name, v.want, have)
		}
	}
}

func TestRegisterName(t *testing.T) {
	for i := 0; i < RegisterCount; i++ {
		name := RegisterName(i)
		if RegisterIndex(name) != i {
			t.Fatalf("register %d: name %q does not map back", i, name)
		}
	}

	if RegisterName(-1) != "" || RegisterName(RegisterCount) != "" {
		t.Fatal("out of range indices must yield an empty name")
	}
}
