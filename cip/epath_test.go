package cip

import "testing"

func TestSymbolPadsOddLengthNamesToEvenLength(t *testing.T) {
	path, err := EPath().Symbol("Ctr").Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	// header(2) + name(3) = 5 bytes, odd, so a trailing 0x00 pad is added.
	want := EPath_t{0x91, 0x03, 'C', 't', 'r', 0x00}
	if len(path) != len(want) {
		t.Fatalf("path = % x, want % x", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = % x, want % x", path, want)
		}
	}
}

func TestSymbolLeavesEvenLengthNamesUnpadded(t *testing.T) {
	path, err := EPath().Symbol("Ctr2").Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	// header(2) + name(4) = 6 bytes, already even, no pad byte appended.
	want := EPath_t{0x91, 0x04, 'C', 't', 'r', '2'}
	if len(path) != len(want) {
		t.Fatalf("path = % x, want % x (no padding expected)", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = % x, want % x", path, want)
		}
	}
}

func TestClassInstance16BuildsSixByteLogicalPath(t *testing.T) {
	path, err := EPath().Class(0x6A).Instance16(0).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	want := EPath_t{0x20, 0x6A, 0x25, 0x00, 0x00, 0x00}
	if len(path) != len(want) {
		t.Fatalf("path = % x, want % x", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = % x, want % x", path, want)
		}
	}
}

func TestSymbolRejectsEmptyName(t *testing.T) {
	_, err := EPath().Symbol("").Build()
	if err == nil {
		t.Fatal("expected an error for an empty tag name")
	}
}
