package taginfo

import "testing"

func TestArraySizeNonBool(t *testing.T) {
	got := ArraySize([]uint32{3, 4}, Dint, 4)
	want := uint32(3 * 4 * 4)
	if got != want {
		t.Fatalf("ArraySize: want %d, got %d", want, got)
	}
}

func TestArraySizeBoolBoundaries(t *testing.T) {
	cases := []struct {
		p    uint32
		want uint32
	}{
		{1, 2},
		{7, 2},
		{8, 2},
		{9, 2},
		{15, 2},
		{16, 2},
		{17, 4},
		{31, 4},
		{32, 4},
		{33, 6},
	}
	for _, c := range cases {
		got := ArraySize([]uint32{c.p}, Bool, 1)
		if got != c.want {
			t.Fatalf("ArraySize(P=%d): want %d, got %d", c.p, c.want, got)
		}
	}
}

func TestDataTypeStringKnownAndUnknown(t *testing.T) {
	if Dint.String() != "DINT" {
		t.Fatalf("expected DINT, got %s", Dint.String())
	}
	unknown := DataType(0x77)
	if IsRecognized(byte(unknown)) {
		t.Fatalf("0x77 should not be recognized")
	}
	if got := unknown.String(); got != "Unknown(0x77)" {
		t.Fatalf("unexpected unknown string: %s", got)
	}
}

func TestDintByteValueMatchesWireConstant(t *testing.T) {
	if Dint != 0xC4 {
		t.Fatalf("Dint must be 0xC4 per scenario S2, got 0x%02X", byte(Dint))
	}
}
