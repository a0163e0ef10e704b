package wire

import (
	"encoding/binary"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		width int
		write func(e *Encoder, v uint64)
		read  func(d *Decoder) uint64
	}{
		{"uint8", 1, func(e *Encoder, v uint64) { e.WriteUint8(uint8(v)) }, func(d *Decoder) uint64 { return uint64(d.ReadUint8()) }},
		{"uint16", 2, func(e *Encoder, v uint64) { e.WriteUint16(uint16(v)) }, func(d *Decoder) uint64 { return uint64(d.ReadUint16()) }},
		{"uint32", 4, func(e *Encoder, v uint64) { e.WriteUint32(uint32(v)) }, func(d *Decoder) uint64 { return uint64(d.ReadUint32()) }},
		{"uint64", 8, func(e *Encoder, v uint64) { e.WriteUint64(v) }, func(d *Decoder) uint64 { return d.ReadUint64() }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			buf := make([]byte, c.width)
			enc := NewEncoder(buf, binary.LittleEndian)
			x := uint64(0x0102030405060708) &^ (^uint64(0) << (uint(c.width) * 8))
			if c.width == 8 {
				x = 0x0102030405060708
			}
			c.write(enc, x)
			if enc.Err() != nil {
				t.Fatalf("encode: unexpected error: %v", enc.Err())
			}

			dec := NewDecoder(enc.SerializedBuffer(), binary.LittleEndian)
			got := c.read(dec)
			if dec.Err() != nil {
				t.Fatalf("decode: unexpected error: %v", dec.Err())
			}
			if got != x {
				t.Fatalf("round trip: want %x, got %x", x, got)
			}
		})
	}
}

func TestEncoderBoundedSticky(t *testing.T) {
	buf := make([]byte, 3)
	enc := NewEncoder(buf, binary.LittleEndian)

	enc.WriteUint16(0xAABB)
	if enc.Err() != nil {
		t.Fatalf("unexpected error after fitting write: %v", enc.Err())
	}

	enc.WriteUint16(0xCCDD) // only 1 byte remains, needs 2
	if enc.Err() == nil {
		t.Fatalf("expected sticky overflow error")
	}
	cursorAfterFailure := enc.cursor

	enc.WriteUint8(0x01)
	if enc.Err() == nil {
		t.Fatalf("expected write after failure to also fail")
	}
	if enc.cursor != cursorAfterFailure {
		t.Fatalf("cursor moved after sticky error: before=%d after=%d", cursorAfterFailure, enc.cursor)
	}
}

func TestDecoderBoundedSticky(t *testing.T) {
	buf := []byte{0x01, 0x02}
	dec := NewDecoder(buf, binary.LittleEndian)

	dec.ReadUint16()
	if dec.Err() != nil {
		t.Fatalf("unexpected error after fitting read: %v", dec.Err())
	}

	v := dec.ReadUint8()
	if dec.Err() == nil {
		t.Fatalf("expected sticky underflow error")
	}
	if v != 0 {
		t.Fatalf("expected zero-valued output after underflow, got %d", v)
	}
}

func TestResetClearsStateAndReusesBuffer(t *testing.T) {
	buf := make([]byte, 2)
	enc := NewEncoder(buf, binary.LittleEndian)
	enc.WriteUint16(0xFFFF)
	enc.WriteUint8(0x01) // overflow, sticky
	if enc.Err() == nil {
		t.Fatalf("expected sticky error before reset")
	}
	enc.Reset()
	if enc.Err() != nil {
		t.Fatalf("expected clear error after reset")
	}
	enc.WriteUint16(0x1234)
	if enc.Err() != nil {
		t.Fatalf("unexpected error after reset and rewrite: %v", enc.Err())
	}
}

func TestLiteralWriteNoEndianConversion(t *testing.T) {
	buf := make([]byte, 4)
	enc := NewEncoder(buf, binary.BigEndian)
	enc.Write([]byte{0x20, 0x6A, 0x25, 0x00})
	if enc.Err() != nil {
		t.Fatalf("unexpected error: %v", enc.Err())
	}
	got := enc.SerializedBuffer()
	want := []byte{0x20, 0x6A, 0x25, 0x00}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("literal write altered bytes: got %x want %x", got, want)
		}
	}
}
