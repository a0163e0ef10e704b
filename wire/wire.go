// Package wire implements the fixed-buffer, sticky-error (de)serialization
// primitive that every CIP request and response in this repo is built on.
//
// Both Encoder and Decoder operate over a caller-owned byte region and carry
// a monotonic cursor plus a sticky error flag: once a bounds violation
// occurs, every subsequent operation is a no-op that reports the same
// failure, so callers can write or read a whole structured message and check
// the error once at the end instead of after every field.
package wire

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrOverflow is returned once a write would exceed the buffer's capacity.
var ErrOverflow = errors.New("wire: write exceeds buffer capacity")

// ErrUnderflow is returned once a read would exceed the buffer's remaining bytes.
var ErrUnderflow = errors.New("wire: read exceeds buffer length")

// Encoder writes into a fixed-capacity byte slice supplied by the caller.
type Encoder struct {
	buf    []byte
	cursor int
	order  binary.ByteOrder
	err    error
}

// NewEncoder wraps buf for writing. order selects the endian used for
// multi-byte integers and floats; it has no effect on Write, which always
// copies bytes verbatim.
func NewEncoder(buf []byte, order binary.ByteOrder) *Encoder {
	return &Encoder{buf: buf, order: order}
}

// Err returns the sticky error, or nil if no write has overflowed the buffer.
func (e *Encoder) Err() error {
	return e.err
}

// Reset clears the cursor and the sticky error, reusing the backing buffer.
func (e *Encoder) Reset() {
	e.cursor = 0
	e.err = nil
}

// SerializedBuffer returns the prefix of the buffer written so far.
func (e *Encoder) SerializedBuffer() []byte {
	return e.buf[:e.cursor]
}

// Write copies p verbatim with no endian conversion (e.g. a literal tag or
// a string's raw bytes). It fails if the error flag is already set or if p
// would not fit in the remaining capacity.
func (e *Encoder) Write(p []byte) {
	if e.err != nil {
		return
	}
	if e.cursor+len(p) > len(e.buf) {
		e.err = ErrOverflow
		return
	}
	copy(e.buf[e.cursor:], p)
	e.cursor += len(p)
}

// Advance reserves n bytes without writing to them, leaving them as whatever
// the backing buffer already held.
func (e *Encoder) Advance(n int) {
	if e.err != nil {
		return
	}
	if e.cursor+n > len(e.buf) {
		e.err = ErrOverflow
		return
	}
	e.cursor += n
}

// WriteUint8 writes a single byte.
func (e *Encoder) WriteUint8(v uint8) {
	e.Write([]byte{v})
}

// WriteUint16 writes v using the encoder's configured endian.
func (e *Encoder) WriteUint16(v uint16) {
	var b [2]byte
	e.order.PutUint16(b[:], v)
	e.Write(b[:])
}

// WriteUint32 writes v using the encoder's configured endian.
func (e *Encoder) WriteUint32(v uint32) {
	var b [4]byte
	e.order.PutUint32(b[:], v)
	e.Write(b[:])
}

// WriteUint64 writes v using the encoder's configured endian.
func (e *Encoder) WriteUint64(v uint64) {
	var b [8]byte
	e.order.PutUint64(b[:], v)
	e.Write(b[:])
}

// WriteFloat32 writes the IEEE-754 bit pattern of v using the configured endian.
func (e *Encoder) WriteFloat32(v float32) {
	e.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes the IEEE-754 bit pattern of v using the configured endian.
func (e *Encoder) WriteFloat64(v float64) {
	e.WriteUint64(math.Float64bits(v))
}

// Decoder reads from a fixed-capacity byte slice supplied by the caller.
type Decoder struct {
	buf    []byte
	cursor int
	order  binary.ByteOrder
	err    error
}

// NewDecoder wraps buf for reading.
func NewDecoder(buf []byte, order binary.ByteOrder) *Decoder {
	return &Decoder{buf: buf, order: order}
}

// Err returns the sticky error, or nil if no read has underflowed the buffer.
func (d *Decoder) Err() error {
	return d.err
}

// Reset repositions the cursor to the start of buf and clears the error.
func (d *Decoder) Reset(buf []byte) {
	d.buf = buf
	d.cursor = 0
	d.err = nil
}

// RemainingBuffer exposes the unread suffix of the buffer.
func (d *Decoder) RemainingBuffer() []byte {
	return d.buf[d.cursor:]
}

// Read copies len(dst) bytes forward into dst. On underflow the error flag
// becomes sticky and dst is left zeroed, but the decoder never indexes past
// the end of its buffer.
func (d *Decoder) Read(dst []byte) {
	if d.err != nil {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	if d.cursor+len(dst) > len(d.buf) {
		d.err = ErrUnderflow
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	copy(dst, d.buf[d.cursor:])
	d.cursor += len(dst)
}

// Advance skips n bytes without returning them.
func (d *Decoder) Advance(n int) {
	if d.err != nil {
		return
	}
	if d.cursor+n > len(d.buf) {
		d.err = ErrUnderflow
		return
	}
	d.cursor += n
}

// ReadUint8 reads a single byte, or 0 once the decoder has errored.
func (d *Decoder) ReadUint8() uint8 {
	var b [1]byte
	d.Read(b[:])
	return b[0]
}

// ReadUint16 reads a uint16 using the decoder's configured endian.
func (d *Decoder) ReadUint16() uint16 {
	var b [2]byte
	d.Read(b[:])
	if d.err != nil {
		return 0
	}
	return d.order.Uint16(b[:])
}

// ReadUint32 reads a uint32 using the decoder's configured endian.
func (d *Decoder) ReadUint32() uint32 {
	var b [4]byte
	d.Read(b[:])
	if d.err != nil {
		return 0
	}
	return d.order.Uint32(b[:])
}

// ReadUint64 reads a uint64 using the decoder's configured endian.
func (d *Decoder) ReadUint64() uint64 {
	var b [8]byte
	d.Read(b[:])
	if d.err != nil {
		return 0
	}
	return d.order.Uint64(b[:])
}

// ReadFloat32 reads an IEEE-754 float32 using the decoder's configured endian.
func (d *Decoder) ReadFloat32() float32 {
	return math.Float32frombits(d.ReadUint32())
}

// ReadFloat64 reads an IEEE-754 float64 using the decoder's configured endian.
func (d *Decoder) ReadFloat64() float64 {
	return math.Float64frombits(d.ReadUint64())
}
