package taginfo

import (
	"encoding/binary"

	"github.com/omrontag/tagscan/cip"
	"github.com/omrontag/tagscan/scanerr"
	"github.com/omrontag/tagscan/wire"
)

// ArrayInfo describes an Array-typed tag's element type and shape.
type ArrayInfo struct {
	ElementType  DataType
	ElementSize  uint32
	Dimensions   []uint32
	StartIndices []uint32
}

// VariableInfo is the fully resolved type descriptor for one tag.
type VariableInfo struct {
	Name      string
	DataType  DataType
	Size      uint32
	ArrayInfo *ArrayInfo
}

// Requester issues one CIP request and returns its decoded response,
// positioned past the CIP envelope. It is implemented by the reqctx
// package; taginfo depends only on this narrow interface so it never
// needs to know about the transport or buffer lifetime.
type Requester interface {
	Request(service byte, path cip.EPath_t, data []byte) (cip.Response, error)
}

// Warner receives non-fatal warnings, e.g. an unrecognized DataType byte.
// A nil Warner silently drops warnings.
type Warner interface {
	Warnf(format string, args ...interface{})
}

// GetVariableInfo encodes a Get_Attribute_All request against name's
// symbolic path, issues it through r, and decodes the scalar (and, for
// Array tags, array) descriptor from the payload. See spec §4.4 for the
// exact wire layout this implements.
func GetVariableInfo(r Requester, name string, warn Warner) (VariableInfo, error) {
	path, err := cip.EPath().Symbol(name).Build()
	if err != nil {
		return VariableInfo{}, &scanerr.DecodeError{Record: "tag=" + name, Reason: err.Error()}
	}

	resp, err := r.Request(cip.SvcGetAttributeAll, path, nil)
	if err != nil {
		return VariableInfo{}, err
	}

	d := wire.NewDecoder(resp.Data, binary.LittleEndian)

	size := d.ReadUint32()
	dt := DataType(d.ReadUint8())
	if !IsRecognized(byte(dt)) && warn != nil {
		warn.Warnf("taginfo: tag %q has unrecognized data type byte 0x%02X", name, byte(dt))
	}

	v := VariableInfo{Name: name, DataType: dt, Size: size}

	if dt == Array {
		elemType := DataType(d.ReadUint8())
		if !IsRecognized(byte(elemType)) && warn != nil {
			warn.Warnf("taginfo: tag %q array element type byte 0x%02X unrecognized", name, byte(elemType))
		}
		elemSize := size

		numDims := d.ReadUint8()
		d.Advance(1) // padding
		if numDims < 1 {
			return VariableInfo{}, &scanerr.DecodeError{Record: "tag=" + name, Reason: "array tag reports zero dimensions"}
		}

		dims := make([]uint32, numDims)
		for i := range dims {
			dims[i] = d.ReadUint32()
		}

		d.Advance(8) // opaque
		d.ReadUint8()   // bit_number, discarded
		d.Advance(3)    // padding
		d.ReadUint32() // variable_type_instance_id, discarded

		starts := make([]uint32, numDims)
		for i := range starts {
			starts[i] = d.ReadUint32()
		}

		if d.Err() != nil {
			return VariableInfo{}, &scanerr.DecodeError{Record: "tag=" + name, Reason: d.Err().Error()}
		}

		v.ArrayInfo = &ArrayInfo{
			ElementType:  elemType,
			ElementSize:  elemSize,
			Dimensions:   dims,
			StartIndices: starts,
		}
		v.Size = ArraySize(dims, elemType, elemSize)
		return v, nil
	}

	if d.Err() != nil {
		return VariableInfo{}, &scanerr.DecodeError{Record: "tag=" + name, Reason: d.Err().Error()}
	}
	return v, nil
}

// ArraySize computes the in-memory byte size of an array tag. For Bool
// element types, elements are packed 16 to a word; see spec §4.4 for the
// exact boundary table this implements.
func ArraySize(dimensions []uint32, elementType DataType, elementSize uint32) uint32 {
	p := uint32(1)
	for _, n := range dimensions {
		p *= n
	}

	if elementType != Bool {
		return p * elementSize
	}

	fullBytes := p / 8
	remainder := p % 16
	switch {
	case remainder == 0:
		return fullBytes
	case remainder >= 8 && remainder < 16:
		return fullBytes + 1
	default: // 0 < remainder < 8
		return fullBytes + 2
	}
}
