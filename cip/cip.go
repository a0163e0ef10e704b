// Package cip implements CIP explicit-message request paths, request
// encoding, and the reply envelope used by this repo's Omron tag scanner.
package cip

import (
	"encoding/binary"

	"github.com/omrontag/tagscan/wire"
)

// Service codes used by this repo. Named constants avoid magic numbers at
// call sites; see epath.go for path segment markers.
const (
	SvcGetAttributeAll     byte = 0x01
	SvcGetAttributeSingle  byte = 0x0E
	SvcOmronGetAllInstances byte = 0x5F

	ClassSymbolTable byte = 0x6A
)

// Request is a single CIP explicit-message request: a service code, an
// address path, and service-specific data.
type Request struct {
	Service byte
	Path    EPath_t
	Data    []byte
}

// Marshal produces the wire bytes for the request: service, path word
// length, path, then data.
func (r Request) Marshal() []byte {
	path := r.Path
	out := make([]byte, 0, 2+len(path)+len(r.Data))
	out = append(out, r.Service)
	out = append(out, r.Path.WordLen())
	out = append(out, path...)
	out = append(out, r.Data...)
	return out
}

// Response is a decoded CIP explicit-message reply envelope.
type Response struct {
	ReplyService     byte
	GeneralStatus    byte
	AdditionalStatus []uint16
	Data             []byte
}

// DecodeResponse consumes the CIP reply envelope from buf: reply service,
// one reserved byte, general status, extended status word count, then that
// many 16-bit extended status words. The remainder of buf becomes Data.
//
// It reports an error only if the underlying decoder's sticky error flag
// is set once the envelope has been fully consumed (a truncated buffer);
// a non-zero GeneralStatus is not itself an error here, it is surfaced to
// the caller as data for them to classify (see the reqctx package).
func DecodeResponse(buf []byte) (Response, error) {
	d := wire.NewDecoder(buf, binary.LittleEndian)

	var resp Response
	resp.ReplyService = d.ReadUint8()
	d.Advance(1) // reserved
	resp.GeneralStatus = d.ReadUint8()
	wordCount := d.ReadUint8()

	resp.AdditionalStatus = make([]uint16, 0, wordCount)
	for i := byte(0); i < wordCount; i++ {
		resp.AdditionalStatus = append(resp.AdditionalStatus, d.ReadUint16())
	}

	if err := d.Err(); err != nil {
		return Response{}, err
	}

	resp.Data = append([]byte(nil), d.RemainingBuffer()...)
	return resp, nil
}
