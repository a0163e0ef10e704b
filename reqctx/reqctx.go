// Package reqctx implements the request context: the single point where a
// transport handle, a send buffer, a receive buffer, and the CIP envelope
// codec meet. Every CIP request made by this repo's enumeration and tag
// info decoder goes through one RequestContext.
package reqctx

import (
	"encoding/binary"

	"github.com/omrontag/tagscan/cip"
	"github.com/omrontag/tagscan/scanerr"
	"github.com/omrontag/tagscan/wire"
)

// Transport is the downstream collaborator: send one CIP payload, get one
// response payload. Session registration, forward-open, and TCP socket
// management are its concern, not this package's.
type Transport interface {
	Send(data []byte) error
	// Receive reads into buf and returns the number of bytes written. If
	// the underlying response is larger than len(buf), it returns a size
	// greater than len(buf) rather than truncating.
	Receive(buf []byte) (int, error)
}

// DefaultSendBufferSize and DefaultRecvBufferSize size the fixed buffers a
// RequestContext allocates when the caller doesn't supply its own.
const (
	DefaultSendBufferSize = 512
	DefaultRecvBufferSize = 4096
)

// RequestContext couples a Transport with reusable send/receive buffers.
// Requests on one context are strictly serialized: the next Request must
// not begin until the previous one has been fully consumed, since the
// buffers are reused in place.
type RequestContext struct {
	transport Transport
	sendBuf   []byte
	recvBuf   []byte
}

// New creates a RequestContext over transport with the default buffer sizes.
func New(transport Transport) *RequestContext {
	return NewWithBuffers(transport, make([]byte, DefaultSendBufferSize), make([]byte, DefaultRecvBufferSize))
}

// NewWithBuffers creates a RequestContext over transport using caller-owned
// send and receive buffers.
func NewWithBuffers(transport Transport, sendBuf, recvBuf []byte) *RequestContext {
	return &RequestContext{transport: transport, sendBuf: sendBuf, recvBuf: recvBuf}
}

// Request encodes a CIP request with the given service, path, and data,
// sends it, receives the response, validates the CIP general status, and
// returns the decoded envelope positioned at the payload.
//
// A non-zero general status is surfaced as a *scanerr.CipStatusError, a
// transport failure as *scanerr.TransportError, a response larger than the
// receive buffer as *scanerr.BufferOverflow, and a truncated or otherwise
// inconsistent envelope as *scanerr.DecodeError.
func (r *RequestContext) Request(service byte, path cip.EPath_t, data []byte) (cip.Response, error) {
	enc := wire.NewEncoder(r.sendBuf, binary.LittleEndian)
	req := cip.Request{Service: service, Path: path, Data: data}
	enc.Write(req.Marshal())
	if enc.Err() != nil {
		return cip.Response{}, &scanerr.BufferOverflow{
			NeededBytes:   len(req.Marshal()),
			CapacityBytes: len(r.sendBuf),
		}
	}

	if err := r.transport.Send(enc.SerializedBuffer()); err != nil {
		return cip.Response{}, &scanerr.TransportError{Op: "send", Err: err}
	}

	n, err := r.transport.Receive(r.recvBuf)
	if err != nil {
		return cip.Response{}, &scanerr.TransportError{Op: "receive", Err: err}
	}
	if n > len(r.recvBuf) {
		return cip.Response{}, &scanerr.BufferOverflow{NeededBytes: n, CapacityBytes: len(r.recvBuf)}
	}

	resp, err := cip.DecodeResponse(r.recvBuf[:n])
	if err != nil {
		return cip.Response{}, &scanerr.DecodeError{Record: "cip envelope", Reason: err.Error()}
	}

	if resp.GeneralStatus != 0 {
		extBytes := make([]byte, 0, len(resp.AdditionalStatus)*2)
		for _, w := range resp.AdditionalStatus {
			extBytes = append(extBytes, byte(w), byte(w>>8))
		}
		return cip.Response{}, &scanerr.CipStatusError{
			GeneralStatus:  resp.GeneralStatus,
			ExtendedStatus: extBytes,
		}
	}

	return resp, nil
}
