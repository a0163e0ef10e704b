package eip

import "fmt"

// ExplicitTransport adapts an EipClient's connection-oriented SendRRData
// round trip to the two-call Send/Receive shape the reqctx package expects.
// Send wraps the CIP request in an unconnected data item and issues the
// SendRRData transaction immediately; Receive just hands back the CIP bytes
// already collected by Send. Calls on one ExplicitTransport are strictly
// serialized by the caller, same as reqctx.RequestContext requires.
type ExplicitTransport struct {
	client  *EipClient
	pending []byte
	sendErr error
}

// NewExplicitTransport wraps client for use as a reqctx.Transport.
func NewExplicitTransport(client *EipClient) *ExplicitTransport {
	return &ExplicitTransport{client: client}
}

// Send issues one SendRRData transaction carrying data as an unconnected
// message request item, and stashes the reply's data item for the
// following Receive call.
func (t *ExplicitTransport) Send(data []byte) error {
	t.pending = nil
	t.sendErr = nil

	req := EipCommonPacket{
		Items: []EipCommonPacketItem{
			{TypeId: CpfAddressNullId, Length: 0},
			{TypeId: CpfUnconnectedMessageId, Length: uint16(len(data)), Data: data},
		},
	}

	resp, err := t.client.SendRRData(req)
	if err != nil {
		t.sendErr = err
		return err
	}

	for _, item := range resp.Items {
		if item.TypeId == CpfUnconnectedMessageId {
			t.pending = item.Data
			return nil
		}
	}
	t.sendErr = fmt.Errorf("eip: SendRRData reply carried no unconnected data item")
	return t.sendErr
}

// Receive copies the CIP reply bytes captured by the prior Send into buf.
func (t *ExplicitTransport) Receive(buf []byte) (int, error) {
	if t.sendErr != nil {
		return 0, t.sendErr
	}
	if len(t.pending) > len(buf) {
		return len(t.pending), nil
	}
	copy(buf, t.pending)
	return len(t.pending), nil
}
