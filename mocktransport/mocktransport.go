// Package mocktransport implements reqctx.Transport as a scripted sequence
// of request/response byte pairs, for exercising the enumeration and tag
// info decoders without a real EtherNet/IP session.
package mocktransport

import "fmt"

// Exchange holds the bytes to hand back on one Receive. The matching Send is
// recorded but not checked.
type Exchange struct {
	Response []byte
}

// Scripted replays a fixed sequence of responses, one per Send/Receive
// pair, in order. It does not validate the bytes sent, since spec.md's
// scenarios key off response sequencing, not request byte-matching.
type Scripted struct {
	exchanges []Exchange
	pos       int
	sent      [][]byte
}

// NewScripted creates a Scripted transport that will hand back each of
// responses in order, one per Send/Receive round trip.
func NewScripted(responses ...[]byte) *Scripted {
	s := &Scripted{}
	for _, r := range responses {
		s.exchanges = append(s.exchanges, Exchange{Response: r})
	}
	return s
}

// Sent returns every payload previously passed to Send, in order.
func (s *Scripted) Sent() [][]byte {
	return s.sent
}

// Send records data and always succeeds.
func (s *Scripted) Send(data []byte) error {
	cp := append([]byte(nil), data...)
	s.sent = append(s.sent, cp)
	return nil
}

// Receive copies the next scripted response into buf and returns its
// length, or a length greater than len(buf) if it doesn't fit, matching
// the real transport's too-small-buffer signal.
func (s *Scripted) Receive(buf []byte) (int, error) {
	if s.pos >= len(s.exchanges) {
		return 0, fmt.Errorf("mocktransport: no more scripted responses (asked for exchange %d)", s.pos)
	}
	resp := s.exchanges[s.pos].Response
	s.pos++
	if len(resp) > len(buf) {
		return len(resp), nil
	}
	copy(buf, resp)
	return len(resp), nil
}
