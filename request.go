package icmplib

import (
	"crypto/rand"
	"net/netip"
	"time"
)

// defaultPayloadSize is the number of random bytes generated for a
// request's payload when neither Payload nor PayloadSize is set.
const defaultPayloadSize = 56

// EchoRequest describes one outgoing ICMP Echo Request.
type EchoRequest struct {
	Destination  netip.Addr
	Zone         string
	Identifier   uint16
	Sequence     uint16
	TTL          int
	TrafficClass int

	payload      []byte
	payloadSize  int
	payloadBuilt bool
	sendTime     time.Time
}

// NewEchoRequest builds a request targeting dest. TTL defaults to 64;
// WithTTL overrides it.
func NewEchoRequest(dest netip.Addr, id, seq uint16) *EchoRequest {
	return &EchoRequest{
		Destination: dest,
		Zone:        dest.Zone(),
		Identifier:  id,
		Sequence:    seq,
		TTL:         64,
		payloadSize: defaultPayloadSize,
	}
}

// WithPayload sets an explicit payload, mutually exclusive with
// WithPayloadSize.
func (r *EchoRequest) WithPayload(p []byte) *EchoRequest {
	r.payload = p
	r.payloadBuilt = true
	return r
}

// WithPayloadSize requests a random payload of n bytes, generated once
// and cached the first time Payload is read.
func (r *EchoRequest) WithPayloadSize(n int) *EchoRequest {
	r.payloadSize = n
	r.payload = nil
	r.payloadBuilt = false
	return r
}

// WithTTL overrides the default hop limit.
func (r *EchoRequest) WithTTL(ttl int) *EchoRequest {
	r.TTL = ttl
	return r
}

// WithTrafficClass sets IP_TOS / IPV6_TCLASS (POSIX only; a no-op on
// Windows).
func (r *EchoRequest) WithTrafficClass(tc int) *EchoRequest {
	r.TrafficClass = tc
	return r
}

// Payload returns the request's payload, generating and caching a
// random one on first access if none was supplied explicitly.
func (r *EchoRequest) Payload() []byte {
	if !r.payloadBuilt {
		size := r.payloadSize
		buf := make([]byte, size)
		if size > 0 {
			// crypto/rand.Read never returns a short read without error.
			if _, err := rand.Read(buf); err != nil {
				panic("icmplib: failed to generate random payload: " + err.Error())
			}
		}
		r.payload = buf
		r.payloadBuilt = true
	}
	return r.payload
}

// SendTime reports when the socket layer confirmed this request was
// written to the wire. Zero until MarkSent has been called.
func (r *EchoRequest) SendTime() time.Time { return r.sendTime }

// MarkSent records the send time. The ping engine calls it once,
// with the time returned by a successful socket Send.
func (r *EchoRequest) MarkSent(t time.Time) { r.sendTime = t }
