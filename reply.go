package icmplib

import (
	"net/netip"
	"time"

	"github.com/ravvdevv/icmplib/internal/icmp"
)

// EchoReply describes one decoded incoming ICMP datagram.
type EchoReply struct {
	Source        netip.Addr
	Family        int
	Identifier    uint16
	Sequence      uint16
	Type          int
	Code          int
	BytesReceived int
	ReceiveTime   time.Time
}

// IsEchoReply reports whether this reply is an Echo Reply rather than
// an ICMP error message.
func (r *EchoReply) IsEchoReply() bool {
	return icmp.IsEchoReply(r.Family, r.Type)
}

// RaiseForStatus inspects (Type, Code) and returns a descriptive
// IcmpError for any non-Echo-Reply response, nil otherwise.
func (r *EchoReply) RaiseForStatus() error {
	if r.IsEchoReply() {
		return nil
	}

	isTimeExceeded := (r.Family == 4 && r.Type == icmp.TypeV4TimeExceeded) ||
		(r.Family == 6 && r.Type == icmp.TypeV6TimeExceeded)
	if isTimeExceeded {
		return &TimeExceededError{reply: r}
	}

	return &DestinationUnreachableError{reply: r}
}
