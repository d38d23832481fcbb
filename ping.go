package icmplib

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ravvdevv/icmplib/internal/addr"
	icmpcodec "github.com/ravvdevv/icmplib/internal/icmp"
	"github.com/ravvdevv/icmplib/internal/socket"
)

// PingOptions configures Ping / PingContext.
type PingOptions struct {
	Count        int
	Interval     time.Duration
	Timeout      time.Duration
	Identifier   uint16
	Source       string
	Family       addr.Family
	Privileged   bool
	Payload      []byte
	PayloadSize  int
	TrafficClass int

	Clock clockwork.Clock
}

// DefaultPingOptions returns the conventional ping defaults: 4 probes,
// a 1 second interval, and a 2 second per-probe timeout.
func DefaultPingOptions() PingOptions {
	return PingOptions{
		Count:       4,
		Interval:    time.Second,
		Timeout:     2 * time.Second,
		Privileged:  false,
		PayloadSize: defaultPayloadSize,
	}
}

// Ping sends Count Echo Requests to address and returns the aggregated
// Host.
func Ping(address string, opts PingOptions) (*Host, error) {
	return PingContext(context.Background(), address, opts)
}

// PingContext is Ping with cancellation: ctx is checked between
// probes, and closes the socket (aborting any in-flight receive) on
// cancellation.
func PingContext(ctx context.Context, address string, opts PingOptions) (*Host, error) {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if opts.Count <= 0 {
		opts.Count = 4
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}

	addrs, err := addr.Resolve(ctx, address, opts.Family)
	if err != nil {
		var lookupErr *addr.LookupError
		if le, ok := err.(*addr.LookupError); ok {
			lookupErr = le
		}
		if lookupErr != nil {
			return nil, &NameLookupError{Host: lookupErr.Host, Err: lookupErr.Err}
		}
		return nil, &NameLookupError{Host: address, Err: err}
	}
	dest := addrs[0]

	family := socket.V4
	if dest.Is6() {
		family = socket.V6
	}

	sock, err := socket.Open(socket.Config{Family: family, Privileged: opts.Privileged, Source: opts.Source})
	if err != nil {
		return nil, err
	}
	defer sock.Close()

	go func() {
		<-ctx.Done()
		sock.Close()
	}()

	rtts := make([]time.Duration, 0, opts.Count)
	id := opts.Identifier

probes:
	for seq := 1; seq <= opts.Count; seq++ {
		if ctx.Err() != nil {
			break
		}

		req := NewEchoRequest(dest, id, uint16(seq)).WithTrafficClass(opts.TrafficClass)
		if opts.Payload != nil {
			req.WithPayload(opts.Payload)
		} else if opts.PayloadSize > 0 {
			req.WithPayloadSize(opts.PayloadSize)
		}

		rtt, err := sendAndAwait(sock, req, int(family), opts.Timeout)
		if err == nil {
			rtts = append(rtts, rtt)
		}

		if seq < opts.Count && opts.Interval > 0 {
			select {
			case <-ctx.Done():
				break probes
			case <-clock.After(opts.Interval):
			}
		}
	}

	return NewHost(address, opts.Count, rtts), nil
}

// sendAndAwait sends one request and waits up to timeout for its
// matching reply, returning the measured RTT on success.
func sendAndAwait(sock *socket.Socket, req *EchoRequest, family int, timeout time.Duration) (time.Duration, error) {
	checksumMode := icmpcodec.ChecksumComputed
	if !sock.IsPrivileged() || family == 6 {
		checksumMode = icmpcodec.ChecksumKernel
	}

	wireID := req.Identifier
	if !sock.IsPrivileged() {
		if kernelID, ok := sock.LocalIdentifier(); ok {
			wireID = kernelID
		}
	}
	matchID := wireID

	payload := icmpcodec.EncodeEcho(icmpcodec.EncodeParams{
		Family:       family,
		ID:           wireID,
		Seq:          req.Sequence,
		Payload:      req.Payload(),
		ChecksumMode: checksumMode,
	})

	sendTime, err := sock.Send(socket.SendParams{
		Dest:         req.Destination,
		Zone:         req.Zone,
		TTL:          req.TTL,
		TrafficClass: req.TrafficClass,
		Payload:      payload,
	})
	if err != nil {
		return 0, err
	}
	req.MarkSent(sendTime)

	deadline := timeout
	for {
		remaining := deadline - time.Since(sendTime)
		if remaining <= 0 {
			return 0, &TimeoutExceededError{}
		}

		received, err := sock.Receive(remaining)
		if err != nil {
			return 0, err
		}

		d := received.Decoded
		if !d.Matchable {
			continue
		}
		if d.Seq != req.Sequence {
			continue
		}
		if sock.IsPrivileged() && d.ID != matchID {
			continue
		}

		reply := replyFromReceived(received)
		if err := reply.RaiseForStatus(); err != nil {
			// Matched but not an Echo Reply (Destination Unreachable,
			// Time Exceeded): no RTT for this sequence.
			return 0, err
		}

		return received.ReceiveTime.Sub(sendTime), nil
	}
}

// replyFromReceived converts a socket-layer Received into the
// public EchoReply shape, used by Ping, Multiping and Traceroute.
func replyFromReceived(r socket.Received) *EchoReply {
	return &EchoReply{
		Source:        r.Source,
		Family:        r.Decoded.Family,
		Identifier:    r.Decoded.ID,
		Sequence:      r.Decoded.Seq,
		Type:          r.Decoded.Type,
		Code:          r.Decoded.Code,
		BytesReceived: r.BytesRecv,
		ReceiveTime:   r.ReceiveTime,
	}
}
