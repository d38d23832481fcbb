package icmplib

import (
	"context"
	"errors"
	"net/netip"
	"time"

	"github.com/ravvdevv/icmplib/internal/addr"
	icmpcodec "github.com/ravvdevv/icmplib/internal/icmp"
	"github.com/ravvdevv/icmplib/internal/socket"
)

// TracerouteOptions configures Traceroute.
type TracerouteOptions struct {
	FirstHop int
	MaxHops  int
	Count    int
	Interval time.Duration
	Timeout  time.Duration
	Fast     bool
	Source   string
	Family   addr.Family
}

// DefaultTracerouteOptions returns the conventional traceroute
// defaults: hops 1 through 30, 3 probes per hop, a 50ms interval
// between probes, and a 1 second per-probe timeout.
func DefaultTracerouteOptions() TracerouteOptions {
	return TracerouteOptions{
		FirstHop: 1,
		MaxHops:  30,
		Count:    3,
		Interval: 50 * time.Millisecond,
		Timeout:  time.Second,
	}
}

// Traceroute discovers the chain of routers between the caller and
// address by sweeping the Echo Request TTL. It requires a privileged
// socket to observe ICMP Time Exceeded replies.
func Traceroute(ctx context.Context, address string, opts TracerouteOptions) ([]*Hop, error) {
	if opts.FirstHop <= 0 {
		opts.FirstHop = 1
	}
	if opts.MaxHops <= 0 {
		opts.MaxHops = 30
	}
	if opts.Count <= 0 {
		opts.Count = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second
	}

	addrs, err := addr.Resolve(ctx, address, opts.Family)
	if err != nil {
		if le, ok := err.(*addr.LookupError); ok {
			return nil, &NameLookupError{Host: le.Host, Err: le.Err}
		}
		return nil, &NameLookupError{Host: address, Err: err}
	}
	dest := addrs[0]

	family := socket.V4
	icmpFamily := 4
	if dest.Is6() {
		family = socket.V6
		icmpFamily = 6
	}

	sock, err := socket.Open(socket.Config{Family: family, Privileged: true, Source: opts.Source})
	if err != nil {
		return nil, err
	}
	defer sock.Close()

	id := uint16(time.Now().UnixNano())

	hops := make([]*Hop, 0, opts.MaxHops-opts.FirstHop+1)

	for ttl := opts.FirstHop; ttl <= opts.MaxHops; ttl++ {
		if ctx.Err() != nil {
			break
		}

		var firstResponder netip.Addr
		rtts := make([]time.Duration, 0, opts.Count)
		reachedDestination := false
		sent := 0

		for seq := 1; seq <= opts.Count; seq++ {
			if ctx.Err() != nil {
				break
			}

			sent++
			rtt, responder, isDest, err := probeHop(sock, dest, icmpFamily, id, uint16(seq), ttl, opts.Timeout)
			if err == nil {
				if !firstResponder.IsValid() {
					firstResponder = responder
				}
				rtts = append(rtts, rtt)
				if isDest {
					reachedDestination = true
				}
				if opts.Fast {
					break
				}
			}

			if seq < opts.Count {
				time.Sleep(opts.Interval)
			}
		}

		if firstResponder.IsValid() {
			hops = append(hops, NewHop(firstResponder.String(), ttl, sent, rtts))
		}

		if reachedDestination {
			break
		}
	}

	return hops, nil
}

// probeHop sends one TTL-limited Echo Request and waits for a single
// matching reply: either a Time Exceeded from an intermediate gateway
// or an Echo Reply from the destination itself. An Echo Reply, or a
// Time Exceeded whose source is the destination, counts as the
// destination being reached.
func probeHop(sock *socket.Socket, dest netip.Addr, family int, id, seq uint16, ttl int, timeout time.Duration) (time.Duration, netip.Addr, bool, error) {
	checksumMode := icmpcodec.ChecksumComputed
	if family == 6 {
		checksumMode = icmpcodec.ChecksumKernel
	}
	payload := icmpcodec.EncodeEcho(icmpcodec.EncodeParams{
		Family:       family,
		ID:           id,
		Seq:          seq,
		Payload:      make([]byte, defaultPayloadSize),
		ChecksumMode: checksumMode,
	})

	sendTime, err := sock.Send(socket.SendParams{
		Dest:    dest,
		TTL:     ttl,
		Payload: payload,
	})
	if err != nil {
		return 0, netip.Addr{}, false, err
	}

	for {
		remaining := timeout - time.Since(sendTime)
		if remaining <= 0 {
			return 0, netip.Addr{}, false, &TimeoutExceededError{}
		}

		received, err := sock.Receive(remaining)
		if err != nil {
			return 0, netip.Addr{}, false, err
		}

		d := received.Decoded
		if !d.Matchable || d.Seq != seq || d.ID != id {
			continue
		}

		reply := replyFromReceived(received)
		var timeExceeded *TimeExceededError
		switch err := reply.RaiseForStatus(); {
		case err == nil:
			// Echo Reply: the destination itself answered.
			return received.ReceiveTime.Sub(sendTime), received.Source, true, nil
		case errors.As(err, &timeExceeded):
			// Expected response from an intermediate gateway at this TTL;
			// from the destination itself it also ends the sweep.
			isDest := received.Source.WithZone("") == dest.WithZone("")
			return received.ReceiveTime.Sub(sendTime), received.Source, isDest, nil
		default:
			// Destination Unreachable or similar: not a hop response.
			continue
		}
	}
}
