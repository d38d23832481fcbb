package icmplib

import (
	"context"

	"github.com/ravvdevv/icmplib/internal/addr"
)

// PingResult is delivered on the channel returned by AsyncPing.
type PingResult struct {
	Host *Host
	Err  error
}

// AsyncPing runs Ping in its own goroutine and returns a channel that
// receives exactly one PingResult.
func AsyncPing(ctx context.Context, address string, opts PingOptions) <-chan PingResult {
	out := make(chan PingResult, 1)
	go func() {
		host, err := PingContext(ctx, address, opts)
		out <- PingResult{Host: host, Err: err}
		close(out)
	}()
	return out
}

// TracerouteResult is delivered on the channel returned by
// AsyncTraceroute.
type TracerouteResult struct {
	Hops []*Hop
	Err  error
}

// AsyncTraceroute runs Traceroute in its own goroutine.
func AsyncTraceroute(ctx context.Context, address string, opts TracerouteOptions) <-chan TracerouteResult {
	out := make(chan TracerouteResult, 1)
	go func() {
		hops, err := Traceroute(ctx, address, opts)
		out <- TracerouteResult{Hops: hops, Err: err}
		close(out)
	}()
	return out
}

// ResolveResult is delivered on the channel returned by AsyncResolve.
type ResolveResult struct {
	Host *Host
	Err  error
}

// AsyncResolve resolves address in its own goroutine and reports the
// outcome as a zero-probe Host, with Err set on failure, so callers
// that only care about reachability can treat AsyncPing and
// AsyncResolve uniformly.
func AsyncResolve(ctx context.Context, address string, family addr.Family) <-chan ResolveResult {
	out := make(chan ResolveResult, 1)
	go func() {
		_, err := addr.Resolve(ctx, address, family)
		if err != nil {
			if le, ok := err.(*addr.LookupError); ok {
				err = &NameLookupError{Host: le.Host, Err: le.Err}
			}
			out <- ResolveResult{Host: NewHost(address, 0, nil), Err: err}
		} else {
			out <- ResolveResult{Host: NewHost(address, 0, nil)}
		}
		close(out)
	}()
	return out
}
