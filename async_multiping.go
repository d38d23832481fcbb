package icmplib

import "context"

// MultipingResult is delivered on the channel returned by
// AsyncMultiping.
type MultipingResult struct {
	Hosts []*Host
	Err   error
}

// AsyncMultiping runs Multiping in its own goroutine. The shared
// per-family socket multiplexer Multiping builds internally already
// handles the (identifier, sequence) dispatch; this wrapper only adds
// the goroutine/channel boundary.
func AsyncMultiping(ctx context.Context, addresses []string, opts MultipingOptions) <-chan MultipingResult {
	out := make(chan MultipingResult, 1)
	go func() {
		hosts, err := Multiping(ctx, addresses, opts)
		out <- MultipingResult{Hosts: hosts, Err: err}
		close(out)
	}()
	return out
}
