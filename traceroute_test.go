package icmplib

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceroute_Loopback(t *testing.T) {
	opts := DefaultTracerouteOptions()
	opts.MaxHops = 2
	opts.Count = 1
	opts.Timeout = 300 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hops, err := Traceroute(ctx, "127.0.0.1", opts)
	if err != nil {
		t.Skipf("privileged ICMP sockets unavailable in this environment: %v", err)
	}

	if len(hops) == 0 {
		t.Skip("no hop responded in this environment")
	}

	last := hops[len(hops)-1]
	assert.LessOrEqual(t, last.Distance, opts.MaxHops)
	assert.GreaterOrEqual(t, last.Distance, opts.FirstHop)
}

func TestTraceroute_HopsStrictlyIncreasingDistance(t *testing.T) {
	opts := DefaultTracerouteOptions()
	opts.MaxHops = 3
	opts.Count = 1
	opts.Timeout = 200 * time.Millisecond

	hops, err := Traceroute(context.Background(), "127.0.0.1", opts)
	if err != nil {
		t.Skipf("privileged ICMP sockets unavailable in this environment: %v", err)
	}

	for i := 1; i < len(hops); i++ {
		require.Greater(t, hops[i].Distance, hops[i-1].Distance)
	}
}

func TestTraceroute_UnresolvableHostReturnsNameLookupError(t *testing.T) {
	_, err := Traceroute(context.Background(), "this-host-does-not-resolve.invalid", DefaultTracerouteOptions())

	var lookupErr *NameLookupError
	require.ErrorAs(t, err, &lookupErr)
}
