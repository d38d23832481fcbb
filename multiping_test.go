package icmplib

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiping_PreservesInputOrder(t *testing.T) {
	opts := DefaultMultipingOptions()
	opts.Count = 1
	opts.Timeout = 300 * time.Millisecond
	opts.ConcurrentTasks = 2

	addresses := []string{"127.0.0.1", "::1", "192.0.2.1"}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hosts, err := Multiping(ctx, addresses, opts)
	if err != nil {
		t.Skipf("ICMP sockets unavailable in this environment: %v", err)
	}

	require.Len(t, hosts, 3)
	assert.Equal(t, "127.0.0.1", hosts[0].Address)
	assert.Equal(t, "::1", hosts[1].Address)
	assert.Equal(t, "192.0.2.1", hosts[2].Address)
	assert.False(t, hosts[2].IsAlive(), "TEST-NET-1 address must not be reachable")
}

func TestMultiping_UnresolvableAddressYieldsDeadHost(t *testing.T) {
	opts := DefaultMultipingOptions()
	opts.Count = 1
	opts.Timeout = 100 * time.Millisecond

	hosts, err := Multiping(context.Background(), []string{"this-host-does-not-resolve.invalid"}, opts)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.False(t, hosts[0].IsAlive())
	assert.Equal(t, 0, hosts[0].PacketsSent)
}
