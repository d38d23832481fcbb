package addr

import (
	"context"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLiteralV4(t *testing.T) {
	a, ok := IsLiteral("127.0.0.1")
	require.True(t, ok)
	assert.True(t, a.Is4())
}

func TestIsLiteralV6WithZone(t *testing.T) {
	a, ok := IsLiteral("fe80::1%eth0")
	require.True(t, ok)
	assert.Equal(t, "eth0", a.Zone())
}

func TestIsLiteralHostnameRejected(t *testing.T) {
	_, ok := IsLiteral("example.com")
	assert.False(t, ok)
}

func TestResolveLiteralShortCircuits(t *testing.T) {
	addrs, err := Resolve(context.Background(), "::1", Auto)
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.True(t, addrs[0].Is6())
}

func TestResolveOrdersV4First(t *testing.T) {
	in := []netip.Addr{
		netip.MustParseAddr("::1"),
		netip.MustParseAddr("127.0.0.1"),
		netip.MustParseAddr("::2"),
	}
	out := orderV4First(in)
	assert.True(t, out[0].Is4())
}
