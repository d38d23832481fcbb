package icmplib

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEchoRequest_DefaultTTL(t *testing.T) {
	req := NewEchoRequest(netip.MustParseAddr("127.0.0.1"), 0x1234, 1)
	assert.Equal(t, 64, req.TTL)
}

func TestEchoRequest_RandomPayloadCachedOnFirstAccess(t *testing.T) {
	req := NewEchoRequest(netip.MustParseAddr("127.0.0.1"), 1, 1).WithPayloadSize(32)

	first := req.Payload()
	second := req.Payload()

	require.Len(t, first, 32)
	assert.Equal(t, first, second, "payload must be generated once and cached")
}

func TestEchoRequest_ExplicitPayloadNotOverwritten(t *testing.T) {
	explicit := []byte("fixed-payload")
	req := NewEchoRequest(netip.MustParseAddr("::1"), 1, 1).WithPayload(explicit)

	assert.Equal(t, explicit, req.Payload())
}

func TestEchoRequest_ZeroPayloadSizeIsAccepted(t *testing.T) {
	req := NewEchoRequest(netip.MustParseAddr("127.0.0.1"), 1, 1).WithPayloadSize(0)
	assert.Len(t, req.Payload(), 0)
}

func TestEchoRequest_MarkSentRecordsSendTime(t *testing.T) {
	req := NewEchoRequest(netip.MustParseAddr("127.0.0.1"), 1, 1)
	assert.True(t, req.SendTime().IsZero())

	now := time.Now()
	req.MarkSent(now)
	assert.Equal(t, now, req.SendTime())
}
