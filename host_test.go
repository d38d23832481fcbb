package icmplib

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHost_NoReplies(t *testing.T) {
	h := NewHost("192.0.2.1", 3, nil)

	assert.Equal(t, 0, h.PacketsReceived())
	assert.Equal(t, 1.0, h.PacketLoss())
	assert.False(t, h.IsAlive())
	assert.Equal(t, time.Duration(0), h.MinRTT())
	assert.Equal(t, time.Duration(0), h.AvgRTT())
	assert.Equal(t, time.Duration(0), h.MaxRTT())
	assert.Equal(t, time.Duration(0), h.Jitter())
}

func TestHost_AllReplies(t *testing.T) {
	rtts := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond}
	h := NewHost("127.0.0.1", 3, rtts)

	assert.Equal(t, 3, h.PacketsReceived())
	assert.Equal(t, 0.0, h.PacketLoss())
	assert.True(t, h.IsAlive())
	assert.Equal(t, 10*time.Millisecond, h.MinRTT())
	assert.Equal(t, 20*time.Millisecond, h.AvgRTT())
	assert.Equal(t, 30*time.Millisecond, h.MaxRTT())
	assert.Equal(t, 10*time.Millisecond, h.Jitter())
}

func TestHost_PartialLoss(t *testing.T) {
	rtts := []time.Duration{5 * time.Millisecond}
	h := NewHost("198.51.100.1", 4, rtts)

	assert.Equal(t, 1, h.PacketsReceived())
	assert.Equal(t, 0.75, h.PacketLoss())
	assert.True(t, h.IsAlive())
	assert.Equal(t, time.Duration(0), h.Jitter(), "jitter is 0 with fewer than two samples")
}

func TestHost_ZeroSentNeverDividesByZero(t *testing.T) {
	h := NewHost("127.0.0.1", 0, nil)
	assert.Equal(t, 0.0, h.PacketLoss())
}
