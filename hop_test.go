package icmplib

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHop_EmbedsHostStatsWithDistance(t *testing.T) {
	rtts := []time.Duration{12 * time.Millisecond, 18 * time.Millisecond}
	h := NewHop("10.0.0.1", 5, 2, rtts)

	assert.Equal(t, 5, h.Distance)
	assert.Equal(t, "10.0.0.1", h.Address)
	assert.True(t, h.IsAlive())
	assert.Equal(t, 12*time.Millisecond, h.MinRTT())
}
