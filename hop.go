package icmplib

import "time"

// Hop is a Host reached at a specific TTL during a traceroute.
type Hop struct {
	*Host
	Distance int
}

// NewHop wraps the RTT samples collected at ttl from address.
func NewHop(address string, distance int, packetsSent int, rtts []time.Duration) *Hop {
	return &Hop{Host: NewHost(address, packetsSent, rtts), Distance: distance}
}
