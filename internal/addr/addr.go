// Package addr classifies ping targets (IPv4/IPv6 literal vs. hostname)
// and resolves hostnames to addresses.
package addr

import (
	"context"
	"fmt"
	"net"
	"net/netip"
)

// Family selects which address family to prefer or require when
// resolving a hostname.
type Family int

const (
	// Auto tries IPv4 first, then IPv6.
	Auto Family = 0
	V4   Family = 4
	V6   Family = 6
)

// LookupError reports a name resolution failure.
type LookupError struct {
	Host string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("name lookup %q: %v", e.Host, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// IsLiteral reports whether host parses as an IP literal, and if so
// returns the parsed address.
func IsLiteral(host string) (netip.Addr, bool) {
	// An IPv6 zone suffix ("fe80::1%eth0") is split off, the address part
	// parsed on its own, and the zone re-attached: such literals are valid
	// destinations for link-local ping targets.
	if zoneIdx := indexZone(host); zoneIdx >= 0 {
		base, err := netip.ParseAddr(host[:zoneIdx])
		if err != nil {
			return netip.Addr{}, false
		}
		return base.WithZone(host[zoneIdx+1:]), true
	}
	a, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return a, true
}

func indexZone(host string) int {
	for i := 0; i < len(host); i++ {
		if host[i] == '%' {
			return i
		}
	}
	return -1
}

// Resolve returns addresses for host, preferring family when given. If
// host is already a literal, Resolve returns it directly without
// touching the network.
func Resolve(ctx context.Context, host string, family Family) ([]netip.Addr, error) {
	if a, ok := IsLiteral(host); ok {
		return []netip.Addr{a}, nil
	}

	network := "ip"
	switch family {
	case V4:
		network = "ip4"
	case V6:
		network = "ip6"
	}

	ips, err := net.DefaultResolver.LookupIP(ctx, network, host)
	if err != nil {
		return nil, &LookupError{Host: host, Err: err}
	}
	if len(ips) == 0 {
		return nil, &LookupError{Host: host, Err: fmt.Errorf("no addresses returned")}
	}

	addrs := make([]netip.Addr, 0, len(ips))
	for _, ip := range ips {
		a, ok := netip.AddrFromSlice(ip)
		if !ok {
			continue
		}
		addrs = append(addrs, a.Unmap())
	}

	if family == Auto {
		addrs = orderV4First(addrs)
	}
	if len(addrs) == 0 {
		return nil, &LookupError{Host: host, Err: fmt.Errorf("no usable addresses")}
	}
	return addrs, nil
}

func orderV4First(addrs []netip.Addr) []netip.Addr {
	ordered := make([]netip.Addr, 0, len(addrs))
	for _, a := range addrs {
		if a.Is4() {
			ordered = append(ordered, a)
		}
	}
	for _, a := range addrs {
		if !a.Is4() {
			ordered = append(ordered, a)
		}
	}
	return ordered
}
