// Package socket abstracts the two OS-provided ICMP delivery modes —
// privileged raw sockets and unprivileged datagram sockets — over both
// IPv4 and IPv6, on top of golang.org/x/net/icmp.PacketConn.
package socket

import (
	"fmt"
	"net"
	"net/netip"
	"sync"
	"time"

	"golang.org/x/net/icmp"

	icmpcodec "github.com/ravvdevv/icmplib/internal/icmp"
)

// Family is the IP address family a Socket speaks.
type Family int

const (
	V4 Family = 4
	V6 Family = 6
)

// Config describes how to open a Socket.
type Config struct {
	Family     Family
	Privileged bool
	Source     string // bind address, optional
}

// Socket owns one OS socket descriptor configured for ICMP Echo
// traffic.
type Socket struct {
	family     Family
	privileged bool
	source     string

	conn *icmp.PacketConn

	mu        sync.RWMutex
	closed    bool
	broadcast bool

	identOnce sync.Once
	ident     uint16
	identDone bool
	identErr  error
}

// Open constructs a Socket for the given (family, privileged) policy.
func Open(cfg Config) (*Socket, error) {
	network := networkFor(cfg.Family, cfg.Privileged)

	conn, err := icmp.ListenPacket(network, cfg.Source)
	if err != nil {
		return nil, classifyOpenError(cfg, err)
	}

	return &Socket{
		family:     cfg.Family,
		privileged: cfg.Privileged,
		source:     cfg.Source,
		conn:       conn,
	}, nil
}

func networkFor(family Family, privileged bool) string {
	switch {
	case family == V4 && privileged:
		return "ip4:icmp"
	case family == V4 && !privileged:
		return "udp4"
	case family == V6 && privileged:
		return "ip6:ipv6-icmp"
	default:
		return "udp6"
	}
}

// classifyOpenError maps OS-level construction failures onto the
// error taxonomy: EACCES/EPERM → permission error (with a hint when
// unprivileged datagram sockets are themselves disabled),
// EADDRNOTAVAIL → address error, everything else → a generic socket
// error.
func classifyOpenError(cfg Config, err error) error {
	if isPermissionErrno(err) {
		hint := ""
		if !cfg.Privileged {
			hint = "unprivileged ICMP datagram sockets may be disabled by net.ipv4.ping_group_range; " +
				"retry with privileged mode or adjust the sysctl"
		}
		return &PermissionError{Privileged: cfg.Privileged, Hint: hint, Err: err}
	}
	if isAddrNotAvailErrno(err) {
		return &AddressError{Source: cfg.Source, Err: err}
	}
	return &ICMPSocketError{Op: "open", Err: err}
}

// Family reports which IP family this socket speaks.
func (s *Socket) Family() Family { return s.family }

// IsPrivileged reports whether this is a raw (privileged) socket.
func (s *Socket) IsPrivileged() bool { return s.privileged }

// IsClosed reports whether Close has been called.
func (s *Socket) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Broadcast reports the current SO_BROADCAST setting (IPv4 only).
func (s *Socket) Broadcast() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.broadcast
}

// SetBroadcast enables or disables sending to broadcast addresses
// (IPv4 only; a no-op on IPv6).
func (s *Socket) SetBroadcast(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &UnavailableError{Op: "setsockopt"}
	}
	if s.family != V4 {
		return nil
	}
	if p4 := s.conn.IPv4PacketConn(); p4 != nil {
		if err := setBroadcast(p4, enabled); err != nil {
			return &ICMPSocketError{Op: "setsockopt(SO_BROADCAST)", Err: err}
		}
	}
	s.broadcast = enabled
	return nil
}

// Close idempotently releases the underlying descriptor.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

// LocalIdentifier returns the kernel-assigned ICMP identifier for an
// unprivileged datagram socket, available only after the first
// successful Send. For a privileged socket it always returns false:
// the request's own identifier is used verbatim and no kernel
// substitution happens.
func (s *Socket) LocalIdentifier() (uint16, bool) {
	if s.privileged {
		return 0, false
	}
	s.mu.RLock()
	ok := s.identErr == nil && s.identSet()
	id := s.ident
	s.mu.RUnlock()
	return id, ok
}

func (s *Socket) identSet() bool {
	return s.identDone
}

func (s *Socket) recordLocalIdentifier() {
	s.identOnce.Do(func() {
		addr := s.conn.LocalAddr()
		switch a := addr.(type) {
		case *net.UDPAddr:
			s.mu.Lock()
			s.ident = uint16(a.Port)
			s.identDone = true
			s.mu.Unlock()
		default:
			s.mu.Lock()
			s.identErr = fmt.Errorf("socket: local address %T has no usable identifier", addr)
			s.identDone = true
			s.mu.Unlock()
		}
	})
}

// Addr returns the socket's bound local address, if any.
func (s *Socket) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// SendParams carries per-packet send options.
type SendParams struct {
	Dest         netip.Addr
	Zone         string
	TTL          int
	TrafficClass int
	Payload      []byte // full encoded ICMP message
	Broadcast    bool   // true when Dest is a broadcast address
}

// Send writes an encoded ICMP packet to Dest, applying per-packet TTL
// and traffic class, and returns the monotonic time at which the
// syscall returned successfully.
func (s *Socket) Send(p SendParams) (time.Time, error) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return time.Time{}, &UnavailableError{Op: "send"}
	}

	if p.Broadcast && s.family == V4 && !s.Broadcast() {
		return time.Time{}, &BroadcastError{}
	}

	if err := s.setTTL(p.TTL); err != nil {
		return time.Time{}, &ICMPSocketError{Op: "setsockopt(TTL)", Err: err}
	}
	if p.TrafficClass != 0 {
		if err := s.setTrafficClass(p.TrafficClass); err != nil {
			return time.Time{}, &ICMPSocketError{Op: "setsockopt(TOS)", Err: err}
		}
	}

	dst := s.destAddr(p.Dest, p.Zone)

	_, err := s.conn.WriteTo(p.Payload, dst)
	if err != nil {
		return time.Time{}, &ICMPSocketError{Op: "sendto", Err: err}
	}
	sendTime := time.Now()

	if !s.privileged {
		s.recordLocalIdentifier()
	}

	return sendTime, nil
}

// destAddr builds the net.Addr WriteTo expects: a raw IP socket
// ("ip4:icmp"/"ip6:ipv6-icmp") wants *net.IPAddr, a datagram socket
// ("udp4"/"udp6") wants *net.UDPAddr (golang.org/x/net/icmp dispatches
// on the concrete type).
func (s *Socket) destAddr(a netip.Addr, zone string) net.Addr {
	ip := net.IP(a.AsSlice())
	if s.privileged {
		return &net.IPAddr{IP: ip, Zone: zone}
	}
	return &net.UDPAddr{IP: ip, Zone: zone}
}

func (s *Socket) setTTL(ttl int) error {
	if ttl <= 0 {
		return nil
	}
	if s.family == V4 {
		if p4 := s.conn.IPv4PacketConn(); p4 != nil {
			return p4.SetTTL(ttl)
		}
		return nil
	}
	if p6 := s.conn.IPv6PacketConn(); p6 != nil {
		return p6.SetHopLimit(ttl)
	}
	return nil
}

// Received is a decoded incoming ICMP datagram.
type Received struct {
	Source      netip.Addr
	Decoded     icmpcodec.Decoded
	BytesRecv   int
	ReceiveTime time.Time
}

// Receive waits up to timeout for any ICMP datagram, decodes it, and
// stamps ReceiveTime immediately after the syscall returns.
// Malformed packets are dropped silently and the wait resumes against
// the same deadline.
func (s *Socket) Receive(timeout time.Duration) (Received, error) {
	deadline := time.Now().Add(timeout)
	buf := make([]byte, 1500)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return Received{}, &TimeoutExceededError{}
		}

		s.mu.RLock()
		closed := s.closed
		s.mu.RUnlock()
		if closed {
			return Received{}, &UnavailableError{Op: "receive"}
		}

		if err := s.conn.SetReadDeadline(time.Now().Add(remaining)); err != nil {
			return Received{}, &ICMPSocketError{Op: "setreaddeadline", Err: err}
		}

		n, peer, err := s.conn.ReadFrom(buf)
		receiveTime := time.Now()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return Received{}, &TimeoutExceededError{}
			}
			s.mu.RLock()
			closed = s.closed
			s.mu.RUnlock()
			if closed {
				return Received{}, &UnavailableError{Op: "receive"}
			}
			return Received{}, &ICMPSocketError{Op: "recvfrom", Err: err}
		}

		src := peerAddr(peer)
		decoded, err := icmpcodec.Decode(int(s.family), buf[:n])
		if err != nil {
			// Invalid on-wire packet: drop silently, keep waiting.
			continue
		}

		return Received{
			Source:      src,
			Decoded:     decoded,
			BytesRecv:   n,
			ReceiveTime: receiveTime,
		}, nil
	}
}

func peerAddr(peer net.Addr) netip.Addr {
	switch a := peer.(type) {
	case *net.IPAddr:
		ap, _ := netip.AddrFromSlice(a.IP)
		return ap.Unmap()
	case *net.UDPAddr:
		ap, _ := netip.AddrFromSlice(a.IP)
		return ap.Unmap()
	default:
		return netip.Addr{}
	}
}
