// Package icmp implements the wire codec for ICMP Echo Request/Reply,
// Destination Unreachable and Time Exceeded messages, for both ICMPv4
// (RFC 792) and ICMPv6 (RFC 4443).
//
// The package deliberately does not depend on golang.org/x/net/icmp for
// marshaling: the caller (internal/socket) needs fine control over which
// bytes are placeholders (kernel-computed checksum, kernel-assigned
// identifier) for each of the four privileged/unprivileged, v4/v6 socket
// policies, and that knob isn't exposed by a generic ICMP message codec.
package icmp

// ICMPv4 message types (RFC 792).
const (
	TypeV4EchoReply    = 0
	TypeV4DestUnreach  = 3
	TypeV4EchoRequest  = 8
	TypeV4TimeExceeded = 11
	TypeV4ParamProblem = 12
	TypeV4Redirect     = 5
	TypeV4SourceQuench = 4
)

// ICMPv6 message types (RFC 4443).
const (
	TypeV6DestUnreach  = 1
	TypeV6PacketTooBig = 2
	TypeV6TimeExceeded = 3
	TypeV6ParamProblem = 4
	TypeV6EchoRequest  = 128
	TypeV6EchoReply    = 129
)

// HeaderLen is the size in bytes of the fixed ICMP echo header
// (type, code, checksum, identifier, sequence) shared by v4 and v6.
const HeaderLen = 8

// IsErrorTypeV4 reports whether t is one of the ICMPv4 error message
// types this codec extracts an embedded datagram from.
func IsErrorTypeV4(t int) bool {
	switch t {
	case TypeV4DestUnreach, TypeV4TimeExceeded, TypeV4ParamProblem:
		return true
	default:
		return false
	}
}

// IsErrorTypeV6 reports whether t is one of the ICMPv6 error message
// types this codec extracts an embedded datagram from.
func IsErrorTypeV6(t int) bool {
	switch t {
	case TypeV6DestUnreach, TypeV6PacketTooBig, TypeV6TimeExceeded, TypeV6ParamProblem:
		return true
	default:
		return false
	}
}

// IsEchoReply reports whether (family, t) identifies an Echo Reply.
func IsEchoReply(family, t int) bool {
	if family == 4 {
		return t == TypeV4EchoReply
	}
	return t == TypeV6EchoReply
}
