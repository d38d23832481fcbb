package icmplib

import (
	"fmt"

	"github.com/ravvdevv/icmplib/internal/socket"
)

// SocketPermissionError is returned when the OS refuses to create a
// socket for lack of capability.
type SocketPermissionError = socket.PermissionError

// SocketAddressError is returned when binding to a requested source
// address fails.
type SocketAddressError = socket.AddressError

// SocketBroadcastError is returned when sending to a broadcast address
// on a socket that hasn't enabled the broadcast flag.
type SocketBroadcastError = socket.BroadcastError

// SocketUnavailableError is returned when an operation targets a
// closed socket, or a pending receive is interrupted by Close.
type SocketUnavailableError = socket.UnavailableError

// ICMPSocketError wraps any other OS-level socket failure.
type ICMPSocketError = socket.ICMPSocketError

// TimeoutExceededError is returned when a receive deadline elapses
// with no matching reply.
type TimeoutExceededError = socket.TimeoutExceededError

// NameLookupError reports a hostname resolution failure.
type NameLookupError struct {
	Host string
	Err  error
}

func (e *NameLookupError) Error() string {
	return fmt.Sprintf("icmplib: name lookup %q: %v", e.Host, e.Err)
}

func (e *NameLookupError) Unwrap() error { return e.Err }

// IcmpError is the common shape of DestinationUnreachableError and
// TimeExceededError: both carry the EchoReply that triggered them.
type IcmpError interface {
	error
	Reply() *EchoReply
}

// DestinationUnreachableError is raised by EchoReply.RaiseForStatus
// when a peer responds with an ICMP Destination Unreachable message
// instead of an Echo Reply.
type DestinationUnreachableError struct {
	reply *EchoReply
}

func (e *DestinationUnreachableError) Error() string {
	return fmt.Sprintf("icmplib: destination unreachable from %s (type=%d code=%d)",
		e.reply.Source, e.reply.Type, e.reply.Code)
}

func (e *DestinationUnreachableError) Reply() *EchoReply { return e.reply }

// TimeExceededError is raised by EchoReply.RaiseForStatus when a peer
// responds with an ICMP Time Exceeded message, typically an
// intermediate router during a traceroute.
type TimeExceededError struct {
	reply *EchoReply
}

func (e *TimeExceededError) Error() string {
	return fmt.Sprintf("icmplib: time exceeded from %s (type=%d code=%d)",
		e.reply.Source, e.reply.Type, e.reply.Code)
}

func (e *TimeExceededError) Reply() *EchoReply { return e.reply }
