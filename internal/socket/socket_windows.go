//go:build windows

package socket

import (
	"errors"
	"os"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/windows"
)

// isPermissionErrno reports whether err stems from access-denied on
// Windows, where "privileged" is effectively always true.
func isPermissionErrno(err error) bool {
	return errors.Is(err, os.ErrPermission) || errors.Is(err, windows.ERROR_ACCESS_DENIED)
}

// isAddrNotAvailErrno reports whether err stems from the address not
// being available for binding.
func isAddrNotAvailErrno(err error) bool {
	return errors.Is(err, windows.WSAEADDRNOTAVAIL)
}

// setTrafficClass is a no-op on Windows: the traffic class option is
// not set on this platform.
func (s *Socket) setTrafficClass(tc int) error {
	return nil
}

// setBroadcast is a no-op on Windows: broadcast control would require
// a different flag there, and privileged mode is effectively always
// true, so the library does not attempt SO_BROADCAST control on this
// platform.
func setBroadcast(p4 *ipv4.PacketConn, enabled bool) error {
	return nil
}
