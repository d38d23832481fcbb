//go:build !windows

package socket

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

// isPermissionErrno reports whether err stems from EACCES/EPERM, the
// capability failures that map to a permission error.
func isPermissionErrno(err error) bool {
	if errors.Is(err, os.ErrPermission) {
		return true
	}
	return isErrno(err, unix.EACCES, unix.EPERM)
}

// isAddrNotAvailErrno reports whether err stems from EADDRNOTAVAIL.
func isAddrNotAvailErrno(err error) bool {
	return isErrno(err, unix.EADDRNOTAVAIL)
}

func isErrno(err error, codes ...syscall.Errno) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	for _, c := range codes {
		if errno == c {
			return true
		}
	}
	return false
}

// setTrafficClass sets IP_TOS / IPV6_TCLASS on s. POSIX only: Windows
// does not set this option (see socket_windows.go).
func (s *Socket) setTrafficClass(tc int) error {
	if s.family == V4 {
		if p4 := s.conn.IPv4PacketConn(); p4 != nil {
			return p4.SetTOS(tc)
		}
		return nil
	}
	if p6 := s.conn.IPv6PacketConn(); p6 != nil {
		return p6.SetTrafficClass(tc)
	}
	return nil
}

// setBroadcast toggles SO_BROADCAST on the socket backing p4. The
// golang.org/x/net/ipv4 package does not expose this socket-level
// (SOL_SOCKET) option directly, so it's reached through the exported
// PacketConn field's SyscallConn instead.
func setBroadcast(p4 *ipv4.PacketConn, enabled bool) error {
	sc, ok := p4.PacketConn.(interface {
		SyscallConn() (syscall.RawConn, error)
	})
	if !ok {
		return fmt.Errorf("underlying connection does not expose a raw fd")
	}
	rawConn, err := sc.SyscallConn()
	if err != nil {
		return err
	}

	val := 0
	if enabled {
		val = 1
	}

	var sockErr error
	ctrlErr := rawConn.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, val)
	})
	if ctrlErr != nil {
		return ctrlErr
	}
	return sockErr
}
