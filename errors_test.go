package icmplib

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaiseForStatus_EchoReplyIsNil(t *testing.T) {
	r := &EchoReply{Family: 4, Type: 0, Code: 0}
	assert.NoError(t, r.RaiseForStatus())
}

func TestRaiseForStatus_TimeExceeded(t *testing.T) {
	r := &EchoReply{Source: netip.MustParseAddr("10.0.0.1"), Family: 4, Type: 11, Code: 0}
	err := r.RaiseForStatus()

	var timeExceeded *TimeExceededError
	require.True(t, errors.As(err, &timeExceeded))
	assert.Same(t, r, timeExceeded.Reply())
}

func TestRaiseForStatus_DestinationUnreachable(t *testing.T) {
	r := &EchoReply{Source: netip.MustParseAddr("10.0.0.1"), Family: 4, Type: 3, Code: 1}
	err := r.RaiseForStatus()

	var unreachable *DestinationUnreachableError
	require.True(t, errors.As(err, &unreachable))
}

func TestRaiseForStatus_V6EchoReplyIsNil(t *testing.T) {
	r := &EchoReply{Family: 6, Type: 129, Code: 0}
	assert.NoError(t, r.RaiseForStatus())
}

func TestSocketErrorAliases_UnwrapThroughErrorsIs(t *testing.T) {
	base := errors.New("eacces")
	var permErr error = &SocketPermissionError{Privileged: true, Err: base}

	assert.True(t, errors.Is(permErr, base))
}

func TestNameLookupError_Unwrap(t *testing.T) {
	base := errors.New("no such host")
	err := &NameLookupError{Host: "does-not-exist.invalid", Err: base}

	assert.True(t, errors.Is(err, base))
	assert.Contains(t, err.Error(), "does-not-exist.invalid")
}
