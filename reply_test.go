package icmplib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEchoReply_IsEchoReply(t *testing.T) {
	assert.True(t, (&EchoReply{Family: 4, Type: 0}).IsEchoReply())
	assert.True(t, (&EchoReply{Family: 6, Type: 129}).IsEchoReply())
	assert.False(t, (&EchoReply{Family: 4, Type: 11}).IsEchoReply())
	assert.False(t, (&EchoReply{Family: 6, Type: 3}).IsEchoReply())
}
