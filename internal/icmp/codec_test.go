package icmp

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEchoChecksumFolds(t *testing.T) {
	payload := make([]byte, 32)
	buf := EncodeEcho(EncodeParams{
		Family:       4,
		ID:           0x1234,
		Seq:          0x0001,
		Payload:      payload,
		ChecksumMode: ChecksumComputed,
	})

	require.Len(t, buf, 40)
	assert.True(t, VerifyChecksum(buf))
}

func TestEncodeEchoOddPayloadSizes(t *testing.T) {
	for _, size := range []int{0, 1, 3, 57} {
		buf := EncodeEcho(EncodeParams{
			Family:       4,
			ID:           1,
			Seq:          1,
			Payload:      make([]byte, size),
			ChecksumMode: ChecksumComputed,
		})
		assert.True(t, VerifyChecksum(buf), "size=%d", size)
		assert.Equal(t, HeaderLen+size, len(buf))
	}
}

func TestEncodeEchoKernelChecksumLeavesZero(t *testing.T) {
	buf := EncodeEcho(EncodeParams{
		Family:       6,
		ID:           7,
		Seq:          9,
		Payload:      []byte("hello"),
		ChecksumMode: ChecksumKernel,
	})
	assert.Equal(t, uint16(0), binary.BigEndian.Uint16(buf[2:4]))
}

func TestDecodeEchoReplyRoundTrip(t *testing.T) {
	req := EncodeEcho(EncodeParams{
		Family:       4,
		ID:           0x4242,
		Seq:          0x0007,
		Payload:      []byte("payload-data"),
		ChecksumMode: ChecksumComputed,
	})
	// Flip to a reply in place to simulate what comes back on the wire.
	req[0] = TypeV4EchoReply
	binary.BigEndian.PutUint16(req[2:4], 0)
	binary.BigEndian.PutUint16(req[2:4], Checksum(req))

	d, err := Decode(4, req)
	require.NoError(t, err)
	assert.True(t, d.Matchable)
	assert.Equal(t, uint16(0x4242), d.ID)
	assert.Equal(t, uint16(0x0007), d.Seq)
	assert.Equal(t, TypeV4EchoReply, d.Type)
}

func TestDecodeSkipsIPv4Header(t *testing.T) {
	icmpMsg := EncodeEcho(EncodeParams{
		Family:       4,
		ID:           5,
		Seq:          6,
		Payload:      nil,
		ChecksumMode: ChecksumComputed,
	})
	icmpMsg[0] = TypeV4EchoReply

	ipHeader := make([]byte, 20)
	ipHeader[0] = 0x45 // version 4, IHL 5 (20 bytes)
	raw := append(ipHeader, icmpMsg...)

	d, err := Decode(4, raw)
	require.NoError(t, err)
	assert.True(t, d.Matchable)
	assert.Equal(t, uint16(5), d.ID)
	assert.Equal(t, uint16(6), d.Seq)
}

func TestDecodeTooShortIsInvalid(t *testing.T) {
	_, err := Decode(4, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidPacket)
}

func TestDecodeExtractsEmbeddedEchoFromTimeExceeded(t *testing.T) {
	origReq := EncodeEcho(EncodeParams{
		Family:       4,
		ID:           0xABCD,
		Seq:          0x0010,
		Payload:      []byte("ping"),
		ChecksumMode: ChecksumComputed,
	})

	embeddedIPHeader := make([]byte, 20)
	embeddedIPHeader[0] = 0x45
	embedded := append(embeddedIPHeader, origReq...)

	timeExceeded := make([]byte, HeaderLen+len(embedded))
	timeExceeded[0] = TypeV4TimeExceeded
	timeExceeded[1] = 0
	copy(timeExceeded[HeaderLen:], embedded)

	d, err := Decode(4, timeExceeded)
	require.NoError(t, err)
	assert.True(t, d.Matchable)
	assert.Equal(t, uint16(0xABCD), d.ID)
	assert.Equal(t, uint16(0x0010), d.Seq)
	assert.Equal(t, TypeV4TimeExceeded, d.Type)
}

func TestDecodeTruncatedErrorIsUnmatchable(t *testing.T) {
	timeExceeded := make([]byte, HeaderLen+4)
	timeExceeded[0] = TypeV4TimeExceeded

	d, err := Decode(4, timeExceeded)
	require.NoError(t, err)
	assert.False(t, d.Matchable)
	assert.Equal(t, uint16(0), d.ID)
	assert.Equal(t, uint16(0), d.Seq)
	assert.Equal(t, TypeV4TimeExceeded, d.Type)
}

func TestDecodeV6NoIPHeaderToSkip(t *testing.T) {
	buf := EncodeEcho(EncodeParams{
		Family:       6,
		ID:           99,
		Seq:          1,
		Payload:      []byte("x"),
		ChecksumMode: ChecksumKernel,
	})
	buf[0] = TypeV6EchoReply

	d, err := Decode(6, buf)
	require.NoError(t, err)
	assert.True(t, d.Matchable)
	assert.Equal(t, uint16(99), d.ID)
}
