package icmp

import (
	"encoding/binary"
	"errors"
)

// ErrInvalidPacket is returned when a received buffer has fewer than
// HeaderLen bytes of ICMP after any IP header has been skipped.
var ErrInvalidPacket = errors.New("icmp: invalid packet")

// ChecksumMode selects who is responsible for the checksum field of an
// encoded Echo Request.
type ChecksumMode int

const (
	// ChecksumComputed means the codec itself fills in the checksum
	// field (privileged IPv4 raw sockets).
	ChecksumComputed ChecksumMode = iota
	// ChecksumKernel means the codec leaves the checksum field zeroed
	// and the kernel/NIC computes it (IPv6, unprivileged IPv4).
	ChecksumKernel
)

// EncodeParams carries what EncodeEcho needs to build a wire-format
// Echo Request.
type EncodeParams struct {
	Family       int // 4 or 6
	ID           uint16
	Seq          uint16
	Payload      []byte
	ChecksumMode ChecksumMode
}

// EncodeEcho serializes an Echo Request:
//
//	type(1) | code(1) | checksum(2, BE) | identifier(2, BE) | sequence(2, BE) | payload
func EncodeEcho(p EncodeParams) []byte {
	typ := byte(TypeV4EchoRequest)
	if p.Family == 6 {
		typ = byte(TypeV6EchoRequest)
	}

	buf := make([]byte, HeaderLen+len(p.Payload))
	buf[0] = typ
	buf[1] = 0
	binary.BigEndian.PutUint16(buf[2:4], 0)
	binary.BigEndian.PutUint16(buf[4:6], p.ID)
	binary.BigEndian.PutUint16(buf[6:8], p.Seq)
	copy(buf[8:], p.Payload)

	if p.ChecksumMode == ChecksumComputed {
		binary.BigEndian.PutUint16(buf[2:4], Checksum(buf))
	}
	return buf
}

// Decoded is the result of parsing an incoming ICMP datagram.
type Decoded struct {
	Family int
	Type   int
	Code   int
	ID     uint16
	Seq    uint16
	// Matchable is false when the (ID, Seq) pair could not be
	// recovered (an error message whose embedded datagram was
	// truncated below the minimum needed to read id+seq).
	Matchable bool
}

// Decode parses a raw ICMP datagram as received from a v4 or v6 socket.
//
// For IPv4, raw is expected to still carry the IP header in front of
// the ICMP message; Decode strips it using the IHL encoded in the low
// nibble of the first byte. IPv6 sockets deliver only the ICMP
// payload, so no header is present to skip.
func Decode(family int, raw []byte) (Decoded, error) {
	b := raw
	if family == 4 {
		if len(b) < 1 {
			return Decoded{}, ErrInvalidPacket
		}
		ihl := int(b[0]&0x0f) * 4
		if ihl >= 20 && ihl <= len(b)-HeaderLen {
			b = b[ihl:]
		}
	}

	if len(b) < HeaderLen {
		return Decoded{}, ErrInvalidPacket
	}

	typ := int(b[0])
	code := int(b[1])

	if IsEchoReply(family, typ) {
		return Decoded{
			Family:    family,
			Type:      typ,
			Code:      code,
			ID:        binary.BigEndian.Uint16(b[4:6]),
			Seq:       binary.BigEndian.Uint16(b[6:8]),
			Matchable: true,
		}, nil
	}

	isError := false
	if family == 4 {
		isError = IsErrorTypeV4(typ)
	} else {
		isError = IsErrorTypeV6(typ)
	}
	if !isError {
		// Outside the message set this codec understands: surface
		// type/code but don't claim a match.
		return Decoded{Family: family, Type: typ, Code: code, Matchable: false}, nil
	}

	id, seq, ok := extractEmbeddedEcho(family, b[HeaderLen:])
	return Decoded{Family: family, Type: typ, Code: code, ID: id, Seq: seq, Matchable: ok}, nil
}

// extractEmbeddedEcho reads the identifier and sequence number from
// the Echo Request embedded in an ICMP error message's payload: the
// original IP header followed by at least the first 8 bytes of the
// offending ICMP packet.
func extractEmbeddedEcho(family int, embedded []byte) (id, seq uint16, ok bool) {
	ipHdrLen := 40
	if family == 4 {
		if len(embedded) < 1 {
			return 0, 0, false
		}
		ipHdrLen = int(embedded[0]&0x0f) * 4
	}

	need := ipHdrLen + HeaderLen
	if ipHdrLen < 20 || len(embedded) < need {
		return 0, 0, false
	}

	inner := embedded[ipHdrLen:]
	return binary.BigEndian.Uint16(inner[4:6]), binary.BigEndian.Uint16(inner[6:8]), true
}
