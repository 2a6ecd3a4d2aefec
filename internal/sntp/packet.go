// Package sntp implements the SNTP request/reply packet model: the wire
// codec, the exchange engine, the reply validator and the clock decision
// policy. Everything here treats reply bytes as untrusted until validated.
package sntp

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

const (
	// packetSize is the full wire layout including the authentication
	// suffix (key identifier + message digest). The suffix is sent
	// zeroed and ignored on receipt.
	packetSize = 68

	// minReplySize is the smallest acceptable reply datagram: the
	// 48-byte header without the authentication suffix.
	minReplySize = 48

	// unix1900Offset is the number of seconds between the protocol
	// epoch (1900-01-01) and the Unix epoch (1970-01-01): 25567 days.
	unix1900Offset = 25567 * 86400
)

// Protocol field values used by this client.
const (
	ProtocolVersion = 4 // version sent in requests
	ModeClient      = 3 // mode sent in requests
	ModeServer      = 4 // mode required of replies
)

// maxRootUnits is one second in 16.16 fixed point. Root delay or root
// dispersion at or beyond this magnitude disqualifies a reply.
const maxRootUnits = 1 << 16

// Packet is one SNTP datagram in either direction. Fields hold raw wire
// values exactly as transmitted; interpretation lives in the accessors.
type Packet struct {
	Flags          uint32   // leap/version/mode, stratum, poll, precision
	RootDelay      uint32   // 16.16 fixed-point seconds, signed
	RootDispersion uint32   // 16.16 fixed-point seconds, signed
	ReferenceID    uint32
	ReferenceTime  uint64
	OriginateHi    uint32 // reply: echo of the request transmit pair
	OriginateLo    uint32
	ReceiveTime    uint64
	TransmitHi     uint32   // reply: server seconds since 1900
	TransmitLo     uint32   // request: random nonce
	KeyID          uint32   // zero when the suffix is absent
	Digest         [16]byte // zero when the suffix is absent
}

// packFlags builds the first wire word from version and mode. Stratum,
// poll and precision stay zero in a client request.
func packFlags(version, mode uint32) uint32 {
	return version<<27 | mode<<24
}

// Mode returns the association mode (low 3 bits of the top byte).
func (p *Packet) Mode() uint8 { return uint8(p.Flags>>24) & 0x07 }

// Version returns the protocol version number (next 3 bits up).
func (p *Packet) Version() uint8 { return uint8(p.Flags>>27) & 0x07 }

// Stratum returns the server stratum (second byte of the flags word).
func (p *Packet) Stratum() uint8 { return uint8(p.Flags >> 16) }

// ServerUnixSeconds converts the reply transmit timestamp to Unix
// seconds. Only meaningful on a validated server reply.
func (p *Packet) ServerUnixSeconds() int64 {
	return int64(p.TransmitHi) - unix1900Offset
}

// NTPSeconds converts Unix seconds to the 1900 protocol epoch, the form
// carried in the transmit timestamp high word.
func NTPSeconds(unix int64) uint32 {
	return uint32(unix + unix1900Offset)
}

// NewNonce draws the random low word of the request transmit timestamp.
// The (seconds, nonce) pair is the sole token tying a reply back to our
// request, so it must be unpredictable to an off-path spoofer.
func NewNonce() (uint32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// EncodeRequest fills the fixed 68-byte client request layout. now is
// the local clock in Unix seconds, nonce the random transmit low word.
// Every field not listed below is zero, including the authentication
// suffix. All multi-byte fields are big-endian.
func EncodeRequest(now int64, nonce uint32) []byte {
	b := make([]byte, packetSize)

	// Flags (4 bytes at offset 0): version 4, mode 3 (client)
	binary.BigEndian.PutUint32(b[0:4], packFlags(ProtocolVersion, ModeClient))

	// Transmit timestamp high word (4 bytes at offset 40): local
	// seconds converted to the 1900 protocol epoch
	binary.BigEndian.PutUint32(b[40:44], NTPSeconds(now))

	// Transmit timestamp low word (4 bytes at offset 44): nonce
	binary.BigEndian.PutUint32(b[44:48], nonce)

	return b
}

// DecodeReply reads the raw wire fields of a reply datagram. Replies may
// legally omit the 20-byte authentication suffix; anything below the
// 48-byte header fails with ErrShortPacket. No semantic validation
// happens here; that is ValidateReply's job.
func DecodeReply(data []byte) (*Packet, error) {
	if len(data) < minReplySize {
		return nil, fmt.Errorf("%w: got %d bytes, want at least %d",
			ErrShortPacket, len(data), minReplySize)
	}

	p := &Packet{}

	// Flags (4 bytes at offset 0)
	p.Flags = binary.BigEndian.Uint32(data[0:4])

	// Root delay (4 bytes at offset 4)
	p.RootDelay = binary.BigEndian.Uint32(data[4:8])

	// Root dispersion (4 bytes at offset 8)
	p.RootDispersion = binary.BigEndian.Uint32(data[8:12])

	// Reference identifier (4 bytes at offset 12)
	p.ReferenceID = binary.BigEndian.Uint32(data[12:16])

	// Reference timestamp (8 bytes at offset 16)
	p.ReferenceTime = binary.BigEndian.Uint64(data[16:24])

	// Originate timestamp pair (8 bytes at offset 24): the echo of the
	// request transmit pair
	p.OriginateHi = binary.BigEndian.Uint32(data[24:28])
	p.OriginateLo = binary.BigEndian.Uint32(data[28:32])

	// Receive timestamp (8 bytes at offset 32)
	p.ReceiveTime = binary.BigEndian.Uint64(data[32:40])

	// Transmit timestamp pair (8 bytes at offset 40)
	p.TransmitHi = binary.BigEndian.Uint32(data[40:44])
	p.TransmitLo = binary.BigEndian.Uint32(data[44:48])

	// Authentication suffix: key identifier (4 bytes at offset 48) and
	// message digest (16 bytes at offset 52). Absent fields decode as
	// zero; bytes beyond the 68-byte layout are ignored.
	if len(data) >= 52 {
		p.KeyID = binary.BigEndian.Uint32(data[48:52])
	}
	if len(data) > 52 {
		end := len(data)
		if end > packetSize {
			end = packetSize
		}
		copy(p.Digest[:], data[52:end])
	}

	return p, nil
}
