// Package hdlc defines the wire header of link frames and the pure
// encode/validate helpers consumed by the driver. A frame on the wire is
//
//	[flag byte][payload length, uint16 BE][header crc][payload ...]
//
// where the payload length counts every byte after the header, including
// any payload-level checksum a higher layer appends. The driver treats
// the payload as opaque.
package hdlc

import (
	"encoding/binary"

	"firestige.xyz/strix/internal/crc"
)

const (
	// FlagVal is the sentinel byte opening every frame header.
	FlagVal byte = 0x7E

	// FlagPos, LenPos and HcsPos locate the header fields.
	FlagPos = 0
	LenPos  = 1
	HcsPos  = 3

	// HeaderSize is the fixed raw header size in bytes.
	HeaderSize = 4

	// MaxPayloadSize bounds a single frame payload.
	MaxPayloadSize = 4096
)

// EncodeHeader writes a frame header for a payload of the given length
// into dst, which must hold at least HeaderSize bytes.
func EncodeHeader(dst []byte, payloadLen uint16) {
	dst[FlagPos] = FlagVal
	binary.BigEndian.PutUint16(dst[LenPos:HcsPos], payloadLen)
	dst[HcsPos] = crc.Checksum8(dst[:HcsPos])
}

// PayloadLength reads the payload length field from a header.
func PayloadLength(header []byte) uint16 {
	return binary.BigEndian.Uint16(header[LenPos:HcsPos])
}

// HeaderChecksum reads the header crc field from a header.
func HeaderChecksum(header []byte) byte {
	return header[HcsPos]
}

// ValidateHeader reports whether the first HeaderSize bytes of buf form
// a valid frame header: flag byte present and header crc matching.
func ValidateHeader(buf []byte) bool {
	if buf[FlagPos] != FlagVal {
		return false
	}
	return crc.Validate8(buf[:HcsPos], buf[HcsPos])
}
