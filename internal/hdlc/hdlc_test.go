package hdlc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/strix/internal/crc"
)

func TestEncodeHeaderLayout(t *testing.T) {
	var h [HeaderSize]byte
	EncodeHeader(h[:], 0x0102)

	assert.Equal(t, FlagVal, h[FlagPos])
	assert.Equal(t, uint16(0x0102), PayloadLength(h[:]))
	assert.Equal(t, crc.Checksum8(h[:HcsPos]), HeaderChecksum(h[:]))
}

func TestValidateHeaderRoundTrip(t *testing.T) {
	for _, l := range []uint16{0, 1, 256, MaxPayloadSize} {
		var h [HeaderSize]byte
		EncodeHeader(h[:], l)
		require.True(t, ValidateHeader(h[:]), "payload length %d", l)
		assert.Equal(t, l, PayloadLength(h[:]))
	}
}

func TestValidateHeaderRejectsBadFlag(t *testing.T) {
	var h [HeaderSize]byte
	EncodeHeader(h[:], 10)
	h[FlagPos] = 0x7D
	assert.False(t, ValidateHeader(h[:]))
}

func TestValidateHeaderRejectsBadChecksum(t *testing.T) {
	var h [HeaderSize]byte
	EncodeHeader(h[:], 10)
	h[HcsPos] ^= 0xFF
	assert.False(t, ValidateHeader(h[:]))
}

func TestValidateHeaderRejectsCorruptedLength(t *testing.T) {
	var h [HeaderSize]byte
	EncodeHeader(h[:], 10)
	h[LenPos] ^= 0x01
	assert.False(t, ValidateHeader(h[:]))
}
