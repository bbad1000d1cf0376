// Package crc implements the checksums used on the co-processor link:
// an 8-bit CRC protecting frame headers and a 16-bit CRC (CCITT-FALSE)
// available to higher layers for payload verification.
package crc

const (
	poly8  = 0x07
	poly16 = 0x1021
	init16 = 0xFFFF
)

var table8 [256]byte

func init() {
	for i := 0; i < 256; i++ {
		c := byte(i)
		for b := 0; b < 8; b++ {
			if c&0x80 != 0 {
				c = (c << 1) ^ poly8
			} else {
				c <<= 1
			}
		}
		table8[i] = c
	}
}

// Checksum8 computes the 8-bit header CRC over data.
func Checksum8(data []byte) byte {
	var c byte
	for _, b := range data {
		c = table8[c^b]
	}
	return c
}

// Validate8 checks data against an expected 8-bit CRC.
func Validate8(data []byte, expected byte) bool {
	return Checksum8(data) == expected
}

// Checksum16 computes the 16-bit payload CRC over data.
func Checksum16(data []byte) uint16 {
	c := uint16(init16)
	for _, b := range data {
		c ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if c&0x8000 != 0 {
				c = (c << 1) ^ poly16
			} else {
				c <<= 1
			}
		}
	}
	return c
}

// Validate16 checks data against an expected 16-bit CRC.
func Validate16(data []byte, expected uint16) bool {
	return Checksum16(data) == expected
}
