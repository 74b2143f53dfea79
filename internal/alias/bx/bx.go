// stand for bytes helper
package bx

import (
	"encoding/binary"
	"math/bits"
)

var BE = binary.BigEndian

// --- BE: read ---
func U16(b []byte) uint16 { return BE.Uint16(b) }
func U32(b []byte) uint32 { return BE.Uint32(b) }
func U64(b []byte) uint64 { return BE.Uint64(b) }

// --- BE: write ---
func PutU16(b []byte, v uint16) { BE.PutUint16(b, v) }
func PutU32(b []byte, v uint32) { BE.PutUint32(b, v) }
func PutU64(b []byte, v uint64) { BE.PutUint64(b, v) }

// UN reads an unsigned big-endian integer of len(b) bytes (1..8).
func UN(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// SignExtend interprets the low width*8 bits of v as two's complement.
func SignExtend(v uint64, width int) int64 {
	shift := 64 - uint(width)*8
	return int64(v<<shift) >> shift
}

// HasBit reports whether bit i (0 = least significant) of v is set.
func HasBit(v uint64, i uint) bool { return v&(1<<i) != 0 }

// --- gamma: byte-oriented prefix code ---
//
// The count of leading one bits in the first byte is the number of
// continuation bytes that follow (0..8). The remaining low bits of the
// first byte are the most significant bits of the value.

// GammaExtra returns the number of continuation bytes announced by first.
func GammaExtra(first byte) int { return bits.LeadingZeros8(^first) }

// GammaHead returns the value bits carried by the first byte.
func GammaHead(first byte) uint64 {
	n := GammaExtra(first)
	if n >= 7 {
		return 0
	}
	return uint64(first) & (0x7f >> n)
}

// GammaLen returns the encoded size of v in bytes.
func GammaLen(v uint64) int {
	for n := 0; n < 8; n++ {
		// value bits available with n continuation bytes
		avail := uint(7-n) + uint(n)*8
		if n >= 7 {
			avail = uint(n) * 8
		}
		if avail >= 64 || v < 1<<avail {
			return n + 1
		}
	}
	return 9
}

// AppendGamma appends the gamma encoding of v to dst.
func AppendGamma(dst []byte, v uint64) []byte {
	size := GammaLen(v)
	n := size - 1
	prefix := byte(0xff << (8 - uint(n)))
	if n == 0 {
		prefix = 0
	}
	var tmp [9]byte
	if n >= 7 {
		tmp[0] = prefix
	} else {
		tmp[0] = prefix | byte(v>>(uint(n)*8))
	}
	for i := 0; i < n; i++ {
		tmp[size-1-i] = byte(v >> (uint(i) * 8))
	}
	return append(dst, tmp[:size]...)
}
