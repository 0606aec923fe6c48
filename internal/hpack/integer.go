// Package hpack implements spec §4.10: RFC 7541 HPACK header compression —
// prefix-coded integers, the static Huffman code, and a header-block
// decoder with static/dynamic table indexing.
package hpack

import (
	"errors"
	"fmt"
)

// ErrIntegerOverflow guards the decode loop per spec §4.10: "bound
// continuation bytes to avoid >28 shifted bits."
var ErrIntegerOverflow = errors.New("hpack: integer overflow")

// maxContinuationShift caps decodeInt's accumulated shift at 28 bits of
// continuation payload, per spec §4.10's explicit overflow guard.
const maxContinuationShift = 28

// encodeInt appends I encoded with an N-bit prefix (1<=N<=8) into buf,
// OR'd onto prefixBits (the already-set high bits of the first byte, e.g.
// an indexing flag). Per spec §4.10: "if I < 2^N-1, emit one byte with the
// low N bits of I OR'd into a prefix byte; else emit (prefix | (2^N-1)),
// then I-(2^N-1) in base-128 continuation (high bit set on all but final
// byte)."
func encodeInt(buf []byte, prefixBits byte, n int, i uint64) []byte {
	max := uint64(1)<<uint(n) - 1
	if i < max {
		return append(buf, prefixBits|byte(i))
	}
	buf = append(buf, prefixBits|byte(max))
	i -= max
	for i >= 128 {
		buf = append(buf, byte(i%128)+128)
		i /= 128
	}
	return append(buf, byte(i))
}

// decodeInt decodes an N-bit-prefixed integer starting at buf[0], whose
// low N bits (after masking off the upper 8-N flag bits) hold the prefix
// value. Returns the decoded integer and the number of bytes consumed.
func decodeInt(buf []byte, n int) (uint64, int, error) {
	if len(buf) == 0 {
		return 0, 0, errors.New("hpack: empty buffer decoding integer")
	}
	mask := byte(1)<<uint(n) - 1
	i := uint64(buf[0] & mask)
	if i < uint64(mask) {
		return i, 1, nil
	}
	shift := 0
	pos := 1
	for {
		if shift > maxContinuationShift {
			return 0, 0, ErrIntegerOverflow
		}
		if pos >= len(buf) {
			return 0, 0, fmt.Errorf("hpack: truncated integer continuation")
		}
		b := buf[pos]
		pos++
		i += uint64(b&0x7f) << uint(shift)
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	return i, pos, nil
}
