// Package x25519 implements spec §4.11 step 1: X25519 key generation and
// Diffie-Hellman scalar multiplication for the TLS 1.3 handshake's key
// exchange, per RFC 7748.
//
// Scalar multiplication is a hand-rolled Montgomery ladder over
// GF(2^255 - 19), ported limb-for-limb from the field arithmetic in
// original_source/crates/tls/src/client.rs (fe_add/fe_sub/fe_mul/fe_invert/
// fe_cswap plus the ladder loop in x25519_scalar_mult) rather than delegated
// to crypto/ecdh — this is one of the subsystems the spec calls out as
// requiring the primitive itself, not a wrapper around it.
package x25519

import (
	"crypto/rand"
	"fmt"
	"math/bits"
)

// KeySize is the byte length of an X25519 scalar, public key, or shared
// secret.
const KeySize = 32

// Clamp applies RFC 7748 §5's scalar clamp in place: "k[0] &= 248;
// k[31] &= 127; k[31] |= 64."
func Clamp(k *[KeySize]byte) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}

// PrivateKey is a clamped X25519 scalar together with its derived public
// key.
type PrivateKey struct {
	scalar [KeySize]byte
	pub    [KeySize]byte
}

// GeneratePrivateKey draws 32 bytes from the OS entropy source, clamps
// them per RFC 7748, and derives the corresponding public key (the scalar
// multiplied by the u=9 base point), per spec §4.11 step 1.
func GeneratePrivateKey() (*PrivateKey, error) {
	var scalar [KeySize]byte
	if _, err := rand.Read(scalar[:]); err != nil {
		return nil, fmt.Errorf("x25519: reading entropy: %w", err)
	}
	return NewPrivateKey(scalar[:])
}

// NewPrivateKey wraps an existing 32-byte scalar (e.g. an RFC 7748 §6.1
// test vector) as a PrivateKey, clamping it and deriving its public key.
func NewPrivateKey(scalar []byte) (*PrivateKey, error) {
	if len(scalar) != KeySize {
		return nil, fmt.Errorf("x25519: scalar must be %d bytes, got %d", KeySize, len(scalar))
	}
	p := &PrivateKey{}
	copy(p.scalar[:], scalar)

	base := [KeySize]byte{9}
	pub := scalarMult(p.scalar, base)
	p.pub = pub
	return p, nil
}

// Public returns the scalar's public key: scalar * basepoint(u=9).
func (p *PrivateKey) Public() []byte {
	out := p.pub
	return out[:]
}

// ScalarBytes returns the raw 32-byte scalar.
func (p *PrivateKey) ScalarBytes() []byte {
	out := p.scalar
	return out[:]
}

// SharedSecret computes scalar * peerPublic, per spec §4.11 step 5:
// "shared secret = X25519(our private, server public)."
func (p *PrivateKey) SharedSecret(peerPublic []byte) ([]byte, error) {
	if len(peerPublic) != KeySize {
		return nil, fmt.Errorf("x25519: peer public key must be %d bytes, got %d", KeySize, len(peerPublic))
	}
	var peer [KeySize]byte
	copy(peer[:], peerPublic)
	out := scalarMult(p.scalar, peer)
	return out[:], nil
}

// ScalarMult computes scalar * point directly, matching RFC 7748 §6.1's
// test-vector shape (an arbitrary scalar against an arbitrary u-coordinate,
// not necessarily the caller's own key pair).
func ScalarMult(scalar, point []byte) ([]byte, error) {
	if len(scalar) != KeySize || len(point) != KeySize {
		return nil, fmt.Errorf("x25519: scalar and point must each be %d bytes", KeySize)
	}
	var k, u [KeySize]byte
	copy(k[:], scalar)
	copy(u[:], point)
	out := scalarMult(k, u)
	return out[:], nil
}

// ScalarBaseMult computes scalar * basepoint(u=9) directly.
func ScalarBaseMult(scalar []byte) ([]byte, error) {
	base := [KeySize]byte{9}
	return ScalarMult(scalar, base[:])
}

// scalarMult runs the RFC 7748 Montgomery ladder over GF(2^255 - 19),
// clamping k first per §5.
func scalarMult(k, u [KeySize]byte) [KeySize]byte {
	Clamp(&k)

	x1 := decodeUCoordinate(u)
	x2 := feOne()
	z2 := feZero()
	x3 := x1
	z3 := feOne()
	var swap uint64

	for t := 254; t >= 0; t-- {
		byteIdx := t / 8
		bitIdx := uint(t % 8)
		kt := uint64((k[byteIdx] >> bitIdx) & 1)

		swap ^= kt
		feCswap(&x2, &x3, swap)
		feCswap(&z2, &z3, swap)
		swap = kt

		a := feAdd(x2, z2)
		aa := feMul(a, a)
		b := feSub(x2, z2)
		bb := feMul(b, b)
		e := feSub(aa, bb)
		c := feAdd(x3, z3)
		d := feSub(x3, z3)
		da := feMul(d, a)
		cb := feMul(c, b)

		x3sum := feAdd(da, cb)
		x3 = feMul(x3sum, x3sum)
		x3diff := feSub(da, cb)
		z3 = feMul(x1, feMul(x3diff, x3diff))
		x2 = feMul(aa, bb)
		a24 := fe{121665, 0, 0, 0}
		z2 = feMul(e, feAdd(aa, feMul(a24, e)))
	}

	feCswap(&x2, &x3, swap)
	feCswap(&z2, &z3, swap)

	result := feMul(x2, feInvert(z2))
	return encodeUCoordinate(result)
}

// ─────────────────────────────────────────────────────────────────────────
// GF(2^255 - 19) field arithmetic (4 x u64 limbs, little-endian)
// ─────────────────────────────────────────────────────────────────────────

type fe [4]uint64

// p = 2^255 - 19.
var feP = fe{
	0xFFFFFFFFFFFFFFED,
	0xFFFFFFFFFFFFFFFF,
	0xFFFFFFFFFFFFFFFF,
	0x7FFFFFFFFFFFFFFF,
}

func feZero() fe { return fe{} }
func feOne() fe  { return fe{1, 0, 0, 0} }

func decodeUCoordinate(b [32]byte) fe {
	var r fe
	for i := 0; i < 4; i++ {
		var limb uint64
		for j := 0; j < 8; j++ {
			limb |= uint64(b[i*8+j]) << (uint(j) * 8)
		}
		r[i] = limb
	}
	r[3] &= 0x7FFFFFFFFFFFFFFF
	return r
}

func encodeUCoordinate(a fe) [32]byte {
	r := feReduce(a)
	var out [32]byte
	for i := 0; i < 4; i++ {
		for j := 0; j < 8; j++ {
			out[i*8+j] = byte(r[i] >> (uint(j) * 8))
		}
	}
	return out
}

func feReduce(a fe) fe {
	d0, borrow := bits.Sub64(a[0], feP[0], 0)
	d1, borrow := bits.Sub64(a[1], feP[1], borrow)
	d2, borrow := bits.Sub64(a[2], feP[2], borrow)
	d3, borrow := bits.Sub64(a[3], feP[3], borrow)
	if borrow != 0 {
		return a
	}
	return fe{d0, d1, d2, d3}
}

func feAdd(a, b fe) fe {
	s0, carry := bits.Add64(a[0], b[0], 0)
	s1, carry := bits.Add64(a[1], b[1], carry)
	s2, carry := bits.Add64(a[2], b[2], carry)
	s3, _ := bits.Add64(a[3], b[3], carry)
	return feReduce(fe{s0, s1, s2, s3})
}

func feSub(a, b fe) fe {
	d0, borrow := bits.Sub64(a[0], b[0], 0)
	d1, borrow := bits.Sub64(a[1], b[1], borrow)
	d2, borrow := bits.Sub64(a[2], b[2], borrow)
	d3, borrow := bits.Sub64(a[3], b[3], borrow)
	if borrow != 0 {
		r0, carry := bits.Add64(d0, feP[0], 0)
		r1, carry := bits.Add64(d1, feP[1], carry)
		r2, carry := bits.Add64(d2, feP[2], carry)
		r3, _ := bits.Add64(d3, feP[3], carry)
		return fe{r0, r1, r2, r3}
	}
	return fe{d0, d1, d2, d3}
}

// addWordAt adds v into words[idx], rippling any carry into the higher
// words. Callers size words with enough headroom that the carry chain
// never runs past the end of the slice.
func addWordAt(words []uint64, idx int, v uint64) {
	for v != 0 {
		sum, carry := bits.Add64(words[idx], v, 0)
		words[idx] = sum
		v = carry
		idx++
	}
}

// feMul computes a*b mod p via schoolbook multiplication into 8 limbs
// followed by the 2^255 ≡ 19 (mod p) reduction (2^256 ≡ 38 (mod p)).
func feMul(a, b fe) fe {
	var t [9]uint64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			hi, lo := bits.Mul64(a[i], b[j])
			addWordAt(t[:], i+j, lo)
			addWordAt(t[:], i+j+1, hi)
		}
	}

	var r [6]uint64
	for i := 0; i < 4; i++ {
		r[i] = t[i]
	}
	for i := 0; i < 4; i++ {
		hi, lo := bits.Mul64(t[i+4], 38)
		addWordAt(r[:], i, lo)
		addWordAt(r[:], i+1, hi)
	}

	top := (r[3] >> 63) & 1
	r[3] &= 0x7FFFFFFFFFFFFFFF
	extra := r[4]*2 + top
	exHi, exLo := bits.Mul64(extra, 19)
	addWordAt(r[:], 0, exLo)
	addWordAt(r[:], 1, exHi)

	return feReduce(fe{r[0], r[1], r[2], r[3]})
}

// feInvert computes a^(p-2) mod p via Fermat's little theorem, using a
// square-and-multiply chain over the bits of p-2 from LSB to MSB.
func feInvert(a fe) fe {
	result := feOne()
	base := a

	pMinus2 := fe{
		0xFFFFFFFFFFFFFFEB,
		0xFFFFFFFFFFFFFFFF,
		0xFFFFFFFFFFFFFFFF,
		0x7FFFFFFFFFFFFFFF,
	}

	for i := 0; i < 4; i++ {
		word := pMinus2[i]
		nbits := 64
		if i == 3 {
			nbits = 63
		}
		for b := 0; b < nbits; b++ {
			if word&1 == 1 {
				result = feMul(result, base)
			}
			base = feMul(base, base)
			word >>= 1
		}
	}

	return result
}

// feCswap swaps a and b in constant time when swap is 1, leaves them
// unchanged when swap is 0.
func feCswap(a, b *fe, swap uint64) {
	mask := -swap
	for i := 0; i < 4; i++ {
		t := mask & (a[i] ^ b[i])
		a[i] ^= t
		b[i] ^= t
	}
}
