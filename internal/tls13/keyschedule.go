// Package tls13 implements spec §4.11's TLS 1.3 client: handshake
// message construction/parsing, the HKDF key schedule, and the
// AES-128-GCM record layer, restricted to TLS_AES_128_GCM_SHA256 and
// the X25519 group per the spec's stated subset.
package tls13

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	hashSize = sha256.Size
	keyLen   = 16 // AES-128-GCM key
	ivLen    = 12
)

// hkdfExtract implements RFC 5869's HKDF-Extract over SHA-256: PRK =
// HMAC-SHA256(salt, IKM). A nil/empty salt is treated as a string of
// hashSize zero bytes, per RFC 5869.
func hkdfExtract(salt, ikm []byte) []byte {
	if len(salt) == 0 {
		salt = make([]byte, hashSize)
	}
	return hkdf.Extract(sha256.New, ikm, salt)
}

// hkdfExpandLabel implements RFC 8446 §7.1's HKDF-Expand-Label: the
// info parameter is a length-prefixed "tls13 "+label followed by a
// length-prefixed context, per spec §4.11.1.
func hkdfExpandLabel(secret []byte, label string, context []byte, length int) []byte {
	fullLabel := "tls13 " + label

	info := make([]byte, 0, 2+1+len(fullLabel)+1+len(context))
	info = binary.BigEndian.AppendUint16(info, uint16(length))
	info = append(info, byte(len(fullLabel)))
	info = append(info, fullLabel...)
	info = append(info, byte(len(context)))
	info = append(info, context...)

	out := make([]byte, length)
	r := hkdf.Expand(sha256.New, secret, info)
	if _, err := io.ReadFull(r, out); err != nil {
		// Expand only fails when length exceeds 255*hashSize, which
		// never happens for the 12/16/32-byte lengths this package asks for.
		panic(fmt.Sprintf("tls13: hkdf expand: %v", err))
	}
	return out
}

// deriveSecret implements RFC 8446 §7.1's Derive-Secret(secret, label,
// messages) = HKDF-Expand-Label(secret, label, Hash(messages), Hash.length).
func deriveSecret(secret []byte, label string, transcriptHash []byte) []byte {
	return hkdfExpandLabel(secret, label, transcriptHash, hashSize)
}

// trafficKeys is the per-direction {key, iv} pair derived from a
// traffic secret, per spec §4.11.1's final bullet.
type trafficKeys struct {
	key []byte
	iv  []byte
}

func deriveTrafficKeys(secret []byte) trafficKeys {
	return trafficKeys{
		key: hkdfExpandLabel(secret, "key", nil, keyLen),
		iv:  hkdfExpandLabel(secret, "iv", nil, ivLen),
	}
}

// KeySchedule carries every secret and derived key spec §4.11.1 names,
// filled in two stages: DeriveHandshakeSecrets from the shared secret and
// the transcript hash after ServerHello, then DeriveApplicationSecrets
// from the transcript hash after the server's handshake flight.
type KeySchedule struct {
	HandshakeSecret []byte
	MasterSecret    []byte

	ClientHandshakeTrafficSecret []byte
	ServerHandshakeTrafficSecret []byte
	ClientAppTrafficSecret       []byte
	ServerAppTrafficSecret       []byte

	ClientHandshakeKeys trafficKeys
	ServerHandshakeKeys trafficKeys
	ClientAppKeys       trafficKeys
	ServerAppKeys       trafficKeys
}

// DeriveHandshakeSecrets computes the handshake-traffic-secret stage of
// the schedule (spec §4.11.1, steps through `derived_handshake`), given
// the X25519 shared secret and the transcript hash through ServerHello
// ("hello_hash").
func DeriveHandshakeSecrets(sharedSecret, helloHash []byte) *KeySchedule {
	earlySecret := hkdfExtract(nil, make([]byte, hashSize))
	derivedEarly := deriveSecret(earlySecret, "derived", emptyHash())
	handshakeSecret := hkdfExtract(derivedEarly, sharedSecret)

	ks := &KeySchedule{HandshakeSecret: handshakeSecret}
	ks.ClientHandshakeTrafficSecret = deriveSecret(handshakeSecret, "c hs traffic", helloHash)
	ks.ServerHandshakeTrafficSecret = deriveSecret(handshakeSecret, "s hs traffic", helloHash)
	ks.ClientHandshakeKeys = deriveTrafficKeys(ks.ClientHandshakeTrafficSecret)
	ks.ServerHandshakeKeys = deriveTrafficKeys(ks.ServerHandshakeTrafficSecret)
	return ks
}

// DeriveApplicationSecrets completes the schedule (spec §4.11.1's
// remaining bullets) given the transcript hash through the server's
// Finished message ("handshake_hash").
func (ks *KeySchedule) DeriveApplicationSecrets(handshakeHash []byte) {
	derivedHandshake := deriveSecret(ks.HandshakeSecret, "derived", emptyHash())
	masterSecret := hkdfExtract(derivedHandshake, make([]byte, hashSize))
	ks.MasterSecret = masterSecret

	ks.ClientAppTrafficSecret = deriveSecret(masterSecret, "c ap traffic", handshakeHash)
	ks.ServerAppTrafficSecret = deriveSecret(masterSecret, "s ap traffic", handshakeHash)
	ks.ClientAppKeys = deriveTrafficKeys(ks.ClientAppTrafficSecret)
	ks.ServerAppKeys = deriveTrafficKeys(ks.ServerAppTrafficSecret)
}

// FinishedVerifyData computes spec §4.11 step 8's Finished payload:
// HMAC-SHA256(derive(traffic_secret, "finished", ""), transcript_hash).
func FinishedVerifyData(trafficSecret, transcriptHash []byte) []byte {
	finishedKey := hkdfExpandLabel(trafficSecret, "finished", nil, hashSize)
	return hmacSHA256(finishedKey, transcriptHash)
}

func emptyHash() []byte {
	h := sha256.Sum256(nil)
	return h[:]
}
