package tls13

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"
)

// TLS record content types, per RFC 8446 §5.1.
const (
	ContentTypeChangeCipherSpec byte = 20
	ContentTypeAlert            byte = 21
	ContentTypeHandshake        byte = 22
	ContentTypeApplicationData  byte = 23
)

// legacyRecordVersion is TLS 1.3's fixed on-the-wire record version
// (0x0303, "TLS 1.2"), per spec §4.11.2.
const legacyRecordVersion = 0x0303

// maxPlaintextChunk caps outgoing payload chunks, per spec §4.11.2:
// "Outgoing payload chunks cap at 16 KiB."
const maxPlaintextChunk = 16 * 1024

// recordHeaderLen is the 5-byte record header: content_type(1) |
// legacy_version(2) | length(2).
const recordHeaderLen = 5

// Record is a single TLS record as it appears on the wire.
type Record struct {
	ContentType byte
	Payload     []byte
}

// EncodeRecord serialises a plaintext record: content_type | version |
// length | payload, per spec §4.11.2.
func EncodeRecord(contentType byte, payload []byte) []byte {
	out := make([]byte, recordHeaderLen+len(payload))
	out[0] = contentType
	binary.BigEndian.PutUint16(out[1:3], legacyRecordVersion)
	binary.BigEndian.PutUint16(out[3:5], uint16(len(payload)))
	copy(out[recordHeaderLen:], payload)
	return out
}

// SplitPlaintext chunks a handshake/application payload into pieces no
// larger than maxPlaintextChunk, per spec §4.11.2.
func SplitPlaintext(payload []byte) [][]byte {
	if len(payload) == 0 {
		return [][]byte{payload}
	}
	var chunks [][]byte
	for len(payload) > 0 {
		n := min(len(payload), maxPlaintextChunk)
		chunks = append(chunks, payload[:n])
		payload = payload[n:]
	}
	return chunks
}

// nonce computes the per-record AES-GCM nonce: the 12-byte IV XOR the
// big-endian 64-bit sequence number left-padded with zeros, per spec
// §4.11.2.
func nonce(iv []byte, seq uint64) []byte {
	out := make([]byte, len(iv))
	copy(out, iv)
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], seq)
	for i := range seqBytes {
		out[len(out)-8+i] ^= seqBytes[i]
	}
	return out
}

// EncryptRecord encrypts plaintext||innerContentType (spec §4.11.2's
// inner plaintext layout; no zero padding is added) into an
// outer ApplicationData record under key/iv at sequence number seq. The
// record header (post-encryption, with the ciphertext+tag length) is
// used as the GCM additional authenticated data.
func EncryptRecord(key, iv []byte, seq uint64, innerContentType byte, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("tls13: aes cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("tls13: gcm: %w", err)
	}

	inner := append(append([]byte{}, plaintext...), innerContentType)
	ciphertextLen := len(inner) + gcm.Overhead()

	header := make([]byte, recordHeaderLen)
	header[0] = ContentTypeApplicationData
	binary.BigEndian.PutUint16(header[1:3], legacyRecordVersion)
	binary.BigEndian.PutUint16(header[3:5], uint16(ciphertextLen))

	sealed := gcm.Seal(nil, nonce(iv, seq), inner, header)
	return append(header, sealed...), nil
}

// DecryptRecord reverses EncryptRecord: given a full record (header +
// ciphertext), it authenticates and decrypts, then strips the trailing
// inner_content_type (and any zero padding before it), returning the
// inner content type and the plaintext.
func DecryptRecord(key, iv []byte, seq uint64, record []byte) (innerContentType byte, plaintext []byte, err error) {
	if len(record) < recordHeaderLen {
		return 0, nil, fmt.Errorf("tls13: record shorter than header")
	}
	header := record[:recordHeaderLen]
	ciphertext := record[recordHeaderLen:]

	block, err := aes.NewCipher(key)
	if err != nil {
		return 0, nil, fmt.Errorf("tls13: aes cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return 0, nil, fmt.Errorf("tls13: gcm: %w", err)
	}

	inner, err := gcm.Open(nil, nonce(iv, seq), ciphertext, header)
	if err != nil {
		return 0, nil, fmt.Errorf("tls13: record authentication failed: %w", err)
	}

	// Strip trailing zero padding, then the inner content type byte.
	i := len(inner) - 1
	for i >= 0 && inner[i] == 0 {
		i--
	}
	if i < 0 {
		return 0, nil, fmt.Errorf("tls13: decrypted record has no inner content type")
	}
	return inner[i], inner[:i], nil
}
