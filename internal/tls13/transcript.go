package tls13

import (
	"crypto/hmac"
	"crypto/sha256"
	"hash"
)

// Transcript is the running SHA-256 hash over handshake-message bytes
// (not record headers), per spec §4.11 step 3: "Start a running SHA-256
// transcript hash over all handshake-message bytes."
type Transcript struct {
	h hash.Hash
}

// NewTranscript starts an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{h: sha256.New()}
}

// Write appends handshake-message bytes to the running hash.
func (t *Transcript) Write(msg []byte) {
	t.h.Write(msg)
}

// Sum returns the current transcript hash without altering further state
// (hash.Hash.Sum appends to, and returns, a copy — it never resets).
func (t *Transcript) Sum() []byte {
	return t.h.Sum(nil)
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
