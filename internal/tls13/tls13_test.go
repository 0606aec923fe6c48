package tls13

import (
	"bytes"
	"testing"
)

// TestRecordRoundTrip matches spec §8's record-layer invariant:
// decrypt_record(encrypt_record(rec, seq), seq) = rec for all plaintext
// records under a fixed key/IV.
func TestRecordRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, keyLen)
	iv := bytes.Repeat([]byte{0x02}, ivLen)

	cases := [][]byte{
		[]byte("hello, application data"),
		[]byte(""),
		bytes.Repeat([]byte{0xAB}, 1000),
	}
	for _, rec := range cases {
		var seq uint64 = 7
		encrypted, err := EncryptRecord(key, iv, seq, ContentTypeApplicationData, rec)
		if err != nil {
			t.Fatalf("EncryptRecord: %v", err)
		}
		contentType, plaintext, err := DecryptRecord(key, iv, seq, encrypted)
		if err != nil {
			t.Fatalf("DecryptRecord: %v", err)
		}
		if contentType != ContentTypeApplicationData {
			t.Errorf("contentType = %d, want %d", contentType, ContentTypeApplicationData)
		}
		if !bytes.Equal(plaintext, rec) {
			t.Errorf("round trip = %q, want %q", plaintext, rec)
		}
	}
}

func TestRecordRoundTripWrongSequenceFails(t *testing.T) {
	key := bytes.Repeat([]byte{0x03}, keyLen)
	iv := bytes.Repeat([]byte{0x04}, ivLen)

	encrypted, err := EncryptRecord(key, iv, 0, ContentTypeApplicationData, []byte("payload"))
	if err != nil {
		t.Fatalf("EncryptRecord: %v", err)
	}
	if _, _, err := DecryptRecord(key, iv, 1, encrypted); err == nil {
		t.Fatal("expected authentication failure under the wrong sequence number")
	}
}

func TestHKDFExpandLabelDeterministic(t *testing.T) {
	secret := bytes.Repeat([]byte{0xAA}, hashSize)
	a := hkdfExpandLabel(secret, "key", nil, keyLen)
	b := hkdfExpandLabel(secret, "key", nil, keyLen)
	if !bytes.Equal(a, b) {
		t.Error("hkdfExpandLabel should be deterministic for identical inputs")
	}
	other := hkdfExpandLabel(secret, "iv", nil, ivLen)
	if bytes.Equal(a[:ivLen], other) {
		t.Error("different labels should produce different output")
	}
}

func TestKeyScheduleProducesDistinctDirectionalKeys(t *testing.T) {
	shared := bytes.Repeat([]byte{0x11}, 32)
	helloHash := bytes.Repeat([]byte{0x22}, hashSize)

	ks := DeriveHandshakeSecrets(shared, helloHash)
	if bytes.Equal(ks.ClientHandshakeKeys.key, ks.ServerHandshakeKeys.key) {
		t.Error("client and server handshake keys should differ")
	}

	handshakeHash := bytes.Repeat([]byte{0x33}, hashSize)
	ks.DeriveApplicationSecrets(handshakeHash)
	if bytes.Equal(ks.ClientAppKeys.key, ks.ClientHandshakeKeys.key) {
		t.Error("application and handshake keys should differ")
	}
}

func TestFinishedVerifyDataDeterministic(t *testing.T) {
	secret := bytes.Repeat([]byte{0x55}, hashSize)
	hash := bytes.Repeat([]byte{0x66}, hashSize)
	a := FinishedVerifyData(secret, hash)
	b := FinishedVerifyData(secret, hash)
	if !bytes.Equal(a, b) {
		t.Error("FinishedVerifyData should be deterministic")
	}
	if len(a) != hashSize {
		t.Errorf("verify_data length = %d, want %d", len(a), hashSize)
	}
}

func TestClientHelloContainsKeyShareAndServerName(t *testing.T) {
	pub := bytes.Repeat([]byte{0x09}, 32)
	msg := BuildClientHello(ClientHelloParams{
		ClientPublicKey: pub,
		ServerName:      "example.com",
	})
	if msg[0] != HandshakeClientHello {
		t.Fatalf("message type = %d, want %d", msg[0], HandshakeClientHello)
	}
	if !bytes.Contains(msg, pub) {
		t.Error("expected the client's X25519 public key to appear in the ClientHello")
	}
	if !bytes.Contains(msg, []byte("example.com")) {
		t.Error("expected the server_name extension to carry the hostname")
	}
}

func TestServerHelloRoundTrip(t *testing.T) {
	serverPub := bytes.Repeat([]byte{0x07}, 32)

	// Hand-build a minimal ServerHello body carrying only a key_share
	// extension, mirroring RFC 8446 §4.1.3's layout.
	var body []byte
	body = append(body, 0x03, 0x03)           // legacy_version
	body = append(body, bytes.Repeat([]byte{0x01}, 32)...) // random
	body = append(body, 0x00)                  // session id len = 0
	body = append(body, 0x13, 0x01)            // cipher suite
	body = append(body, 0x00)                  // compression method

	keyShareEntry := append(append([]byte{0x00, 0x1D}, 0x00, 0x20), serverPub...)
	keyShareExt := append([]byte{0x00, 0x33}, byte(len(keyShareEntry)>>8), byte(len(keyShareEntry)))
	keyShareExt = append(keyShareExt, keyShareEntry...)

	body = append(body, byte(len(keyShareExt)>>8), byte(len(keyShareExt)))
	body = append(body, keyShareExt...)

	sh, err := ParseServerHello(body)
	if err != nil {
		t.Fatalf("ParseServerHello: %v", err)
	}
	if !bytes.Equal(sh.ServerPublicKey, serverPub) {
		t.Errorf("ServerPublicKey = %x, want %x", sh.ServerPublicKey, serverPub)
	}
	if sh.CipherSuite != cipherSuiteAES128GCMSHA256 {
		t.Errorf("CipherSuite = %x, want %x", sh.CipherSuite, cipherSuiteAES128GCMSHA256)
	}
}

func TestSplitHandshakeMessagesHandlesConcatenation(t *testing.T) {
	a := wrapHandshake(HandshakeEncryptedExtensions, []byte{0x00, 0x00})
	b := wrapHandshake(HandshakeFinished, bytes.Repeat([]byte{0xAA}, hashSize))
	combined := append(append([]byte{}, a...), b...)

	msgs, err := SplitHandshakeMessages(combined)
	if err != nil {
		t.Fatalf("SplitHandshakeMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Type != HandshakeEncryptedExtensions || msgs[1].Type != HandshakeFinished {
		t.Errorf("types = %d, %d", msgs[0].Type, msgs[1].Type)
	}
}

func TestSplitPlaintextCapsAt16KiB(t *testing.T) {
	payload := bytes.Repeat([]byte{0x01}, 40*1024)
	chunks := SplitPlaintext(payload)
	total := 0
	for _, c := range chunks {
		if len(c) > maxPlaintextChunk {
			t.Fatalf("chunk of %d bytes exceeds the 16 KiB cap", len(c))
		}
		total += len(c)
	}
	if total != len(payload) {
		t.Errorf("total chunked bytes = %d, want %d", total, len(payload))
	}
}
