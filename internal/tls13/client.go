package tls13

import (
	"crypto/hmac"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/ehrlich-b/browsercore/internal/x25519"
	"github.com/ehrlich-b/browsercore/internal/x509min"
)

// State is the client connection's handshake state, per spec §4.11.
type State int

const (
	StateStart State = iota
	StateWaitServerHello
	StateWaitEncryptedExtensions
	StateConnected
)

// Conn drives one TLS 1.3 client handshake over an underlying
// byte stream (a TCP connection in production, anything implementing
// io.ReadWriter in tests), per spec §4.11's 8-step sequence.
type Conn struct {
	raw io.ReadWriter

	hostname string

	priv *x25519.PrivateKey

	transcript *Transcript
	schedule   *KeySchedule

	clientSeq uint64
	serverSeq uint64

	state State

	PeerCertificates []*x509min.Certificate
}

// NewConn wraps raw with a TLS 1.3 client state machine for hostname
// (used in the server_name extension and for certificate hostname
// verification).
func NewConn(raw io.ReadWriter, hostname string) *Conn {
	return &Conn{raw: raw, hostname: hostname, transcript: NewTranscript(), state: StateStart}
}

// Handshake runs spec §4.11 steps 1 through 8 to completion, leaving
// the connection in StateConnected with application traffic keys
// installed.
func (c *Conn) Handshake() error {
	// Step 1: X25519 key pair.
	priv, err := x25519.GeneratePrivateKey()
	if err != nil {
		return fmt.Errorf("tls13: generating key share: %w", err)
	}
	c.priv = priv

	// Step 2-3: build and send ClientHello as a single plaintext record.
	var random [32]byte
	if _, err := rand.Read(random[:]); err != nil {
		return fmt.Errorf("tls13: client random: %w", err)
	}
	var sessionID [32]byte
	if _, err := rand.Read(sessionID[:]); err != nil {
		return fmt.Errorf("tls13: legacy session id: %w", err)
	}

	clientHello := BuildClientHello(ClientHelloParams{
		Random:          random,
		LegacySessionID: sessionID,
		ClientPublicKey: priv.Public(),
		ServerName:      c.hostname,
	})
	c.transcript.Write(clientHello)
	if _, err := c.raw.Write(EncodeRecord(ContentTypeHandshake, clientHello)); err != nil {
		return fmt.Errorf("tls13: sending ClientHello: %w", err)
	}
	c.state = StateWaitServerHello

	// Step 4: read ServerHello.
	shRecord, err := readPlaintextHandshakeRecord(c.raw)
	if err != nil {
		return fmt.Errorf("tls13: reading ServerHello record: %w", err)
	}
	msgs, err := SplitHandshakeMessages(shRecord)
	if err != nil {
		return err
	}
	if len(msgs) != 1 || msgs[0].Type != HandshakeServerHello {
		return fmt.Errorf("tls13: expected a single ServerHello message")
	}
	c.transcript.Write(wrapHandshake(HandshakeServerHello, msgs[0].Body))
	serverHello, err := ParseServerHello(msgs[0].Body)
	if err != nil {
		return err
	}

	// Step 5: shared secret.
	sharedSecret, err := priv.SharedSecret(serverHello.ServerPublicKey)
	if err != nil {
		return fmt.Errorf("tls13: deriving shared secret: %w", err)
	}

	// Step 6: handshake keys.
	helloHash := c.transcript.Sum()
	c.schedule = DeriveHandshakeSecrets(sharedSecret, helloHash)
	c.serverSeq = 0
	c.state = StateWaitEncryptedExtensions

	// Step 7: read the encrypted flight (EncryptedExtensions, Certificate,
	// CertificateVerify, Finished), which may span several records.
	var serverFinished []byte
	for serverFinished == nil {
		record, err := readRecord(c.raw)
		if err != nil {
			return fmt.Errorf("tls13: reading handshake flight: %w", err)
		}
		_, plaintext, err := DecryptRecord(c.schedule.ServerHandshakeKeys.key, c.schedule.ServerHandshakeKeys.iv, c.serverSeq, record)
		if err != nil {
			return err
		}
		c.serverSeq++

		flightMsgs, err := SplitHandshakeMessages(plaintext)
		if err != nil {
			return err
		}
		for _, m := range flightMsgs {
			if m.Type == HandshakeFinished {
				// verify_data covers the transcript up to but not
				// including this Finished message itself.
				want := FinishedVerifyData(c.schedule.ServerHandshakeTrafficSecret, c.transcript.Sum())
				if !hmac.Equal(want, m.Body) {
					return fmt.Errorf("tls13: server Finished verify_data mismatch")
				}
				serverFinished = append([]byte{}, m.Body...)
			}
			c.transcript.Write(wrapHandshake(m.Type, m.Body))
			if m.Type == HandshakeCertificate {
				certs, err := x509min.ParseCertificateMessage(m.Body)
				if err != nil {
					return fmt.Errorf("tls13: parsing Certificate message: %w", err)
				}
				c.PeerCertificates = certs
			}
		}
	}

	if err := c.verifyPeerCertificates(); err != nil {
		return err
	}

	// Step 8: application keys, computed from the transcript hash up to
	// (but not including) the client's own Finished message.
	handshakeHash := c.transcript.Sum()
	c.schedule.DeriveApplicationSecrets(handshakeHash)

	if _, err := c.raw.Write(EncodeRecord(ContentTypeChangeCipherSpec, []byte{0x01})); err != nil {
		return fmt.Errorf("tls13: sending ChangeCipherSpec: %w", err)
	}

	clientFinishedVerify := FinishedVerifyData(c.schedule.ClientHandshakeTrafficSecret, handshakeHash)
	clientFinished := BuildFinished(clientFinishedVerify)
	encrypted, err := EncryptRecord(c.schedule.ClientHandshakeKeys.key, c.schedule.ClientHandshakeKeys.iv, c.clientSeq, ContentTypeHandshake, clientFinished)
	if err != nil {
		return fmt.Errorf("tls13: encrypting client Finished: %w", err)
	}
	c.clientSeq = 0 // sequence numbers reset on each key change, per spec §4.11.2
	c.serverSeq = 0
	if _, err := c.raw.Write(encrypted); err != nil {
		return fmt.Errorf("tls13: sending client Finished: %w", err)
	}

	c.state = StateConnected
	return nil
}

// verifyPeerCertificates applies spec §4.11.4's chain-verification
// floor (hostname-matches-leaf, issuer/subject chain linkage) against
// the certificates collected during the handshake. No signature
// verification is performed, per spec §9.
func (c *Conn) verifyPeerCertificates() error {
	if len(c.PeerCertificates) == 0 {
		return fmt.Errorf("tls13: server sent no certificates")
	}
	return x509min.VerifyChain(c.PeerCertificates, c.hostname)
}

// Write encrypts and sends application data once the connection is
// StateConnected.
func (c *Conn) Write(p []byte) (int, error) {
	if c.state != StateConnected {
		return 0, fmt.Errorf("tls13: Write before handshake completion")
	}
	for _, chunk := range SplitPlaintext(p) {
		record, err := EncryptRecord(c.schedule.ClientAppKeys.key, c.schedule.ClientAppKeys.iv, c.clientSeq, ContentTypeApplicationData, chunk)
		if err != nil {
			return 0, err
		}
		c.clientSeq++
		if _, err := c.raw.Write(record); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Read decrypts the next application-data record.
func (c *Conn) Read() ([]byte, error) {
	if c.state != StateConnected {
		return nil, fmt.Errorf("tls13: Read before handshake completion")
	}
	record, err := readRecord(c.raw)
	if err != nil {
		return nil, err
	}
	_, plaintext, err := DecryptRecord(c.schedule.ServerAppKeys.key, c.schedule.ServerAppKeys.iv, c.serverSeq, record)
	if err != nil {
		return nil, err
	}
	c.serverSeq++
	return plaintext, nil
}

func readRecord(r io.Reader) ([]byte, error) {
	header := make([]byte, recordHeaderLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	length := int(header[3])<<8 | int(header[4])
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return append(header, payload...), nil
}

// readPlaintextHandshakeRecord reads one record and returns its
// payload, verifying it is tagged Handshake (used only for the initial
// plaintext ServerHello record).
func readPlaintextHandshakeRecord(r io.Reader) ([]byte, error) {
	record, err := readRecord(r)
	if err != nil {
		return nil, err
	}
	if record[0] != ContentTypeHandshake {
		return nil, fmt.Errorf("tls13: expected a Handshake record, got content type %d", record[0])
	}
	return record[recordHeaderLen:], nil
}
