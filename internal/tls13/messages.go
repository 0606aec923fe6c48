package tls13

import (
	"encoding/binary"
	"fmt"
)

// Handshake message types used by this client's subset, per RFC 8446 §4.
const (
	HandshakeClientHello         byte = 1
	HandshakeServerHello         byte = 2
	HandshakeEncryptedExtensions byte = 8
	HandshakeCertificate         byte = 11
	HandshakeCertificateVerify   byte = 15
	HandshakeFinished            byte = 20
)

// Extension types spec §4.11 step 2 names.
const (
	extServerName       uint16 = 0
	extSupportedGroups   uint16 = 10
	extSignatureAlgos    uint16 = 13
	extKeyShare          uint16 = 51
	extSupportedVersions uint16 = 43
)

const (
	cipherSuiteAES128GCMSHA256 uint16 = 0x1301
	groupX25519                uint16 = 0x001D
	tls13VersionTag             uint16 = 0x0304
	// A placeholder RSA-PSS-SHA256 entry; the client only ever sends this
	// list, it never validates a server's choice since signature
	// verification is out of scope (spec §9).
	sigAlgRSAPSSRSAESHA256 uint16 = 0x0804
)

// ClientHelloParams carries the per-connection values spec §4.11 step 2
// asks for.
type ClientHelloParams struct {
	Random           [32]byte
	LegacySessionID  [32]byte
	ClientPublicKey  []byte // 32-byte X25519 public key
	ServerName       string
}

// BuildClientHello constructs spec §4.11 step 2's ClientHello handshake
// message (handshake header + body), restricted to
// TLS_AES_128_GCM_SHA256 and the X25519 group.
func BuildClientHello(p ClientHelloParams) []byte {
	var body []byte
	body = append(body, 0x03, 0x03) // legacy_version = TLS 1.2
	body = append(body, p.Random[:]...)
	body = append(body, byte(len(p.LegacySessionID)))
	body = append(body, p.LegacySessionID[:]...)

	// cipher_suites: a 2-byte length-prefixed list of one suite.
	body = binary.BigEndian.AppendUint16(body, 2)
	body = binary.BigEndian.AppendUint16(body, cipherSuiteAES128GCMSHA256)

	// legacy_compression_methods: one null method.
	body = append(body, 1, 0x00)

	extensions := buildClientExtensions(p)
	body = binary.BigEndian.AppendUint16(body, uint16(len(extensions)))
	body = append(body, extensions...)

	return wrapHandshake(HandshakeClientHello, body)
}

func buildClientExtensions(p ClientHelloParams) []byte {
	var ext []byte

	ext = appendExtension(ext, extSupportedVersions, func() []byte {
		v := []byte{2} // length of the version list
		v = binary.BigEndian.AppendUint16(v, tls13VersionTag)
		return v
	}())

	ext = appendExtension(ext, extSupportedGroups, func() []byte {
		v := make([]byte, 0, 4)
		v = binary.BigEndian.AppendUint16(v, 2)
		v = binary.BigEndian.AppendUint16(v, groupX25519)
		return v
	}())

	ext = appendExtension(ext, extSignatureAlgos, func() []byte {
		v := make([]byte, 0, 4)
		v = binary.BigEndian.AppendUint16(v, 2)
		v = binary.BigEndian.AppendUint16(v, sigAlgRSAPSSRSAESHA256)
		return v
	}())

	ext = appendExtension(ext, extKeyShare, func() []byte {
		entry := binary.BigEndian.AppendUint16(nil, groupX25519)
		entry = binary.BigEndian.AppendUint16(entry, uint16(len(p.ClientPublicKey)))
		entry = append(entry, p.ClientPublicKey...)
		v := binary.BigEndian.AppendUint16(nil, uint16(len(entry)))
		return append(v, entry...)
	}())

	if p.ServerName != "" {
		ext = appendExtension(ext, extServerName, func() []byte {
			name := []byte(p.ServerName)
			entry := []byte{0x00} // name_type = host_name
			entry = binary.BigEndian.AppendUint16(entry, uint16(len(name)))
			entry = append(entry, name...)
			v := binary.BigEndian.AppendUint16(nil, uint16(len(entry)))
			return append(v, entry...)
		}())
	}

	return ext
}

func appendExtension(buf []byte, extType uint16, data []byte) []byte {
	buf = binary.BigEndian.AppendUint16(buf, extType)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(data)))
	return append(buf, data...)
}

func wrapHandshake(msgType byte, body []byte) []byte {
	out := make([]byte, 4+len(body))
	out[0] = msgType
	out[1] = byte(len(body) >> 16)
	out[2] = byte(len(body) >> 8)
	out[3] = byte(len(body))
	copy(out[4:], body)
	return out
}

// ServerHello is the subset of ServerHello fields this client needs:
// the server's X25519 key-share public key, per spec §4.11 step 4.
type ServerHello struct {
	Random          [32]byte
	CipherSuite     uint16
	ServerPublicKey []byte
}

// ParseServerHello parses a ServerHello handshake message body (the
// bytes after the 4-byte handshake header), per spec §4.11 step 4:
// "extract the server's key_share extension payload as the 32-byte
// server public key."
func ParseServerHello(body []byte) (*ServerHello, error) {
	pos := 0
	if len(body) < 2+32+1 {
		return nil, fmt.Errorf("tls13: ServerHello truncated")
	}
	pos += 2 // legacy_version

	sh := &ServerHello{}
	copy(sh.Random[:], body[pos:pos+32])
	pos += 32

	sessionIDLen := int(body[pos])
	pos++
	pos += sessionIDLen
	if pos+2 > len(body) {
		return nil, fmt.Errorf("tls13: ServerHello truncated before cipher_suite")
	}

	sh.CipherSuite = binary.BigEndian.Uint16(body[pos : pos+2])
	pos += 2

	pos++ // legacy_compression_method

	if pos+2 > len(body) {
		return nil, fmt.Errorf("tls13: ServerHello truncated before extensions")
	}
	extLen := int(binary.BigEndian.Uint16(body[pos : pos+2]))
	pos += 2
	if pos+extLen > len(body) {
		return nil, fmt.Errorf("tls13: ServerHello extensions extend past message")
	}
	extensions := body[pos : pos+extLen]

	extPos := 0
	for extPos+4 <= len(extensions) {
		extType := binary.BigEndian.Uint16(extensions[extPos : extPos+2])
		extDataLen := int(binary.BigEndian.Uint16(extensions[extPos+2 : extPos+4]))
		extPos += 4
		if extPos+extDataLen > len(extensions) {
			return nil, fmt.Errorf("tls13: ServerHello extension data extends past list")
		}
		extData := extensions[extPos : extPos+extDataLen]
		extPos += extDataLen

		if extType == extKeyShare {
			if len(extData) < 4 {
				return nil, fmt.Errorf("tls13: key_share extension truncated")
			}
			keyLen := int(binary.BigEndian.Uint16(extData[2:4]))
			if 4+keyLen > len(extData) {
				return nil, fmt.Errorf("tls13: key_share key data truncated")
			}
			sh.ServerPublicKey = append([]byte{}, extData[4:4+keyLen]...)
		}
	}

	if sh.ServerPublicKey == nil {
		return nil, fmt.Errorf("tls13: ServerHello carried no key_share extension")
	}
	return sh, nil
}

// HandshakeMessage is one decoded handshake-layer message (after
// stripping the 4-byte type+length header), tagged with its type.
type HandshakeMessage struct {
	Type byte
	Body []byte
}

// SplitHandshakeMessages splits a decrypted record's plaintext (which
// may carry several concatenated handshake messages, per spec §4.11
// step 7) into individual messages.
func SplitHandshakeMessages(data []byte) ([]HandshakeMessage, error) {
	var out []HandshakeMessage
	pos := 0
	for pos < len(data) {
		if pos+4 > len(data) {
			return nil, fmt.Errorf("tls13: truncated handshake message header")
		}
		msgType := data[pos]
		length := int(data[pos+1])<<16 | int(data[pos+2])<<8 | int(data[pos+3])
		pos += 4
		if pos+length > len(data) {
			return nil, fmt.Errorf("tls13: handshake message body extends past record")
		}
		out = append(out, HandshakeMessage{Type: msgType, Body: data[pos : pos+length]})
		pos += length
	}
	return out, nil
}

// BuildFinished wraps a Finished message's verify_data in its handshake
// header, per spec §4.11 step 8.
func BuildFinished(verifyData []byte) []byte {
	return wrapHandshake(HandshakeFinished, verifyData)
}
