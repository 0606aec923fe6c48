package x509min

import (
	"bytes"
	"testing"
)

func TestDERReaderShortForm(t *testing.T) {
	// SEQUENCE { INTEGER 42 } => 30 03 02 01 2A
	data := []byte{0x30, 0x03, 0x02, 0x01, 0x2A}
	r := newDERReader(data)
	outer, err := r.readTLV()
	if err != nil {
		t.Fatalf("readTLV: %v", err)
	}
	if outer.tag != tagSequence || len(outer.value) != 3 {
		t.Fatalf("outer = %+v", outer)
	}

	inner := newDERReader(outer.value)
	intTLV, err := inner.readTLV()
	if err != nil {
		t.Fatalf("readTLV: %v", err)
	}
	if intTLV.tag != tagInteger || !bytes.Equal(intTLV.value, []byte{0x2A}) {
		t.Errorf("inner = %+v", intTLV)
	}
}

func TestDERReaderLongFormLength(t *testing.T) {
	// OCTET STRING, long-form length 0x81 0x80 = 128 bytes.
	data := append([]byte{0x04, 0x81, 0x80}, bytes.Repeat([]byte{0xAA}, 128)...)
	r := newDERReader(data)
	tlv, err := r.readTLV()
	if err != nil {
		t.Fatalf("readTLV: %v", err)
	}
	if tlv.tag != tagOctetString || len(tlv.value) != 128 {
		t.Errorf("tlv = tag=%x len=%d", tlv.tag, len(tlv.value))
	}
}

func TestDERReaderRejectsIndefiniteLength(t *testing.T) {
	data := []byte{0x30, 0x80}
	r := newDERReader(data)
	if _, err := r.readTLV(); err == nil {
		t.Fatal("expected an error for indefinite length")
	}
}

func TestDecodeOIDCommonName(t *testing.T) {
	if got := decodeOID([]byte{0x55, 0x04, 0x03}); got != "2.5.4.3" {
		t.Errorf("decodeOID = %q, want 2.5.4.3", got)
	}
}

func TestDecodeOIDSHA256WithRSA(t *testing.T) {
	b := []byte{0x2A, 0x86, 0x48, 0x86, 0xF7, 0x0D, 0x01, 0x01, 0x0B}
	if got := decodeOID(b); got != "1.2.840.113549.1.1.11" {
		t.Errorf("decodeOID = %q, want 1.2.840.113549.1.1.11", got)
	}
}

func TestMatchesHostnameExact(t *testing.T) {
	if !matchesHostname("example.com", "example.com") {
		t.Error("expected exact match")
	}
	if matchesHostname("example.com", "other.com") {
		t.Error("expected no match")
	}
}

func TestMatchesHostnameWildcard(t *testing.T) {
	cases := []struct {
		pattern, hostname string
		want              bool
	}{
		{"*.example.com", "www.example.com", true},
		{"*.example.com", "api.example.com", true},
		{"*.example.com", "example.com", false},
		{"*.example.com", "a.b.example.com", false},
	}
	for _, c := range cases {
		if got := matchesHostname(c.pattern, c.hostname); got != c.want {
			t.Errorf("matchesHostname(%q,%q) = %v, want %v", c.pattern, c.hostname, got, c.want)
		}
	}
}

func TestVerifyHostnameSANTakesPrecedence(t *testing.T) {
	cert := &Certificate{
		Subject: "other.com",
		SANDNS:  []string{"example.com", "*.example.org"},
	}
	if !VerifyHostname(cert, "example.com") {
		t.Error("expected SAN exact match")
	}
	if !VerifyHostname(cert, "www.example.org") {
		t.Error("expected SAN wildcard match")
	}
	if VerifyHostname(cert, "other.com") {
		t.Error("SAN present should take precedence over CN fallback")
	}
}

func TestVerifyHostnameCNFallback(t *testing.T) {
	cert := &Certificate{Subject: "example.com"}
	if !VerifyHostname(cert, "example.com") {
		t.Error("expected CN fallback match")
	}
	if VerifyHostname(cert, "other.com") {
		t.Error("expected no match")
	}
}

func TestVerifyChainEmpty(t *testing.T) {
	if err := VerifyChain(nil, "example.com"); err == nil {
		t.Fatal("expected an error for an empty chain")
	}
}

func TestVerifyChainHostnameMismatch(t *testing.T) {
	cert := &Certificate{Issuer: "CA", Subject: "example.com", SANDNS: []string{"example.com"}}
	if err := VerifyChain([]*Certificate{cert}, "wrong.com"); err == nil {
		t.Fatal("expected a hostname mismatch error")
	}
}

func TestVerifyChainValidSingle(t *testing.T) {
	cert := &Certificate{Issuer: "Root CA", Subject: "example.com", SANDNS: []string{"example.com"}}
	if err := VerifyChain([]*Certificate{cert}, "example.com"); err != nil {
		t.Errorf("VerifyChain: %v", err)
	}
}

func TestVerifyChainOrdering(t *testing.T) {
	leaf := &Certificate{Issuer: "Intermediate CA", Subject: "example.com", SANDNS: []string{"example.com"}}
	intermediate := &Certificate{Issuer: "Root CA", Subject: "Intermediate CA", IsCA: true}
	if err := VerifyChain([]*Certificate{leaf, intermediate}, "example.com"); err != nil {
		t.Errorf("VerifyChain: %v", err)
	}
}

func TestVerifyChainBadOrdering(t *testing.T) {
	leaf := &Certificate{Issuer: "Wrong CA", Subject: "example.com", SANDNS: []string{"example.com"}}
	intermediate := &Certificate{Issuer: "Root CA", Subject: "Intermediate CA", IsCA: true}
	if err := VerifyChain([]*Certificate{leaf, intermediate}, "example.com"); err == nil {
		t.Fatal("expected a chain-ordering error")
	}
}

// TestParseMinimalDERCertificate builds a minimal DER certificate by
// hand (mirroring the original Rust reference's own test fixture) and
// confirms every field spec §4.11.4 names is extracted correctly.
func TestParseMinimalDERCertificate(t *testing.T) {
	cnOID := []byte{0x55, 0x04, 0x03} // 2.5.4.3
	nameValue := []byte("Test")

	atv := derSeq(derTLV(tagOID, cnOID), derTLV(tagPrintableString, nameValue))
	rdn := derTLV(tagSet, atv)
	name := derSeq(rdn)

	validity := derSeq(
		derTLV(tagUTCTime, []byte("230101000000Z")),
		derTLV(tagUTCTime, []byte("251231235959Z")),
	)

	spki := derSeq(
		derSeq(derTLV(tagOID, []byte{0x2A, 0x86, 0x48, 0xCE, 0x3D, 0x02, 0x01})),
		derTLV(tagBitString, []byte{0x00, 0x04, 0xAA, 0xBB}),
	)

	algID := derSeq(
		derTLV(tagOID, []byte{0x2A, 0x86, 0x48, 0x86, 0xF7, 0x0D, 0x01, 0x01, 0x0B}),
		derTLV(tagNull, nil),
	)

	tbs := derSeq(
		derTLV(tagCtx0, derTLV(tagInteger, []byte{0x02})), // version v3
		derTLV(tagInteger, []byte{0x01}),                  // serial
		algID,  // signature AlgorithmIdentifier
		name,   // issuer
		validity,
		name, // subject
		spki,
	)

	sig := derTLV(tagBitString, []byte{0x00, 0xDE, 0xAD})
	certDER := derSeq(tbs, algID, sig)

	cert, err := ParseCertificate(certDER)
	if err != nil {
		t.Fatalf("ParseCertificate: %v", err)
	}
	if cert.Issuer != "Test" {
		t.Errorf("Issuer = %q, want Test", cert.Issuer)
	}
	if cert.Subject != "Test" {
		t.Errorf("Subject = %q, want Test", cert.Subject)
	}
	if cert.NotBefore != "230101000000Z" || cert.NotAfter != "251231235959Z" {
		t.Errorf("validity = (%q,%q)", cert.NotBefore, cert.NotAfter)
	}
	if len(cert.SPKI) == 0 {
		t.Error("expected non-empty SPKI")
	}
}

func TestParseCertificateWithSANAndBasicConstraints(t *testing.T) {
	cnOID := []byte{0x55, 0x04, 0x03}
	name := derSeq(derTLV(tagSet, derSeq(derTLV(tagOID, cnOID), derTLV(tagPrintableString, []byte("leaf.example.com")))))
	validity := derSeq(derTLV(tagUTCTime, []byte("230101000000Z")), derTLV(tagUTCTime, []byte("251231235959Z")))
	spki := derSeq(derTLV(tagOID, []byte{0x2A}))
	algID := derSeq(derTLV(tagOID, []byte{0x2A, 0x86, 0x48, 0x86, 0xF7, 0x0D, 0x01, 0x01, 0x0B}), derTLV(tagNull, nil))

	sanValue := derSeq(derTLV(tagSANdNSName, []byte("example.com")), derTLV(tagSANdNSName, []byte("*.example.com")))
	sanExt := derSeq(derTLV(tagOID, []byte{0x55, 0x1D, 0x11}), derTLV(tagOctetString, sanValue))

	bcValue := derSeq(derTLV(tagBoolean, []byte{0xFF}))
	bcExt := derSeq(derTLV(tagOID, []byte{0x55, 0x1D, 0x13}), derTLV(tagOctetString, bcValue))

	extensions := derTLV(tagCtx3, derSeq(sanExt, bcExt))

	tbs := derSeq(
		derTLV(tagInteger, []byte{0x01}),
		algID,
		name,
		validity,
		name,
		spki,
		extensions,
	)
	sig := derTLV(tagBitString, []byte{0x00, 0xDE, 0xAD})
	certDER := derSeq(tbs, algID, sig)

	cert, err := ParseCertificate(certDER)
	if err != nil {
		t.Fatalf("ParseCertificate: %v", err)
	}
	if len(cert.SANDNS) != 2 || cert.SANDNS[0] != "example.com" || cert.SANDNS[1] != "*.example.com" {
		t.Errorf("SANDNS = %v", cert.SANDNS)
	}
	if !cert.IsCA {
		t.Error("expected IsCA=true from BasicConstraints")
	}
	if !VerifyHostname(cert, "api.example.com") {
		t.Error("expected wildcard SAN to match api.example.com")
	}
}

// derTLV and derSeq are small test-only helpers for hand-building DER
// fixtures, mirroring the original Rust reference's own test helpers.
func derTLV(tag byte, value []byte) []byte {
	out := []byte{tag}
	switch {
	case len(value) < 128:
		out = append(out, byte(len(value)))
	case len(value) < 256:
		out = append(out, 0x81, byte(len(value)))
	default:
		out = append(out, 0x82, byte(len(value)>>8), byte(len(value)))
	}
	return append(out, value...)
}

func derSeq(parts ...[]byte) []byte {
	var value []byte
	for _, p := range parts {
		value = append(value, p...)
	}
	return derTLV(tagSequence, value)
}
