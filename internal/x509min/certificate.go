package x509min

import (
	"fmt"
)

// Certificate is a parsed X.509 certificate, holding only the fields
// spec §4.11.4 names: issuer/subject common names, the SAN dNSName
// list, the BasicConstraints CA flag, validity strings, and the raw
// subjectPublicKeyInfo DER (kept raw since this package never verifies
// signatures or parses key material).
type Certificate struct {
	Issuer    string
	Subject   string
	SANDNS    []string
	NotBefore string
	NotAfter  string
	IsCA      bool
	SPKI      []byte
}

// ParseCertificate parses a single DER-encoded X.509 certificate, per
// spec §4.11.4: "Parse the Certificate SEQUENCE → {tbsCertificate,
// signatureAlgorithm, signatureValue}", extracting from TBS the issuer
// CN, validity, subject CN, SPKI, and Extensions.
func ParseCertificate(der []byte) (*Certificate, error) {
	outer := newDERReader(der)
	certSeq, err := outer.readTLV()
	if err != nil {
		return nil, err
	}
	if certSeq.tag != tagSequence {
		return nil, fmt.Errorf("x509min: certificate is not a SEQUENCE")
	}

	inner := newDERReader(certSeq.value)
	tbsTLV, err := inner.readTLV()
	if err != nil {
		return nil, err
	}
	if tbsTLV.tag != tagSequence {
		return nil, fmt.Errorf("x509min: TBSCertificate is not a SEQUENCE")
	}

	cert, err := parseTBSCertificate(tbsTLV.value)
	if err != nil {
		return nil, err
	}

	// signatureAlgorithm and signatureValue follow TBS; this parser does
	// not use either (no signature verification, per spec §9), but both
	// must still be consumed to confirm the certificate is well-formed.
	if _, err := inner.readTLV(); err != nil {
		return nil, fmt.Errorf("x509min: reading signatureAlgorithm: %w", err)
	}
	if _, err := inner.readTLV(); err != nil {
		return nil, fmt.Errorf("x509min: reading signatureValue: %w", err)
	}

	return cert, nil
}

// parseTBSCertificate walks TBSCertificate's fields in RFC 5280 order:
// optional version, serialNumber, signature AlgorithmIdentifier, issuer
// Name, validity, subject Name, subjectPublicKeyInfo, then optional
// Extensions.
func parseTBSCertificate(data []byte) (*Certificate, error) {
	r := newDERReader(data)

	if tag, ok := r.peekTag(); ok && tag == tagCtx0 {
		if _, err := r.readTLV(); err != nil {
			return nil, fmt.Errorf("x509min: reading version: %w", err)
		}
	}

	if _, err := r.readTLV(); err != nil { // serialNumber
		return nil, fmt.Errorf("x509min: reading serialNumber: %w", err)
	}
	if _, err := r.readTLV(); err != nil { // signature AlgorithmIdentifier
		return nil, fmt.Errorf("x509min: reading signature algorithm identifier: %w", err)
	}

	issuerTLV, err := r.readTLV()
	if err != nil {
		return nil, fmt.Errorf("x509min: reading issuer: %w", err)
	}
	issuer := extractCommonName(issuerTLV.value)

	validityTLV, err := r.readTLV()
	if err != nil {
		return nil, fmt.Errorf("x509min: reading validity: %w", err)
	}
	notBefore, notAfter, err := parseValidity(validityTLV.value)
	if err != nil {
		return nil, err
	}

	subjectTLV, err := r.readTLV()
	if err != nil {
		return nil, fmt.Errorf("x509min: reading subject: %w", err)
	}
	subject := extractCommonName(subjectTLV.value)

	spkiTLV, err := r.readTLV()
	if err != nil {
		return nil, fmt.Errorf("x509min: reading subjectPublicKeyInfo: %w", err)
	}

	cert := &Certificate{
		Issuer:    issuer,
		Subject:   subject,
		NotBefore: notBefore,
		NotAfter:  notAfter,
		SPKI:      spkiTLV.value,
	}

	for !r.isEmpty() {
		extContainer, err := r.readTLV()
		if err != nil {
			return nil, fmt.Errorf("x509min: reading extensions container: %w", err)
		}
		if extContainer.tag != tagCtx3 {
			continue
		}
		if err := parseExtensions(extContainer.value, cert); err != nil {
			return nil, err
		}
	}

	return cert, nil
}

// extractCommonName finds the CN attribute (OID 2.5.4.3) in the first
// RDN that carries it, per spec §4.11.4: "CN attribute from the first
// RDN containing OID 2.5.4.3". A Name is a SEQUENCE OF RelativeDistinguishedName
// (SET OF AttributeTypeAndValue).
func extractCommonName(nameBytes []byte) string {
	r := newDERReader(nameBytes)
	for !r.isEmpty() {
		rdnTLV, err := r.readTLV()
		if err != nil {
			return ""
		}
		if rdnTLV.tag != tagSet {
			continue
		}
		set := newDERReader(rdnTLV.value)
		for !set.isEmpty() {
			atvTLV, err := set.readTLV()
			if err != nil {
				break
			}
			if atvTLV.tag != tagSequence {
				continue
			}
			atv := newDERReader(atvTLV.value)
			oidTLV, err := atv.readTLV()
			if err != nil || oidTLV.tag != tagOID {
				continue
			}
			if decodeOID(oidTLV.value) != oidCommonName {
				continue
			}
			valTLV, err := atv.readTLV()
			if err != nil {
				continue
			}
			return string(valTLV.value)
		}
	}
	return ""
}

// parseValidity decodes the Validity SEQUENCE { notBefore, notAfter },
// each a UTCTime or GeneralizedTime, kept as their raw time strings per
// spec §4.11.4 ("validity (two time strings)").
func parseValidity(data []byte) (notBefore, notAfter string, err error) {
	r := newDERReader(data)
	beforeTLV, err := r.readTLV()
	if err != nil {
		return "", "", fmt.Errorf("x509min: reading notBefore: %w", err)
	}
	afterTLV, err := r.readTLV()
	if err != nil {
		return "", "", fmt.Errorf("x509min: reading notAfter: %w", err)
	}
	return string(beforeTLV.value), string(afterTLV.value), nil
}

// parseExtensions walks the extensions SEQUENCE OF Extension and lifts
// subjectAltName dNSName entries and the basicConstraints CA flag, per
// spec §4.11.4's Extensions list.
func parseExtensions(container []byte, cert *Certificate) error {
	seqReader := newDERReader(container)
	extSeq, err := seqReader.readTLV()
	if err != nil {
		return fmt.Errorf("x509min: reading extensions sequence: %w", err)
	}
	if extSeq.tag != tagSequence {
		return fmt.Errorf("x509min: extensions container is not a SEQUENCE")
	}

	exts := newDERReader(extSeq.value)
	for !exts.isEmpty() {
		ext, err := exts.readTLV()
		if err != nil {
			return fmt.Errorf("x509min: reading extension: %w", err)
		}
		parseExtension(ext.value, cert)
	}
	return nil
}

// parseExtension decodes a single Extension SEQUENCE { extnID,
// critical OPTIONAL, extnValue }, dispatching on extnID.
func parseExtension(data []byte, cert *Certificate) {
	r := newDERReader(data)
	oidTLV, err := r.readTLV()
	if err != nil || oidTLV.tag != tagOID {
		return
	}
	oid := decodeOID(oidTLV.value)

	if tag, ok := r.peekTag(); ok && tag == tagBoolean {
		if _, err := r.readTLV(); err != nil {
			return
		}
	}

	valueTLV, err := r.readTLV()
	if err != nil || valueTLV.tag != tagOctetString {
		return
	}

	switch oid {
	case oidSubjectAltName:
		cert.SANDNS = parseSAN(valueTLV.value)
	case oidBasicConstraints:
		cert.IsCA = parseBasicConstraints(valueTLV.value)
	}
}

// parseSAN decodes GeneralNames ::= SEQUENCE OF GeneralName, keeping
// only dNSName entries (context tag 0x82), per spec §4.11.4.
func parseSAN(data []byte) []string {
	var names []string
	outer := newDERReader(data)
	seqTLV, err := outer.readTLV()
	if err != nil || seqTLV.tag != tagSequence {
		return names
	}
	r := newDERReader(seqTLV.value)
	for !r.isEmpty() {
		nameTLV, err := r.readTLV()
		if err != nil {
			break
		}
		if nameTLV.tag == tagSANdNSName {
			names = append(names, string(nameTLV.value))
		}
	}
	return names
}

// parseBasicConstraints decodes BasicConstraints ::= SEQUENCE { cA
// BOOLEAN DEFAULT FALSE, pathLenConstraint INTEGER OPTIONAL }, per spec
// §4.11.4's "basicConstraints (2.5.29.19) CA flag".
func parseBasicConstraints(data []byte) bool {
	outer := newDERReader(data)
	seqTLV, err := outer.readTLV()
	if err != nil || seqTLV.tag != tagSequence || len(seqTLV.value) == 0 {
		return false
	}
	r := newDERReader(seqTLV.value)
	boolTLV, err := r.readTLV()
	if err != nil || boolTLV.tag != tagBoolean || len(boolTLV.value) == 0 {
		return false
	}
	return boolTLV.value[0] != 0
}
