package x509min

import (
	"fmt"
	"strings"
)

// ErrEmptyChain is returned by VerifyChain when given no certificates.
var ErrEmptyChain = fmt.Errorf("x509min: empty certificate chain")

// VerifyHostname reports whether cert is valid for hostname, per spec
// §4.11.4: "check SAN dNSName entries first (case-insensitive)...
// Only if SAN list is empty, fall back to subject CN."
func VerifyHostname(cert *Certificate, hostname string) bool {
	hostnameLower := strings.ToLower(hostname)

	if len(cert.SANDNS) > 0 {
		for _, san := range cert.SANDNS {
			if matchesHostname(strings.ToLower(san), hostnameLower) {
				return true
			}
		}
		return false
	}
	return matchesHostname(strings.ToLower(cert.Subject), hostnameLower)
}

// matchesHostname matches a single pattern (exact or `*.`-wildcarded)
// against a hostname, per spec §4.11.4: "Wildcard `*.foo.bar` matches
// exactly one leading label (`a.foo.bar` but not `a.b.foo.bar` nor
// `foo.bar`)."
func matchesHostname(pattern, hostname string) bool {
	if pattern == hostname {
		return true
	}
	suffix, ok := strings.CutPrefix(pattern, "*.")
	if !ok {
		return false
	}
	rest, ok := strings.CutSuffix(hostname, suffix)
	if !ok {
		return false
	}
	if !strings.HasSuffix(rest, ".") {
		return false
	}
	label := rest[:len(rest)-1]
	return label != "" && !strings.Contains(label, ".")
}

// VerifyChain checks the "current spec floor" from §4.11.4: certs is
// ordered leaf→root; it verifies (a) hostname matches the leaf and (b)
// each cert's issuer equals the next cert's subject.
// Signature verification is explicitly out of scope — see spec §9.
func VerifyChain(certs []*Certificate, hostname string) error {
	if len(certs) == 0 {
		return ErrEmptyChain
	}

	leaf := certs[0]
	if !VerifyHostname(leaf, hostname) {
		return fmt.Errorf("x509min: hostname %q does not match certificate (subject=%q, SANs=%v)",
			hostname, leaf.Subject, leaf.SANDNS)
	}

	for i := 0; i < len(certs)-1; i++ {
		if certs[i].Issuer != certs[i+1].Subject {
			return fmt.Errorf("x509min: chain link %d: issuer %q does not match next subject %q",
				i, certs[i].Issuer, certs[i+1].Subject)
		}
	}

	return nil
}
