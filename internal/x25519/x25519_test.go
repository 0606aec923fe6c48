package x25519

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// TestRFC7748BasepointVector matches spec §8 scenario 7: scalar
// 77076d0a...92c2a times the u=9 base point yields 8520f009...9b4e6a.
func TestRFC7748BasepointVector(t *testing.T) {
	scalar, _ := hex.DecodeString("77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a")
	want, _ := hex.DecodeString("8520f0098930a754748b7ddcb43ef75a0dbf3a0d26381af4eba4a98eaa9b4e6a")

	got, err := ScalarBaseMult(scalar)
	if err != nil {
		t.Fatalf("ScalarBaseMult: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("ScalarBaseMult = %x, want %x", got, want)
	}
}

func TestRFC7748NonBasepointVector(t *testing.T) {
	scalar, _ := hex.DecodeString("a546e36bf0527c9d3b16154b82465edd62144c0ac1fc5a18506a2244ba449ac4")
	point, _ := hex.DecodeString("e6db6867583030db3594c1a424b15f7c726624ec26b3353b10a903a6d0ab1c4c")
	want, _ := hex.DecodeString("c3da55379de9c6908e94ea4df28d084f32eccf03491c71f754b4075577a28552")

	got, err := ScalarMult(scalar, point)
	if err != nil {
		t.Fatalf("ScalarMult: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("ScalarMult = %x, want %x", got, want)
	}
}

// TestSharedSecretCommutativity checks that both sides of a Diffie-Hellman
// exchange agree, per spec §4.11's key-exchange usage.
func TestSharedSecretCommutativity(t *testing.T) {
	alice, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey (alice): %v", err)
	}
	bob, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey (bob): %v", err)
	}

	aliceSecret, err := alice.SharedSecret(bob.Public())
	if err != nil {
		t.Fatalf("alice.SharedSecret: %v", err)
	}
	bobSecret, err := bob.SharedSecret(alice.Public())
	if err != nil {
		t.Fatalf("bob.SharedSecret: %v", err)
	}
	if !bytes.Equal(aliceSecret, bobSecret) {
		t.Errorf("shared secrets differ: alice=%x bob=%x", aliceSecret, bobSecret)
	}
}

func TestClampSetsRequiredBits(t *testing.T) {
	k := [32]byte{}
	for i := range k {
		k[i] = 0xff
	}
	Clamp(&k)
	if k[0]&0x07 != 0 {
		t.Errorf("low 3 bits of k[0] should be cleared, got %x", k[0])
	}
	if k[31]&0x80 != 0 {
		t.Errorf("top bit of k[31] should be cleared, got %x", k[31])
	}
	if k[31]&0x40 == 0 {
		t.Errorf("second-highest bit of k[31] should be set, got %x", k[31])
	}
}

func TestGeneratedKeyProducesFullLengthOutputs(t *testing.T) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	if len(priv.Public()) != KeySize {
		t.Errorf("public key length = %d, want %d", len(priv.Public()), KeySize)
	}
	if len(priv.ScalarBytes()) != KeySize {
		t.Errorf("scalar length = %d, want %d", len(priv.ScalarBytes()), KeySize)
	}
}
