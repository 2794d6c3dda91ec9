package auth

import (
	"encoding/hex"
	"testing"
)

func TestResetTokenServiceImpl_Generate(t *testing.T) {
	svc := NewResetTokenService()

	plain, hash, err := svc.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(plain) != 2*resetTokenBytes {
		t.Errorf("expected %d hex chars, got %d", 2*resetTokenBytes, len(plain))
	}
	if _, err := hex.DecodeString(plain); err != nil {
		t.Errorf("plaintext is not hex: %v", err)
	}
	if hash == plain {
		t.Error("stored hash must differ from the plaintext")
	}
	if svc.Hash(plain) != hash {
		t.Error("Hash(plain) must reproduce the stored hash")
	}

	plain2, hash2, err := svc.Generate()
	if err != nil {
		t.Fatal(err)
	}
	if plain2 == plain || hash2 == hash {
		t.Error("consecutive tokens must differ")
	}
}

func TestResetTokenServiceImpl_HashIsDeterministic(t *testing.T) {
	svc := NewResetTokenService()
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := svc.Hash("abc"); got != want {
		t.Errorf("Hash() = %s, want %s", got, want)
	}
}
