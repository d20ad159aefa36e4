package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func TestGenerateStateUnique(t *testing.T) {
	s1, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState: %v", err)
	}
	s2, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState: %v", err)
	}
	if s1 == "" || s2 == "" {
		t.Fatal("expected non-empty state")
	}
	if s1 == s2 {
		t.Fatal("expected distinct states across calls")
	}
}

func TestGenerateRandomStringURLSafe(t *testing.T) {
	s, err := GenerateRandomString(32)
	if err != nil {
		t.Fatalf("GenerateRandomString: %v", err)
	}
	if _, err := base64.RawURLEncoding.DecodeString(s); err != nil {
		t.Fatalf("expected base64url without padding, got %q: %v", s, err)
	}
}

func TestGeneratePKCEChallenge(t *testing.T) {
	pkce, err := GeneratePKCE()
	if err != nil {
		t.Fatalf("GeneratePKCE: %v", err)
	}
	if pkce.CodeVerifier == "" {
		t.Fatal("expected non-empty verifier")
	}

	sum := sha256.Sum256([]byte(pkce.CodeVerifier))
	want := base64.RawURLEncoding.EncodeToString(sum[:])
	if pkce.CodeChallenge != want {
		t.Fatalf("challenge = %q, want %q", pkce.CodeChallenge, want)
	}
}

func TestVerifyState(t *testing.T) {
	state, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState: %v", err)
	}

	if !VerifyState(state, state) {
		t.Fatal("expected matching state to verify")
	}
	if VerifyState("", state) {
		t.Fatal("expected empty received state to fail")
	}
	if VerifyState(state, "") {
		t.Fatal("expected empty expected state to fail")
	}
	if VerifyState("", "") {
		t.Fatal("expected two empty states to fail")
	}
	if VerifyState(state, state+"x") {
		t.Fatal("expected length mismatch to fail")
	}
	if VerifyState("a", state) {
		t.Fatal("expected single-byte state to fail without panicking")
	}

	other := make([]byte, len(state))
	copy(other, state)
	other[0] ^= 1
	if VerifyState(string(other), state) {
		t.Fatal("expected same-length mismatch to fail")
	}
}
