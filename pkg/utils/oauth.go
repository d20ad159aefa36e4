package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// PKCE carries the verifier/challenge pair for an authorization-code flow
// whose provider mandates Proof Key for Code Exchange.
type PKCE struct {
	CodeVerifier  string
	CodeChallenge string
}

// GenerateRandomString returns n random bytes, base64url encoded without
// padding so the value is safe inside query strings and cookies.
func GenerateRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateState returns a fresh anti-CSRF nonce for one authorization
// attempt. State must be single-use: stored at initiation, compared and
// discarded at callback.
func GenerateState() (string, error) {
	return GenerateRandomString(16)
}

func GeneratePKCE() (*PKCE, error) {
	verifier, err := GenerateRandomString(32)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(verifier))
	return &PKCE{
		CodeVerifier:  verifier,
		CodeChallenge: base64.RawURLEncoding.EncodeToString(sum[:]),
	}, nil
}

// VerifyState compares the state echoed by the provider against the stored
// nonce in constant time. Inputs of different lengths are rejected up front;
// subtle.ConstantTimeCompare reports a mismatch for unequal lengths but the
// explicit guard keeps the contract obvious.
func VerifyState(received, expected string) bool {
	if received == "" || expected == "" {
		return false
	}
	if len(received) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(received), []byte(expected)) == 1
}
