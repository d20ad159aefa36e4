package utils

import (
	"encoding/base64"
	"testing"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecryptRoundtrip(t *testing.T) {
	plaintext := "access-token-value"

	encrypted, err := Encrypt([]byte(plaintext), testKey)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if encrypted == plaintext {
		t.Fatal("expected ciphertext to differ from plaintext")
	}

	decrypted, err := Decrypt(encrypted, testKey)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if decrypted != plaintext {
		t.Fatalf("decrypted = %q, want %q", decrypted, plaintext)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	encrypted, err := Encrypt([]byte("secret"), testKey)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	wrongKey := []byte("ffffffffffffffffffffffffffffffff")
	if _, err := Decrypt(encrypted, wrongKey); err == nil {
		t.Fatal("expected decryption with wrong key to fail")
	}
}

func TestDecryptTampered(t *testing.T) {
	encrypted, err := Encrypt([]byte("secret"), testKey)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw[len(raw)-1] ^= 1
	tampered := base64.StdEncoding.EncodeToString(raw)

	if _, err := Decrypt(tampered, testKey); err == nil {
		t.Fatal("expected tampered ciphertext to fail authentication")
	}
}

func TestDecryptTooShort(t *testing.T) {
	short := base64.StdEncoding.EncodeToString([]byte("tiny"))
	if _, err := Decrypt(short, testKey); err == nil {
		t.Fatal("expected short ciphertext to be rejected")
	}
}

func TestDecryptInvalidBase64(t *testing.T) {
	if _, err := Decrypt("not-base64!!!", testKey); err == nil {
		t.Fatal("expected invalid base64 to be rejected")
	}
}
