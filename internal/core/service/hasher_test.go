package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/sample-intranet/identity-api/internal/core/domain"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(4)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if string(hash) == "s3cret" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !h.Verify("s3cret", hash) {
		t.Fatalf("Verify rejected the original password")
	}
	if h.Verify("wrong", hash) {
		t.Fatalf("Verify accepted a wrong password")
	}
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	h := NewPasswordHasher(4)

	a, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	b, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if string(a) == string(b) {
		t.Fatalf("two hashes of the same password must differ")
	}
}

func TestPasswordHasher_MalformedStoredHash(t *testing.T) {
	h := NewPasswordHasher(4)

	if h.Verify("anything", []byte("not-a-bcrypt-hash")) {
		t.Fatalf("malformed hash must verify as mismatch")
	}
	if h.Verify("anything", nil) {
		t.Fatalf("nil hash must verify as mismatch")
	}
}

func TestPasswordHasher_OverlongInput(t *testing.T) {
	h := NewPasswordHasher(4)

	_, err := h.Hash(strings.Repeat("x", 100))
	if err == nil {
		t.Fatalf("expected error for input over bcrypt's 72-byte limit")
	}
	if !errors.Is(err, domain.ErrHashing) {
		t.Fatalf("expected ErrHashing, got %v", err)
	}
}

func TestNewPasswordHasher_CostFallback(t *testing.T) {
	h := NewPasswordHasher(0)
	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !h.Verify("pw", hash) {
		t.Fatalf("Verify rejected password hashed with default cost")
	}
}
