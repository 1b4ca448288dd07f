package main

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashIsNotPlaintext(t *testing.T) {
	h := newPasswordHasher(bcrypt.MinCost)

	digest, err := h.hash("Secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if string(digest) == "Secret123" {
		t.Fatalf("digest must differ from the plaintext")
	}
	if len(digest) == 0 {
		t.Fatalf("expected a non-empty digest")
	}
}

func TestVerify(t *testing.T) {
	h := newPasswordHasher(bcrypt.MinCost)

	digest, err := h.hash("Secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !h.verify("Secret123", digest) {
		t.Fatalf("expected the correct password to verify")
	}
	if h.verify("WrongPass1", digest) {
		t.Fatalf("expected a wrong password to fail verification")
	}
	if h.verify("Secret123", []byte("not a bcrypt digest")) {
		t.Fatalf("expected a malformed digest to fail verification")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h := newPasswordHasher(bcrypt.MinCost)

	first, err := h.hash("Secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.hash("Secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if string(first) == string(second) {
		t.Fatalf("expected per-hash salts to produce distinct digests")
	}
}

func TestOutOfRangeCostFallsBackToDefault(t *testing.T) {
	h := newPasswordHasher(100)
	if h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected cost %d, got %d", bcrypt.DefaultCost, h.cost)
	}
	h = newPasswordHasher(-1)
	if h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected cost %d, got %d", bcrypt.DefaultCost, h.cost)
	}
}
