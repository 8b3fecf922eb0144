package auth

import "testing"

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := BcryptHasher{Cost: 4}

	hashed, err := h.Hash("s3cret-passw0rd")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hashed == "s3cret-passw0rd" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !h.Verify(hashed, "s3cret-passw0rd") {
		t.Error("expected correct password to verify")
	}
	if h.Verify(hashed, "wrong-password") {
		t.Error("expected wrong password to fail verification")
	}
}

func TestBcryptHasher_DistinctSalts(t *testing.T) {
	h := BcryptHasher{Cost: 4}

	a, err := h.Hash("same-input")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash("same-input")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password should differ by salt")
	}
}
