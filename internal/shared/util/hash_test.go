package util

import "testing"

func TestHashDeviceKey(t *testing.T) {
	fingerprint := "fp-3f2a1b"
	got := HashDeviceKey(fingerprint)
	if got != HashDeviceKey(fingerprint) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	if got == HashDeviceKey("fp-other") {
		t.Fatalf("different fingerprints should not collide")
	}
}
