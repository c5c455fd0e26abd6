package crypto

import (
	"bytes"
	"errors"
	"testing"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestSealOpenRoundTrip(t *testing.T) {
	svc, err := New(testKey)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	sealed, err := svc.SealString("JBSWY3DPEHPK3PXP")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(sealed, []byte("JBSWY3DPEHPK3PXP")) {
		t.Fatal("expected ciphertext not to contain the plaintext")
	}
	plain, err := svc.OpenString(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if plain != "JBSWY3DPEHPK3PXP" {
		t.Fatalf("unexpected plaintext %q", plain)
	}
}

func TestUnconfiguredServiceRefuses(t *testing.T) {
	svc, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if svc.Configured() {
		t.Fatal("expected unconfigured service")
	}
	if _, err := svc.SealString("secret"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestRejectsShortKey(t *testing.T) {
	if _, err := New("short"); err == nil {
		t.Fatal("expected error for short key")
	}
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	svc, err := New(testKey)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	sealed, err := svc.SealString("value")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xff
	if _, err := svc.Open(sealed); err == nil {
		t.Fatal("expected authentication failure")
	}
	if _, err := svc.Open([]byte{1, 2}); !errors.Is(err, ErrCiphertextLength) {
		t.Fatalf("expected ErrCiphertextLength, got %v", err)
	}
}
