package crypto

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/promiselab/pinkie/internal/errs"
)

func TestSigningSeedRoundTrip(t *testing.T) {
	t.Parallel()
	seedHex, pubHex, err := NewSigningSeed()
	if err != nil {
		t.Fatalf("NewSigningSeed: %v", err)
	}

	key, err := ParseSigningSeed(seedHex)
	if err != nil {
		t.Fatalf("ParseSigningSeed: %v", err)
	}
	pub, err := ParseVerifyKey(pubHex)
	if err != nil {
		t.Fatalf("ParseVerifyKey: %v", err)
	}
	if got := key.Public().(ed25519.PublicKey); !got.Equal(pub) {
		t.Fatalf("public key mismatch: %x vs %x", got, pub)
	}
}

func TestParseSigningSeedRejectsBadInput(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"not hex":   "zz" + hex.EncodeToString(make([]byte, 31)),
		"too short": hex.EncodeToString(make([]byte, 16)),
		"too long":  hex.EncodeToString(make([]byte, 64)),
		"empty":     "",
	}
	for name, in := range cases {
		if _, err := ParseSigningSeed(in); !errors.Is(err, errs.ErrConfiguration) {
			t.Errorf("%s: want ErrConfiguration, got %v", name, err)
		}
	}
}

func TestParseVerifyKeyRejectsBadInput(t *testing.T) {
	t.Parallel()
	if _, err := ParseVerifyKey("abcd"); !errors.Is(err, errs.ErrConfiguration) {
		t.Fatalf("want ErrConfiguration, got %v", err)
	}
}

func TestRandBytes(t *testing.T) {
	t.Parallel()
	a, err := RandBytes(32)
	if err != nil {
		t.Fatalf("RandBytes: %v", err)
	}
	b, err := RandBytes(32)
	if err != nil {
		t.Fatalf("RandBytes: %v", err)
	}
	if string(a) == string(b) {
		t.Fatal("two random reads returned identical bytes")
	}
}
