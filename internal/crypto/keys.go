// Package crypto implements issuer key handling for credential signing.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/promiselab/pinkie/internal/errs"
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// ParseSigningSeed decodes a hex-encoded 32-byte ed25519 seed into a
// signing key. Malformed input is a configuration error.
func ParseSigningSeed(h string) (ed25519.PrivateKey, error) {
	seed, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("%w: signing key is not hex: %v", errs.ErrConfiguration, err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: signing key seed must be %d bytes, got %d", errs.ErrConfiguration, ed25519.SeedSize, len(seed))
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// ParseVerifyKey decodes a hex-encoded ed25519 public key.
func ParseVerifyKey(h string) (ed25519.PublicKey, error) {
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("%w: verify key is not hex: %v", errs.ErrConfiguration, err)
	}
	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: verify key must be %d bytes, got %d", errs.ErrConfiguration, ed25519.PublicKeySize, len(b))
	}
	return ed25519.PublicKey(b), nil
}

// NewSigningSeed generates a fresh random seed, returned hex-encoded
// together with the matching public key.
func NewSigningSeed() (seedHex, pubHex string, err error) {
	seed, err := RandBytes(ed25519.SeedSize)
	if err != nil {
		return "", "", err
	}
	key := ed25519.NewKeyFromSeed(seed)
	pub := key.Public().(ed25519.PublicKey)
	return hex.EncodeToString(seed), hex.EncodeToString(pub), nil
}
