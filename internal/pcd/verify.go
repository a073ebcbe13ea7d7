package pcd

import (
	"crypto/ed25519"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/promiselab/pinkie/internal/errs"
)

// Verifier checks credentials against a trusted ed25519 public key.
type Verifier struct {
	key ed25519.PublicKey
}

// NewVerifier constructs a verifier for the given trusted key.
func NewVerifier(key ed25519.PublicKey) (*Verifier, error) {
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: bad verify key length %d", errs.ErrConfiguration, len(key))
	}
	return &Verifier{key: key}, nil
}

// Verify checks authenticity of a serialized credential and returns its
// revealed string fields (jti included). Any parse or signature failure is
// reported as a verification error.
func (v *Verifier) Verify(serialized string) (Claims, error) {
	tok, err := jwt.Parse(serialized, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrVerification, err)
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims shape", errs.ErrVerification)
	}

	fields := Claims{}
	for k, raw := range mc {
		if s, ok := raw.(string); ok {
			fields[k] = s
		}
	}
	return fields, nil
}
