// Package pcd wraps the credential proving and verification engine.
//
// A credential is an EdDSA-signed compact JWS whose claims carry the
// revealed fields of the underlying statement. Proving signs a claim spec
// with the issuer key; verification checks the signature against a trusted
// public key and extracts the revealed fields. The serialized form is the
// transport string embedded in redemption URLs and request bodies.
package pcd

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/promiselab/pinkie/internal/errs"
)

// Claims maps claim field names to revealed string values.
type Claims map[string]string

// ClaimSpec describes one credential to prove. If ID is empty a fresh
// UUIDv4 is assigned, so every proved credential carries a unique,
// never-reused identifier.
type ClaimSpec struct {
	ID     string
	Claims Claims
}

// Credential is a proved statement together with its transport form.
type Credential struct {
	ID         string
	Claims     Claims
	Serialized string // compact JWS, set by the prover
}

// Prover produces signed credentials from claim specs.
type Prover interface {
	Prove(spec ClaimSpec) (*Credential, error)
}

// EdDSAProver signs credentials with a process-wide ed25519 issuer key.
type EdDSAProver struct {
	key ed25519.PrivateKey
}

// NewProver constructs a prover for the given signing key. A malformed key
// is rejected here, at construction, rather than on first use.
func NewProver(key ed25519.PrivateKey) (*EdDSAProver, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: bad signing key length %d", errs.ErrConfiguration, len(key))
	}
	return &EdDSAProver{key: key}, nil
}

// Prove signs the claim spec and returns the credential with its
// serialized form populated.
func (p *EdDSAProver) Prove(spec ClaimSpec) (*Credential, error) {
	id := spec.ID
	if id == "" {
		u, err := uuid.NewV4()
		if err != nil {
			return nil, fmt.Errorf("%w: id generation: %v", errs.ErrProving, err)
		}
		id = u.String()
	}

	mc := jwt.MapClaims{
		"jti": id,
		"iat": jwt.NewNumericDate(time.Now()),
	}
	for k, v := range spec.Claims {
		mc[k] = v
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodEdDSA, mc)
	signed, err := tok.SignedString(p.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrProving, err)
	}
	return &Credential{ID: id, Claims: spec.Claims, Serialized: signed}, nil
}

// Serialize returns the transport string for a proved credential.
func Serialize(c *Credential) (string, error) {
	if c == nil || c.Serialized == "" {
		return "", fmt.Errorf("%w: credential not signed", errs.ErrProving)
	}
	return c.Serialized, nil
}
