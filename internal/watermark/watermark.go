// Package watermark issues single-use nonces that bind one authentication
// attempt to one popup round-trip.
package watermark

import (
	"github.com/gofrs/uuid/v5"
)

// Service issues watermarks. Nonces are never stored; per-call uniqueness
// is what prevents a stale popup result from being correlated with a
// different attempt.
type Service struct{}

// NewService constructs the watermark service.
func NewService() *Service { return &Service{} }

// Issue returns a fresh opaque nonce.
func (s *Service) Issue() (string, error) {
	u, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
