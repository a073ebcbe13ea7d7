// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across service/transport layers.
var (
	// ErrValidation indicates a missing or empty required input.
	ErrValidation = errors.New("validation")

	// ErrProving indicates the credential engine could not produce a signed credential.
	ErrProving = errors.New("proving failed")

	// ErrVerification indicates a well-formed credential failed signature verification.
	ErrVerification = errors.New("verification failed")

	// ErrConfiguration indicates missing or malformed process configuration (fatal at startup).
	ErrConfiguration = errors.New("configuration")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")
)
