package client

import (
	"context"
	"fmt"

	"github.com/promiselab/pinkie/internal/errs"
	"github.com/promiselab/pinkie/internal/redeem"
)

// MakePromise issues the made/received pair for one promise and deposits
// the made copy into the caller's own credential store via a second popup.
//
// The received URL is computed before the deposit and is returned even
// when the deposit popup fails; a non-nil error alongside a non-empty URL
// means the pair exists but self-deposit did not complete. Nothing is
// retried automatically.
func (s *Session) MakePromise(ctx context.Context, friend, promiseText string) (string, error) {
	if s.state != Authenticated {
		return "", fmt.Errorf("%w: not authenticated", errs.ErrValidation)
	}
	if s.promising {
		s.logf("Promise already in progress")
		return "", nil
	}
	s.promising = true
	defer func() { s.promising = false }()

	name := s.user["attendeeName"]
	s.logf("Issuing promise to %s", friend)
	pair, err := s.api.Promise(ctx, name, friend, promiseText)
	if err != nil {
		s.logf("Issuance failed: %v", err)
		return "", err
	}

	madeURL := redeem.BuildRedemptionURL(s.cfg.AuthEndpoint, s.cfg.ReturnURL, pair.Made, redeem.FolderMade, true)
	receivedURL := redeem.BuildRedemptionURL(s.cfg.AuthEndpoint, s.cfg.ReturnURL, pair.Received, redeem.FolderReceived, true)
	s.shareableURL = receivedURL

	res, err := s.popup.Redeem(ctx, madeURL)
	switch {
	case err != nil:
		s.logf("Deposit popup failed: %v", err)
		return receivedURL, err
	case res.Outcome != OutcomeCompleted:
		s.logf("Could not deposit made promise: %s", res.Outcome)
		return receivedURL, fmt.Errorf("deposit of made promise: %s", res.Outcome)
	}

	s.logf("Deposited made promise")
	return receivedURL, nil
}
