// Package service contains application services for login verification and
// promise issuance.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/promiselab/pinkie/internal/errs"
	"github.com/promiselab/pinkie/internal/model"
	"github.com/promiselab/pinkie/internal/pcd"
)

// Claim field names carried by a promise credential.
const (
	claimDisplayName = "displayName"
	claimBody        = "mdBody"
)

// PromiseService mints promise credential pairs.
type PromiseService interface {
	// Issue mints the made/received credential pair for one promise.
	// The operation is atomic: either both credentials serialize and are
	// returned together, or the call fails and no partial pair exists.
	Issue(ctx context.Context, name, friend, promiseText string) (model.PromisePair, error)
}

type PromiseServiceImpl struct {
	prover pcd.Prover
}

// NewPromiseService constructs PromiseService over the given prover.
func NewPromiseService(prover pcd.Prover) *PromiseServiceImpl {
	return &PromiseServiceImpl{prover: prover}
}

// Issue validates inputs and mints both credentials. Each credential gets
// a fresh random ID per call, so replaying the same request yields a new,
// unlinkable pair.
func (s *PromiseServiceImpl) Issue(ctx context.Context, name, friend, promiseText string) (model.PromisePair, error) {
	name = strings.TrimSpace(name)
	friend = strings.TrimSpace(friend)
	promiseText = strings.TrimSpace(promiseText)
	if name == "" || friend == "" || promiseText == "" {
		return model.PromisePair{}, fmt.Errorf("%w: name, friend and promise are required", errs.ErrValidation)
	}

	made, err := s.mint("Promise to "+friend, promiseText)
	if err != nil {
		return model.PromisePair{}, err
	}
	received, err := s.mint("Promise by "+name, promiseText)
	if err != nil {
		return model.PromisePair{}, err
	}
	return model.PromisePair{Made: made, Received: received}, nil
}

func (s *PromiseServiceImpl) mint(displayName, body string) (string, error) {
	cred, err := s.prover.Prove(pcd.ClaimSpec{
		Claims: pcd.Claims{claimDisplayName: displayName, claimBody: body},
	})
	if err != nil {
		return "", err
	}
	return pcd.Serialize(cred)
}
