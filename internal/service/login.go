package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/promiselab/pinkie/internal/errs"
	"github.com/promiselab/pinkie/internal/model"
	"github.com/promiselab/pinkie/internal/pcd"
)

// LoginService verifies serialized auth credentials and extracts revealed
// user fields.
type LoginService interface {
	// Login verifies the credential and returns its revealed fields.
	Login(ctx context.Context, serialized string) (model.User, error)
}

type LoginServiceImpl struct {
	verifier *pcd.Verifier
}

// NewLoginService constructs LoginService over the given verifier.
func NewLoginService(verifier *pcd.Verifier) *LoginServiceImpl {
	return &LoginServiceImpl{verifier: verifier}
}

// Login verifies the serialized credential. The returned user map holds
// only the revealed string fields of the underlying claim.
func (s *LoginServiceImpl) Login(ctx context.Context, serialized string) (model.User, error) {
	if strings.TrimSpace(serialized) == "" {
		return nil, fmt.Errorf("%w: empty credential", errs.ErrValidation)
	}
	fields, err := s.verifier.Verify(serialized)
	if err != nil {
		return nil, err
	}
	return model.User(fields), nil
}
