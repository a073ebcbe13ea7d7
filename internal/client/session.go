// Package client implements the client side of the promise protocol: the
// authentication state machine, the HTTP API client, and the promise flow.
// A session is single-threaded and cooperative; the popup round-trip is
// its only suspension point, and state gating keeps at most one attempt
// in flight.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/promiselab/pinkie/internal/model"
)

// AuthState tracks where a session is in the sign-in flow.
type AuthState int

const (
	LoggedOut AuthState = iota
	AuthStart
	Authenticating
	Authenticated
	AuthFailed
)

func (s AuthState) String() string {
	switch s {
	case LoggedOut:
		return "logged out"
	case AuthStart:
		return "auth-start"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "error"
	}
}

// Config carries the client-side settings for a session.
type Config struct {
	AuthEndpoint string          // external credential service base URL
	ReturnURL    string          // where redemption popups return to
	EventConfig  json.RawMessage // opaque config forwarded to the popup
	PopupTimeout time.Duration   // 0 disables the popup deadline
}

// Session owns the client-side authentication state machine and the
// promise flow. User is populated if and only if the state is
// Authenticated; the credential string is cleared exactly on logout.
type Session struct {
	api   *API
	popup Popup
	cfg   Config

	state      AuthState
	credential string
	user       model.User
	log        []string

	promising    bool
	shareableURL string
}

// NewSession constructs a session in the LoggedOut state.
func NewSession(api *API, popup Popup, cfg Config) *Session {
	return &Session{api: api, popup: popup, cfg: cfg}
}

// State returns the current authentication state.
func (s *Session) State() AuthState { return s.state }

// User returns the revealed fields of the authenticated user, nil otherwise.
func (s *Session) User() model.User { return s.user }

// Credential returns the serialized auth credential, empty unless authenticated.
func (s *Session) Credential() string { return s.credential }

// ShareableURL returns the received-promise URL of the last successful
// issuance, empty if none.
func (s *Session) ShareableURL() string { return s.shareableURL }

// Log returns the append-only session trace.
func (s *Session) Log() []string { return s.log }

func (s *Session) logf(format string, args ...any) {
	s.log = append(s.log, fmt.Sprintf(format, args...))
}

// SignIn runs one authentication attempt end to end. Re-invocation while
// an attempt is in flight, or while already authenticated, is a no-op:
// no second watermark fetch, no second popup.
func (s *Session) SignIn(ctx context.Context) error {
	if s.state != LoggedOut && s.state != AuthFailed {
		return nil
	}

	s.logf("Beginning authentication")
	s.state = AuthStart
	s.logf("Fetching watermark")
	wm, err := s.api.Watermark(ctx)
	if err != nil {
		return s.fail("Watermark fetch failed: %v", err)
	}
	s.logf("Got watermark")

	s.logf("Opening popup window")
	s.state = Authenticating
	pctx := ctx
	if s.cfg.PopupTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, s.cfg.PopupTimeout)
		defer cancel()
	}
	res, err := s.popup.Auth(pctx, AuthRequest{
		Endpoint:  s.cfg.AuthEndpoint,
		Watermark: wm,
		Reveal:    model.DefaultReveal,
		Config:    s.cfg.EventConfig,
	})
	if err != nil {
		return s.fail("Popup failed: %v", err)
	}

	switch res.Outcome {
	case OutcomeCompleted:
		s.logf("Received PCD")
		user, err := s.api.Login(ctx, res.Credential)
		if err != nil {
			return s.fail("Login verification failed: %v", err)
		}
		s.credential = res.Credential
		s.user = user
		s.state = Authenticated
		s.logf("Authenticated successfully")
		return nil
	case OutcomeBlocked:
		return s.fail("The popup was blocked by your browser")
	case OutcomeClosed:
		return s.fail("The popup was closed before a result was received")
	default:
		return s.fail("Unexpected result type from popup: %s", res.Raw)
	}
}

// fail records the transition to the error state. Recovery is an explicit
// re-invocation of SignIn; nothing retries automatically.
func (s *Session) fail(format string, args ...any) error {
	s.state = AuthFailed
	s.logf(format, args...)
	return fmt.Errorf(format, args...)
}

// Logout clears the credential and user and returns to LoggedOut.
func (s *Session) Logout() {
	s.user = nil
	s.credential = ""
	s.state = LoggedOut
	s.logf("Logged out")
}

// Resume restores an authenticated session from a previously saved
// credential and user, e.g. from the CLI session file. Both must be
// present; otherwise the session stays logged out.
func (s *Session) Resume(credential string, user model.User) bool {
	if s.state != LoggedOut || credential == "" || len(user) == 0 {
		return false
	}
	s.credential = credential
	s.user = user
	s.state = Authenticated
	s.logf("Resumed session")
	return true
}
