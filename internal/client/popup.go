package client

import (
	"context"
	"encoding/json"

	"github.com/promiselab/pinkie/internal/model"
)

// Outcome classifies how a popup round-trip ended.
type Outcome int

const (
	// OutcomeCompleted means the popup resolved normally; for an auth
	// round-trip the result carries the serialized credential.
	OutcomeCompleted Outcome = iota
	// OutcomeBlocked means the window never opened.
	OutcomeBlocked
	// OutcomeClosed means the window was closed before a result arrived.
	OutcomeClosed
	// OutcomeUnexpected covers every other resolution; Raw keeps the
	// original tag for the log.
	OutcomeUnexpected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeBlocked:
		return "popupBlocked"
	case OutcomeClosed:
		return "popupClosed"
	default:
		return "unexpected"
	}
}

// PopupResult is the tagged result of one popup round-trip.
type PopupResult struct {
	Outcome    Outcome
	Credential string // set on OutcomeCompleted of an auth round-trip
	Raw        string // original outcome tag, kept for diagnosis
}

// AuthRequest is what the authentication popup is launched with.
type AuthRequest struct {
	Endpoint  string             // external credential service base URL
	Watermark string             // fresh per-attempt nonce
	Reveal    model.RevealPolicy // fields the holder will disclose
	Config    json.RawMessage    // opaque event config, passed through untouched
}

// Popup drives an out-of-process window and blocks until it resolves.
// It is the only suspension point of the state machine.
type Popup interface {
	// Auth opens the authentication window with the given request.
	Auth(ctx context.Context, req AuthRequest) (PopupResult, error)
	// Redeem opens a redemption URL and waits for the hand-off to finish.
	Redeem(ctx context.Context, url string) (PopupResult, error)
}
