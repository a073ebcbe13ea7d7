package client

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/promiselab/pinkie/internal/errs"
	"github.com/promiselab/pinkie/internal/model"
	"github.com/promiselab/pinkie/internal/redeem"
)

func authedSession(t *testing.T, popup *fakePopup) (*Session, *counters) {
	t.Helper()
	sess, c := newTestSession(t, popup)
	if !sess.Resume("cred-123", model.User{"attendeeName": "Alice", "attendeeEmail": "a@x.com"}) {
		t.Fatal("resume failed")
	}
	return sess, c
}

func TestMakePromise_Success(t *testing.T) {
	t.Parallel()
	popup := &fakePopup{redeemResult: PopupResult{Outcome: OutcomeCompleted}}
	sess, c := authedSession(t, popup)

	url, err := sess.MakePromise(context.Background(), "Bob", "I promise to call.")
	if err != nil {
		t.Fatalf("MakePromise: %v", err)
	}
	if c.promise != 1 || popup.redeemCalls != 1 {
		t.Fatalf("calls: promise=%d redeem=%d", c.promise, popup.redeemCalls)
	}

	// the shared URL carries the received credential
	ser, label, perr := redeem.ParseRedemptionURL(url)
	if perr != nil {
		t.Fatalf("parse shared URL: %v", perr)
	}
	if ser != "received-cred" || label != redeem.FolderReceived {
		t.Fatalf("shared URL content: ser=%q label=%q", ser, label)
	}
	if sess.ShareableURL() != url {
		t.Fatal("shareable URL not retained on session")
	}

	// the deposited URL carries the made credential
	ser, label, perr = redeem.ParseRedemptionURL(popup.lastRedeem)
	if perr != nil {
		t.Fatalf("parse deposit URL: %v", perr)
	}
	if ser != "made-cred" || label != redeem.FolderMade {
		t.Fatalf("deposit URL content: ser=%q label=%q", ser, label)
	}
}

func TestMakePromise_DepositClosedKeepsReceivedURL(t *testing.T) {
	t.Parallel()
	popup := &fakePopup{redeemResult: PopupResult{Outcome: OutcomeClosed}}
	sess, c := authedSession(t, popup)

	url, err := sess.MakePromise(context.Background(), "Bob", "I promise to call.")
	if err == nil {
		t.Fatal("want deposit failure surfaced")
	}
	if url == "" {
		t.Fatal("received URL discarded after deposit failure")
	}
	if !strings.Contains(url, "request=") {
		t.Fatalf("malformed URL: %s", url)
	}
	if c.promise != 1 {
		t.Fatalf("issuance retried: %d calls", c.promise)
	}
	if sess.State() != Authenticated {
		t.Fatalf("state = %s", sess.State())
	}
	if sess.ShareableURL() == "" {
		t.Fatal("shareable URL not retained")
	}
}

func TestMakePromise_DepositBlocked(t *testing.T) {
	t.Parallel()
	popup := &fakePopup{redeemResult: PopupResult{Outcome: OutcomeBlocked}}
	sess, _ := authedSession(t, popup)

	url, err := sess.MakePromise(context.Background(), "Bob", "text")
	if err == nil || url == "" {
		t.Fatalf("want (url, err), got url=%q err=%v", url, err)
	}
	if !hasLogLine(sess, "Could not deposit") {
		t.Fatalf("deposit failure not logged: %v", sess.Log())
	}
}

func TestMakePromise_RequiresAuthentication(t *testing.T) {
	t.Parallel()
	popup := &fakePopup{}
	sess, c := newTestSession(t, popup)

	_, err := sess.MakePromise(context.Background(), "Bob", "text")
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	if c.promise != 0 {
		t.Fatal("issuance attempted while logged out")
	}
}

func TestMakePromise_IssuanceFailure(t *testing.T) {
	t.Parallel()
	popup := &fakePopup{}
	sess, _ := authedSession(t, popup)

	// empty friend is rejected by the server with 400
	url, err := sess.MakePromise(context.Background(), "", "text")
	if err == nil {
		t.Fatal("want error")
	}
	if url != "" {
		t.Fatalf("URL produced without a pair: %q", url)
	}
	if popup.redeemCalls != 0 {
		t.Fatal("deposit attempted after failed issuance")
	}
}
