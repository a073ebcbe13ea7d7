// Package model defines domain entities shared by services, transport, and the client.
package model

// User maps revealed credential field names to their disclosed values
// (e.g. attendeeName, attendeeEmail). Present only while a session is
// authenticated.
type User map[string]string

// RevealPolicy names the credential fields the holder discloses during
// authentication. The policy is fixed for this application: attendee name
// and email.
type RevealPolicy struct {
	AttendeeName  bool `json:"revealAttendeeName"`
	AttendeeEmail bool `json:"revealAttendeeEmail"`
}

// DefaultReveal is the reveal policy sent with every authentication request.
var DefaultReveal = RevealPolicy{AttendeeName: true, AttendeeEmail: true}

// PromiseRequest is one promise submission. Constructed fresh per call,
// never stored.
type PromiseRequest struct {
	Name    string `json:"name"`
	Friend  string `json:"friend"`
	Promise string `json:"promise"`
}

// PromisePair holds the two serialized credentials minted from one promise.
// Made is deposited into the issuer's own store; Received is handed to the
// counterparty out-of-band. Both carry the same body text under distinct
// display names and distinct IDs.
type PromisePair struct {
	Made     string `json:"made"`
	Received string `json:"received"`
}
