// Package redeem builds shareable redemption URLs for serialized
// credentials. A redemption URL, when opened against the credential
// service, imports the embedded credential into the opener's store.
package redeem

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
)

var errBadURL = errors.New("redeem: not a redemption url")

// Folder labels under which the two halves of a promise pair are filed.
const (
	FolderMade     = "Promises Made"
	FolderReceived = "Promises Received"
)

type addRequest struct {
	Type      string     `json:"type"`
	ReturnURL string     `json:"returnUrl"`
	PCD       pcdPayload `json:"pcd"`
	Folder    string     `json:"folder"`
	Append    bool       `json:"append"`
}

type pcdPayload struct {
	Type string `json:"type"`
	PCD  string `json:"pcd"`
}

// BuildRedemptionURL returns the add-credential URL for a serialized
// credential. Deterministic in its inputs and safe to embed in a QR code.
func BuildRedemptionURL(base, returnURL, serialized, label string, appendMode bool) string {
	req := addRequest{
		Type:      "Add",
		ReturnURL: returnURL,
		PCD:       pcdPayload{Type: "message-pcd", PCD: serialized},
		Folder:    label,
		Append:    appendMode,
	}
	b, _ := json.Marshal(req)
	return strings.TrimSuffix(base, "/") + "/#/add?request=" + url.QueryEscape(string(b))
}

// ParseRedemptionURL extracts the serialized credential and folder label
// back out of a redemption URL. Used by receivers importing a shared link.
func ParseRedemptionURL(u string) (serialized, label string, err error) {
	_, frag, ok := strings.Cut(u, "#/add?request=")
	if !ok {
		return "", "", errBadURL
	}
	raw, err := url.QueryUnescape(frag)
	if err != nil {
		return "", "", err
	}
	var req addRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return "", "", err
	}
	return req.PCD.PCD, req.Folder, nil
}
