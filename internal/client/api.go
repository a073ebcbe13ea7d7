package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/promiselab/pinkie/internal/errs"
	"github.com/promiselab/pinkie/internal/model"
)

// API is the HTTP client for the promise server.
type API struct {
	base string
	hc   *http.Client
}

// NewAPI constructs an API client for the given server base URL.
func NewAPI(base string) *API {
	return &API{
		base: strings.TrimSuffix(base, "/"),
		hc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Watermark fetches a fresh per-attempt nonce.
func (a *API) Watermark(ctx context.Context) (string, error) {
	var out struct {
		Watermark string `json:"watermark"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/watermark", nil, &out); err != nil {
		return "", err
	}
	if out.Watermark == "" {
		return "", fmt.Errorf("empty watermark from server")
	}
	return out.Watermark, nil
}

// Login submits a serialized credential for verification and returns the
// revealed user fields.
func (a *API) Login(ctx context.Context, pcdStr string) (model.User, error) {
	in := map[string]string{"pcd": pcdStr}
	var out struct {
		User model.User `json:"user"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/login", in, &out); err != nil {
		return nil, err
	}
	if len(out.User) == 0 {
		return nil, fmt.Errorf("%w: no user in login response", errs.ErrVerification)
	}
	return out.User, nil
}

// Promise submits one promise and returns the made/received pair.
func (a *API) Promise(ctx context.Context, name, friend, promiseText string) (model.PromisePair, error) {
	in := model.PromiseRequest{Name: name, Friend: friend, Promise: promiseText}
	var out model.PromisePair
	if err := a.do(ctx, http.MethodPost, "/api/promise", in, &out); err != nil {
		return model.PromisePair{}, err
	}
	if out.Made == "" || out.Received == "" {
		return model.PromisePair{}, fmt.Errorf("%w: partial pair in response", errs.ErrProving)
	}
	return out, nil
}

func (a *API) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError maps a non-200 response onto the shared sentinels.
func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", errs.ErrVerification, msg)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", errs.ErrRateLimited, msg)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: %s", errs.ErrValidation, msg)
	default:
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, msg)
	}
}
