// Package turnstile calls Cloudflare's siteverify endpoint to check the
// human-verification token a contact submission carries.
package turnstile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultEndpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// ErrUnavailable means the verification service could not be reached or gave
// a non-answer. It still rejects the submission, but callers and metrics can
// tell it apart from a token the service actually refused.
var ErrUnavailable = errors.New("Validation service unavailable")

// RejectionError carries the service's own error codes for diagnostics.
type RejectionError struct {
	Codes []string
}

func (e *RejectionError) Error() string {
	if len(e.Codes) == 0 {
		return "Validation failed: Unknown error"
	}
	return "Validation failed: " + strings.Join(e.Codes, ", ")
}

type Verifier struct {
	Secret   string
	Endpoint string
	Client   *http.Client
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		Secret:   secret,
		Endpoint: defaultEndpoint,
		// The upstream default client has no deadline; a stuck verify call
		// must not hold a contact request open indefinitely.
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify checks one token. A nil return is the only success signal; any
// other outcome is *RejectionError or wraps ErrUnavailable.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	form := url.Values{}
	form.Set("secret", v.Secret)
	form.Set("response", token)
	if remoteIP != "" && remoteIP != "unknown" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var result struct {
		Success    bool     `json:"success"`
		ErrorCodes []string `json:"error-codes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if !result.Success {
		return &RejectionError{Codes: result.ErrorCodes}
	}
	return nil
}
