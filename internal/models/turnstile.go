package models

import (
	"strings"
	"time"
)

// Turnstile error codes we map to specific rejections. Anything else is
// treated as an unknown verification failure.
const (
	TurnstileErrTimeoutOrDuplicate = "timeout-or-duplicate"
	TurnstileErrInvalidResponse    = "invalid-input-response"
	TurnstileErrMissingResponse    = "missing-input-response"
	TurnstileErrNoToken            = "no-token"
)

// TurnstileOutcome models the response from the Turnstile siteverify API.
// More details: https://developers.cloudflare.com/turnstile/get-started/server-side-validation/
//
// ChallengeTS is the time the participant's browser solved the challenge,
// attested by Cloudflare. It is the authoritative submission time for window
// gating; the server's wall clock is never used for that purpose.
//
// Outcomes are ephemeral: held for one request, never cached. Tokens are
// single-use at Cloudflare — a second siteverify call with the same token
// fails with "timeout-or-duplicate".
type TurnstileOutcome struct {
	Success     bool       `json:"success"`
	ChallengeTS *time.Time `json:"challenge_ts,omitempty"`
	ErrorCodes  []string   `json:"error_codes"`
	Hostname    string     `json:"hostname,omitempty"`
	Action      string     `json:"action,omitempty"`
}

// NoTokenOutcome is the outcome for requests that never carried a token.
// No external call is made for these.
func NoTokenOutcome() *TurnstileOutcome {
	return &TurnstileOutcome{
		Success:    false,
		ErrorCodes: []string{TurnstileErrNoToken},
	}
}

// NoToken reports whether this outcome was produced without a siteverify call.
func (o *TurnstileOutcome) NoToken() bool {
	for _, code := range o.ErrorCodes {
		if code == TurnstileErrNoToken {
			return true
		}
	}
	return false
}

// HasErrorCode reports whether the siteverify response carried the given code.
func (o *TurnstileOutcome) HasErrorCode(code string) bool {
	for _, c := range o.ErrorCodes {
		if c == code {
			return true
		}
	}
	return false
}

// FailReason returns the persisted failure reason snapshot: nil on success,
// otherwise the joined error codes.
func (o *TurnstileOutcome) FailReason() *string {
	if o.Success {
		return nil
	}
	reason := strings.Join(o.ErrorCodes, ",")
	if reason == "" {
		reason = "unknown"
	}
	return &reason
}
