package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/soof-golan/tix-q/internal/constants"
	"github.com/soof-golan/tix-q/internal/models"
	"github.com/soof-golan/tix-q/internal/utils"
)

// TurnstileVerifier validates a client-supplied Turnstile token against
// Cloudflare's siteverify API.
//
// This operation is *not* idempotent: successive siteverify calls with a
// 'valid' token fail with 'timeout-or-duplicate'. It must never be wrapped
// in a cache or memoization layer, and a completed call must never be
// retried with the same token — caching here would let an attacker reuse
// one solved challenge indefinitely.
type TurnstileVerifier interface {
	Verify(ctx context.Context, token string) (*models.TurnstileOutcome, error)
}

type turnstileVerifier struct {
	secret     string
	verifyURL  string
	httpClient *http.Client
}

func NewTurnstileVerifier(secret string) TurnstileVerifier {
	return NewTurnstileVerifierWithURL(secret, constants.TurnstileVerifyURL)
}

// NewTurnstileVerifierWithURL exists so tests can point the verifier at a
// local server.
func NewTurnstileVerifierWithURL(secret, verifyURL string) TurnstileVerifier {
	return &turnstileVerifier{
		secret:     secret,
		verifyURL:  verifyURL,
		httpClient: &http.Client{Timeout: constants.TurnstileTimeout},
	}
}

// siteverifyResponse mirrors the untrusted JSON from Cloudflare. challenge_ts
// is kept raw so "field absent" and "field malformed" stay distinguishable.
type siteverifyResponse struct {
	Success     bool     `json:"success"`
	ChallengeTS *string  `json:"challenge_ts"`
	ErrorCodes  []string `json:"error-codes"`
	Hostname    string   `json:"hostname"`
	Action      string   `json:"action"`
}

func (v *turnstileVerifier) Verify(ctx context.Context, token string) (*models.TurnstileOutcome, error) {
	if token == "" {
		// Absent token is a valid input, not an error; no external call.
		return models.NoTokenOutcome(), nil
	}

	form := url.Values{
		"secret":   {v.secret}, // Our secret
		"response": {token},    // Came from the client
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: build siteverify request: %v", utils.ErrVerificationTransport, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrVerificationTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: siteverify returned %d", utils.ErrVerificationTransport, resp.StatusCode)
	}

	var data siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrMalformedVerification, err)
	}

	outcome := &models.TurnstileOutcome{
		Success:    data.Success,
		ErrorCodes: data.ErrorCodes,
		Hostname:   data.Hostname,
		Action:     data.Action,
	}
	if outcome.ErrorCodes == nil {
		outcome.ErrorCodes = []string{}
	}
	if data.ChallengeTS != nil {
		ts, err := time.Parse(time.RFC3339, *data.ChallengeTS)
		if err != nil {
			// Present but unparsable is a malformed response, not a
			// semantic verification failure.
			return nil, fmt.Errorf("%w: challenge_ts %q: %v", utils.ErrMalformedVerification, *data.ChallengeTS, err)
		}
		outcome.ChallengeTS = &ts
	}
	return outcome, nil
}
