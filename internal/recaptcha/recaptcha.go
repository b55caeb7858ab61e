// Package recaptcha verifies Google reCAPTCHA tokens submitted with signUp
// requests.
package recaptcha

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

// ErrRejected is returned when the verification service rejects a token.
// Any other error means the service could not be consulted.
var ErrRejected = errors.New("captcha token rejected")

const defaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

// Verifier checks captcha tokens.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// Client verifies tokens against the Google siteverify endpoint.
type Client struct {
	secret   string
	endpoint string
	httpc    *http.Client
}

// New creates a Client for the given site secret.
func New(secret string) *Client {
	return &Client{
		secret:   secret,
		endpoint: defaultEndpoint,
		httpc:    &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoint overrides the verification URL. Tests point this at a local
// server.
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.endpoint = endpoint
	return c
}

// Verify submits the token for verification. It returns ErrRejected when the
// service answers with success=false, and a plain error when the service is
// unreachable or answers malformed.
func (c *Client) Verify(ctx context.Context, token string) error {
	form := url.Values{
		"secret":   {c.secret},
		"response": {token},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("call siteverify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("siteverify returned status %d", resp.StatusCode)
	}

	var out struct {
		Success    bool     `json:"success"`
		ErrorCodes []string `json:"error-codes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode siteverify response: %w", err)
	}

	if !out.Success {
		return fmt.Errorf("%w: %s", ErrRejected, strings.Join(out.ErrorCodes, ", "))
	}
	return nil
}
