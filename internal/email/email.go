// Package email delivers payment-instruction emails through an HTTP
// provider API. Delivery is always best-effort: callers treat a send
// failure as a warning, never as a reason to fail an order.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotConfigured is returned by the Disabled sender. Callers surface it
// as a non-fatal warning on the order response.
var ErrNotConfigured = errors.New("email delivery is not configured")

// Sender delivers a single HTML email and returns the provider message ID.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) (id string, err error)
}

// Disabled is the Sender used when no provider credentials are configured.
type Disabled struct{}

// Send always fails with ErrNotConfigured.
func (Disabled) Send(context.Context, string, string, string) (string, error) {
	return "", ErrNotConfigured
}

// DefaultBaseURL is the provider API root. The request/response shape
// follows the Resend transactional email API.
const DefaultBaseURL = "https://api.resend.com"

var _ Sender = (*Client)(nil)

// Client sends email through the provider's REST API.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	from    string
}

// NewClient returns a Client authenticating with apiKey and sending from
// the given address. baseURL falls back to DefaultBaseURL when empty.
func NewClient(baseURL, apiKey, from string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Send posts the email to the provider and returns the message ID.
func (c *Client) Send(ctx context.Context, to, subject, html string) (string, error) {
	body, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return "", errors.Wrap(err, "encode send request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build send request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "send email")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", errors.Wrap(err, "read provider response")
	}

	var out sendResponse
	// Provider error bodies are JSON too; decode failures on an error
	// status still produce a useful message below.
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if out.Message != "" {
			return "", errors.Errorf("provider rejected email: %s (status %d)", out.Message, resp.StatusCode)
		}
		return "", errors.Errorf("provider rejected email: status %d", resp.StatusCode)
	}
	if out.ID == "" {
		return "", errors.New("provider response missing message id")
	}
	return out.ID, nil
}
