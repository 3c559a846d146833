package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client posts transactional email payloads to a mail relay. Delivery is
// best-effort; callers decide whether and when to retry.
type Client struct {
	httpClient *http.Client
	relayURL   string
	apiKey     string
	fromAddr   string
}

// NewClient constructs a mail relay client.
func NewClient(relayURL, apiKey, fromAddr string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		relayURL:   relayURL,
		apiKey:     apiKey,
		fromAddr:   fromAddr,
	}
}

// Message is one transactional email.
type Message struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Subject  string          `json:"subject"`
	Template string          `json:"template"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Send delivers a message through the relay. It returns the HTTP status
// received (zero when the request never went out) so callers can log it.
func (c *Client) Send(ctx context.Context, msg *Message) (int, error) {
	if c.relayURL == "" {
		return 0, fmt.Errorf("mailer: relay URL not configured")
	}
	if msg.From == "" {
		msg.From = c.fromAddr
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("mailer: encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.relayURL, bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("mailer: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return resp.StatusCode, fmt.Errorf("mailer: relay returned status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
