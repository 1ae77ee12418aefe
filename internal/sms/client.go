package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Sender delivers a single SMS. The queue consumer and the daily
// summary job depend on this interface so tests can substitute a
// stub.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// Client posts messages to the provider's JSON endpoint. The provider
// expects {"to": "...", "body": "..."} with a bearer API key and
// answers non-2xx on failure.
type Client struct {
	apiURL string
	apiKey string
	httpc  *http.Client
}

// NewClient builds a provider client. An empty apiURL yields a no-op
// client that logs instead of sending, so local development works
// without provider credentials.
func NewClient(apiURL, apiKey string) *Client {
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		httpc:  &http.Client{Timeout: 10 * time.Second},
	}
}

type sendReq struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Send delivers one message. Errors are returned to the caller, which
// decides whether to retry; nothing here retries automatically.
func (c *Client) Send(ctx context.Context, to, body string) error {
	if c.apiURL == "" {
		log.Printf("sms: provider not configured, dropping message to %s", to)
		return nil
	}
	payload, err := json.Marshal(sendReq{To: to, Body: body})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("sms provider request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("sms provider status %d: %s", resp.StatusCode, snippet)
	}
	return nil
}
