// Package relay forwards contact form submissions to the third-party form
// relay (Formspree-compatible: JSON POST, any 2xx is success).
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"alevatex/internal/ports"
)

var _ ports.Relay = (*Client)(nil)

type Client struct {
	Endpoint string
	HTTP     *http.Client
}

// New returns a client for endpoint. A zero timeout leaves the transport's
// own defaults in charge.
func New(endpoint string, timeout time.Duration) *Client {
	return &Client{Endpoint: endpoint, HTTP: &http.Client{Timeout: timeout}}
}

// StatusError reports a non-2xx relay response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("form relay responded %d", e.StatusCode)
}

// Send POSTs the raw field mapping once. No retries.
func (c *Client) Send(ctx context.Context, fields map[string]string) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding relay payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting to form relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
