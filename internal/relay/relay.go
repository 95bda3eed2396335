// Package relay forwards contact submissions to an external form-relay
// endpoint as JSON.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Submission is the payload forwarded to the relay endpoint.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// Client posts submissions to one configured endpoint.
type Client struct {
	endpointURL string
	httpClient  *http.Client
}

// New returns a Client; a nil client is returned when no endpoint is
// configured, and Forward on it is a no-op.
func New(endpointURL string) *Client {
	if strings.TrimSpace(endpointURL) == "" {
		return nil
	}
	return &Client{
		endpointURL: endpointURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Forward posts the submission. Non-2xx responses are errors.
func (c *Client) Forward(ctx context.Context, sub Submission) error {
	if c == nil {
		return nil
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("forward submission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("form relay returned status %d", resp.StatusCode)
	}
	return nil
}
