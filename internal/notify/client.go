// Package notify delivers best-effort crisis alerts to a configured
// care-team endpoint. Delivery failures never block or fail the user-facing
// crisis response.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hyperengineering/haven"
)

// Alert is the payload posted to the care-team endpoint when the crisis
// branch fires. It carries no message content beyond the fact that crisis
// language was detected.
type Alert struct {
	UserID     string    `json:"user_id,omitempty"`
	DetectedAt time.Time `json:"detected_at"`
	Source     string    `json:"source"` // "mood", "journal", or "chat"
}

// HTTPClient implements haven.Notifier using net/http.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	sourceID   string
	httpClient *http.Client
}

// NewHTTPClient creates a care-team alert client.
// sourceID is optional; if non-empty, it's sent as X-Haven-Source-ID header
// for observability.
func NewHTTPClient(webhookURL, apiKey, sourceID string) *HTTPClient {
	return &HTTPClient{
		baseURL:  strings.TrimSuffix(webhookURL, "/"),
		apiKey:   apiKey,
		sourceID: sourceID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithHTTPClient sets a custom http.Client (for testing or custom timeouts).
func (c *HTTPClient) WithHTTPClient(client *http.Client) *HTTPClient {
	c.httpClient = client
	return c
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "haven-client/1.0")
	if strings.TrimSpace(c.sourceID) != "" {
		req.Header.Set("X-Haven-Source-ID", c.sourceID)
	}
}

// SendAlert posts the alert. Non-2xx responses return *haven.NotifyError.
func (c *HTTPClient) SendAlert(ctx context.Context, userID, source string) error {
	alert := Alert{
		UserID:     userID,
		DetectedAt: time.Now().UTC(),
		Source:     source,
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return &haven.NotifyError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return &haven.NotifyError{Err: err}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &haven.NotifyError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return &haven.NotifyError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	return nil
}
