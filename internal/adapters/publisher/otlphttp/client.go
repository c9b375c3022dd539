// Package otlphttp publishes rendered metric batches to an OTLP-style
// HTTP collector using bearer-token authentication.
package otlphttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dinerops/pizzametrics/internal/domain"
	"github.com/dinerops/pizzametrics/internal/ports"
)

// maxDiagBody bounds how much of an error response body is kept for logs.
const maxDiagBody = 8 << 10

// Client posts one JSON envelope per batch. It never retries: a failed
// batch is reported to the caller and dropped there.
type Client struct {
	hc  *http.Client
	url string
	key string
}

var _ ports.Publisher = (*Client)(nil)

// New validates the collector URL and configures the HTTP client. A nil
// client gets a 10 second timeout so an unreachable backend cannot pile
// up in-flight pushes across ticks.
func New(rawURL, apiKey string, hc *http.Client) (*Client, error) {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	u, err := url.ParseRequestURI(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("metrics url: %w", err)
	}
	return &Client{hc: hc, url: u.String(), key: strings.TrimSpace(apiKey)}, nil
}

// Push wraps the batch in the transport envelope and POSTs it. Any
// non-2xx status is an error carrying the status and response body.
func (c *Client) Push(ctx context.Context, metrics []domain.Metric) error {
	if len(metrics) == 0 {
		return nil
	}
	body, err := json.Marshal(domain.Wrap(metrics))
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		diag, _ := io.ReadAll(io.LimitReader(resp.Body, maxDiagBody))
		return &httpStatusError{
			code: resp.StatusCode,
			msg:  fmt.Sprintf("server status %s: %s", resp.Status, strings.TrimSpace(string(diag))),
		}
	}
	return nil
}

type httpStatusError struct {
	msg  string
	code int
}

func (e *httpStatusError) Error() string {
	return e.msg
}
