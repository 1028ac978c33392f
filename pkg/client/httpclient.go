package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"permitdesk/pkg/logger"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	defaultMaxRetries  = 3
	defaultRetryDelay  = 200 * time.Millisecond
)

// HTTPClient is a small JSON client with bounded retries for transient
// failures. Retries apply to connection errors and 5xx responses only.
type HTTPClient struct {
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	log        *logger.Logger
}

func NewHTTPClient(log *logger.Logger) *HTTPClient {
	return &HTTPClient{
		client:     &http.Client{Timeout: defaultHTTPTimeout},
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		log:        log,
	}
}

func (c *HTTPClient) GetJSON(ctx context.Context, url string, out any) error {
	return c.doJSON(ctx, http.MethodGet, url, nil, out)
}

func (c *HTTPClient) PostJSON(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, url, body, out)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, url string, body []byte, out any) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
			c.log.Debug("Retrying HTTP request", "method", method, "url", url, "attempt", attempt)
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("server error: %s", resp.Status)
			continue
		}
		if resp.StatusCode >= 400 {
			_ = resp.Body.Close()
			return fmt.Errorf("request failed: %s", resp.Status)
		}

		if out != nil {
			err = json.NewDecoder(resp.Body).Decode(out)
		}
		_ = resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}
