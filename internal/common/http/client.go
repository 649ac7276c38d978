// internal/common/http/client.go
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client wraps http.Client with bounded retries on transport errors and 5xx
// responses. 4xx responses are returned to the caller as-is.
//
// Only idempotent methods are retried by default. A POST that fails with a 5xx
// or a dropped connection may still have been processed upstream, so resending
// it can deliver twice; callers opt in with WithRetryNonIdempotent.
type Client struct {
	httpClient         *http.Client
	maxRetries         int
	baseDelay          time.Duration
	retryNonIdempotent bool
}

type Option func(*Client)

// WithRetries sets how many times a failed request is resent. Negative values are ignored.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryNonIdempotent lets POST and PATCH requests be retried as well,
// accepting duplicate delivery when the upstream failed after acting.
func WithRetryNonIdempotent() Option {
	return func(c *Client) { c.retryNonIdempotent = true }
}

func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) { c.baseDelay = d }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: 0,
		baseDelay:  200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.DoWithContext(req.Context(), req)
}

// DoWithContext sends req, retrying with exponential backoff. Requests with a body
// are only retried when req.GetBody is set, which http.NewRequest does for the
// common reader types. Non-idempotent requests are sent once unless the client
// was built with WithRetryNonIdempotent.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)

	maxRetries := c.maxRetries
	if !c.retryNonIdempotent && !isIdempotent(req.Method) {
		maxRetries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if req.Body != nil && req.GetBody == nil {
				break
			}
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("rewind request body: %w", err)
				}
				req.Body = body
			}

			delay := c.baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		if resp.StatusCode < 500 || attempt == maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		lastErr = fmt.Errorf("server error: status %d", resp.StatusCode)
	}
	return nil, lastErr
}

func isIdempotent(method string) bool {
	switch method {
	case "", http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete, http.MethodTrace:
		return true
	}
	return false
}
