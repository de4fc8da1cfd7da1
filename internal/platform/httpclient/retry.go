package httpclient

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Retryable HTTP status codes: request timeout, rate limited, and 5xx
// transient server errors.
func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// doWithRetry executes the request with exponential backoff retries.
// Network errors and retryable status codes trigger retries; context
// cancellation aborts immediately. On success *resp holds the response with
// an open body. On exhausted retries *resp holds the last response (open
// body) and a non-nil error is returned.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, resp **http.Response) error {
	body, err := bufferRequestBody(req)
	if err != nil {
		return fmt.Errorf("buffering request body: %w", err)
	}

	attempts := c.retryCfg.maxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			wait := c.backoff(attempt - 1)
			c.logger.Debug("retrying request",
				"service", c.serviceName,
				"attempt", attempt,
				"wait", wait,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			rewindRequestBody(req, body)
		}

		r, err := c.httpClient.Do(req) //nolint:bodyclose // body ownership passes to the caller
		if err != nil {
			lastErr = err
			continue
		}

		*resp = r
		if !isRetryableStatus(r.StatusCode) {
			return nil
		}

		lastErr = fmt.Errorf("%s returned status %d", c.serviceName, r.StatusCode)
		if attempt < attempts {
			// Drain and close so the connection can be reused before retrying.
			_, _ = io.Copy(io.Discard, r.Body)
			_ = r.Body.Close()
			*resp = nil
		}
	}

	return fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
}

// backoff computes the wait before the given retry (1-based) using
// exponential growth capped at maxInterval, with ±25% jitter to avoid
// thundering herds.
func (c *Client) backoff(retry int) time.Duration {
	interval := float64(c.retryCfg.initialInterval) * math.Pow(c.retryCfg.multiplier, float64(retry-1))
	if max := float64(c.retryCfg.maxInterval); interval > max {
		interval = max
	}

	jitter := 0.75 + 0.5*secureRandFloat64()
	return time.Duration(interval * jitter)
}

// bufferRequestBody reads and stores the request body so it can be replayed
// across retry attempts. Returns nil for bodyless requests.
func bufferRequestBody(req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	_ = req.Body.Close()
	rewindRequestBody(req, body)
	return body, nil
}

// rewindRequestBody resets the request body to the buffered bytes.
func rewindRequestBody(req *http.Request, body []byte) {
	if body == nil {
		return
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
}

// secureRandFloat64 returns a uniform value in [0, 1) from crypto/rand.
// Falls back to 0.5 (no jitter skew) if the source fails.
func secureRandFloat64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0.5
	}
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / float64(1<<53)
}
