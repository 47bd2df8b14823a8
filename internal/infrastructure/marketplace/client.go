// Package marketplace implements the Rakuten Ichiba and Yahoo! Shopping
// search clients and maps their payloads onto domain.RawListing.
package marketplace

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	userAgent       = "ProteinFinder/1.0"
	maxAttempts     = 3
	maxResponseBody = 4 << 20
)

var (
	// ErrUnexpectedStatus is returned for non-retryable HTTP statuses
	ErrUnexpectedStatus = eris.New("unexpected status from marketplace")

	// ErrMissingCredentials is returned when a client has no application id
	ErrMissingCredentials = eris.New("marketplace credentials not configured")
)

// httpClient is the transport shared by the marketplace clients: rate
// limited, with exponential backoff on transient failures
type httpClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	name        string
	debug       bool
}

func newHTTPClient(name string, requestsPerSecond float64, logger *zap.Logger) *httpClient {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &httpClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 2),
		logger:      logger.With(zap.String("marketplace", name)),
		name:        name,
	}
}

// exponentialBackoff returns the wait before retry attempt n: 500ms, 1s, 2s...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// getJSON issues a GET request and decodes the JSON body into dest. 429 and
// 5xx responses and transport errors are retried.
func (c *httpClient) getJSON(ctx context.Context, reqURL string, dest any) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "rate limiter")
		}

		retry, err := c.do(ctx, reqURL, dest)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || attempt == maxAttempts {
			break
		}

		c.logger.Debug("retrying marketplace request",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return eris.Wrap(ctx.Err(), "waiting to retry")
		case <-time.After(exponentialBackoff(attempt)):
		}
	}
	return lastErr
}

func (c *httpClient) do(ctx context.Context, reqURL string, dest any) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, eris.Wrapf(err, "%s request", c.name)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return true, eris.Wrap(err, "read body")
	}

	if resp.StatusCode != http.StatusOK {
		if c.debug {
			c.logger.Debug("marketplace error body", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		}
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return retryable, eris.Wrapf(ErrUnexpectedStatus, "%s status %d", c.name, resp.StatusCode)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return false, eris.Wrap(err, "decode response")
	}
	return false, nil
}
