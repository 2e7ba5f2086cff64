package datafetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// errRateLimited is returned by payload checks when the body signals throttling
var errRateLimited = errors.New("rate limited by data source")

// StatusError is a non-200 response from a data source
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("data source returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed if repeated
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// RetryPolicy bounds the retries of transient failures
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint64
}

// DefaultRetryPolicy suits free-tier quote APIs
var DefaultRetryPolicy = RetryPolicy{
	InitialInterval: 2 * time.Second,
	MaxInterval:     30 * time.Second,
	MaxRetries:      3,
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx)
}

// httpGetter performs GET requests with bounded retries of timeouts, 429s and 5xx responses.
// Other 4xx responses and payloads rejected by the decoder are not retried.
type httpGetter struct {
	httpClient *http.Client
	logger     *zap.Logger
	policy     RetryPolicy
	userAgent  string
}

func (g *httpGetter) get(ctx context.Context, reqURL string, decode func(body []byte) error) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if g.userAgent != "" {
			req.Header.Set("User-Agent", g.userAgent)
		}

		resp, err := g.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			statusErr := &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 256)}
			if statusErr.Retryable() {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		if err := decode(body); err != nil {
			if errors.Is(err, errRateLimited) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		g.logger.Warn("Data source request failed, retrying after backoff",
			zap.Error(err),
			zap.Duration("backoff", wait))
	}

	return backoff.RetryNotify(operation, g.policy.backOff(ctx), notify)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
