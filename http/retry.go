package http

import (
	"context"
	"time"

	"github.com/fwojciec/stocargo"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry fetches url, retrying failures after each of the given
// delays. With three delays there are at most four attempts.
// The logger, if provided, is called before each retry.
func FetchWithRetry(ctx context.Context, f stocargo.Fetcher, url string, delays []time.Duration, logger LogFunc) ([]byte, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		body, err := f.Fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
