package source

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// statusError is an unexpected HTTP status from the data source
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// retrier re-runs a download with exponential backoff
type retrier struct {
	maxRetries int
	delay      time.Duration
	multiplier float64
}

func newRetrier(maxRetries int, delay time.Duration) *retrier {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &retrier{maxRetries: maxRetries, delay: delay, multiplier: 2}
}

func (r *retrier) execute(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := r.delay

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == r.maxRetries || !isRetryable(lastErr) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * r.multiplier)
	}

	return lastErr
}

// isRetryable retries transport failures, 5xx and 429; other statuses are final
func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == 429 || se.code >= 500
	}
	return true
}
