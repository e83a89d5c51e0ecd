package explain

import (
	"context"
	"time"
)

// retryWithBackoff runs fn until it succeeds or the retry budget is spent.
// attempts is the number of retries after the initial call, so attempts=2
// allows three invocations in total. The delay doubles after every failure.
// Retries stop immediately when the context is done. The loop is strictly
// sequential; it introduces no concurrency of its own.
func retryWithBackoff[T any](ctx context.Context, attempts int, delay time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}

	return zero, lastErr
}
