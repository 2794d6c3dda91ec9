package database

import (
	"context"
	"fmt"
	"time"

	"github.com/you/allospace/internal/logging"
)

// ConnectWithRetry calls open up to attempts times, sleeping delay between
// failures. It gives up early when ctx is done.
func ConnectWithRetry[T any](ctx context.Context, log logging.Logger, attempts int, delay time.Duration, open func(context.Context) (T, error)) (T, error) {
	var zero T
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		conn, err := open(ctx)
		if err == nil {
			if i > 1 {
				log.Info(ctx, "database connected", "attempt", i)
			}
			return conn, nil
		}
		lastErr = err
		log.Warn(ctx, "database connection failed", "attempt", i, "max_attempts", attempts, "error", err)

		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}
	return zero, fmt.Errorf("could not connect after %d attempts: %w", attempts, lastErr)
}
