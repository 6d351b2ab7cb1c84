package retry

import (
	"context"
	"fmt"
	"time"
)

type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     bool // Exponential backoff
}

// WithRetry runs fn until it succeeds, attempts run out or ctx ends.
func WithRetry(ctx context.Context, config RetryConfig, fn func() error) error {
	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		delay := config.Delay
		if config.Backoff {
			delay = config.Delay << (attempt - 1)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry interrupted after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
