package retry

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy retries a function a fixed number of times with a constant delay
type RetryPolicy struct {
	maxAttempts int
	delay       time.Duration
	wait        func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy creates a new retry policy
func NewRetryPolicy(maxAttempts int, delay time.Duration) *RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryPolicy{
		maxAttempts: maxAttempts,
		delay:       delay,
		wait:        sleepContext,
	}
}

// WithWait replaces the inter-attempt wait (tests use it to record delays)
func (r *RetryPolicy) WithWait(wait func(ctx context.Context, d time.Duration) error) *RetryPolicy {
	r.wait = wait
	return r
}

// MaxAttempts returns the attempt budget
func (r *RetryPolicy) MaxAttempts() int {
	return r.maxAttempts
}

// Execute runs fn until it succeeds or the attempt budget is spent.
// It returns the number of attempts made and the last error.
func (r *RetryPolicy) Execute(ctx context.Context, fn func(ctx context.Context) error) (int, error) {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return attempt, nil
		}

		lastErr = err

		// Don't sleep after last attempt
		if attempt < r.maxAttempts {
			if werr := r.wait(ctx, r.delay); werr != nil {
				return attempt, fmt.Errorf("retry aborted after %d attempts: %w", attempt, werr)
			}
		}
	}

	return r.maxAttempts, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
