package errors

import (
	"context"
	"errors"
	"time"
)

// RetryConfig configures retry behavior.
//
// Attempts follow each other immediately. A retry here is a fresh random
// draw, not a wait for an external resource to recover.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// OnRetry is called after a failed attempt that will be retried,
	// with the 1-based number of the failed attempt.
	OnRetry func(attempt int, err error)
}

// DefaultRetry is the standard retry configuration.
var DefaultRetry = RetryConfig{
	MaxAttempts: 10,
}

// RetryResult contains the result of a retry operation.
type RetryResult[T any] struct {
	// Value is the result if successful.
	Value T

	// Err is the final error if all attempts failed.
	Err error

	// Attempts is the number of attempts made.
	Attempts int

	// Duration is the total time spent retrying.
	Duration time.Duration
}

// Exhausted reports whether every allowed attempt failed with a
// retryable error.
func (r RetryResult[T]) Exhausted() bool {
	if r.Err == nil {
		return false
	}
	var cat *CategorizedError
	return errors.As(r.Err, &cat) && cat.Context == ContextExhausted
}

// ContextExhausted is the context of the error returned when all attempts
// failed.
const ContextExhausted = "max retries exceeded"

// WithRetryContext executes fn up to cfg.MaxAttempts times, stopping at the
// first success, the first non-retryable error, or context cancellation.
// fn receives the 1-based attempt number.
func WithRetryContext[T any](
	ctx context.Context,
	cfg RetryConfig,
	fn func(ctx context.Context, attempt int) (T, error),
) RetryResult[T] {
	start := time.Now()
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		// Check context before each attempt
		if err := ctx.Err(); err != nil {
			return RetryResult[T]{
				Err:      &CategorizedError{Err: err, Category: CategoryTerminal, Attempts: attempt, Context: "context cancelled"},
				Attempts: attempt,
				Duration: time.Since(start),
			}
		}

		result, err := fn(ctx, attempt+1)
		if err == nil {
			return RetryResult[T]{
				Value:    result,
				Attempts: attempt + 1,
				Duration: time.Since(start),
			}
		}

		lastErr = err

		if !IsRetryable(err) {
			return RetryResult[T]{
				Err: &CategorizedError{
					Err:      err,
					Category: Categorize(err),
					Attempts: attempt + 1,
				},
				Attempts: attempt + 1,
				Duration: time.Since(start),
			}
		}

		if cfg.OnRetry != nil && attempt < cfg.MaxAttempts-1 {
			cfg.OnRetry(attempt+1, err)
		}
	}

	return RetryResult[T]{
		Err: &CategorizedError{
			Err:      lastErr,
			Category: CategoryTerminal,
			Attempts: cfg.MaxAttempts,
			Context:  ContextExhausted,
		},
		Attempts: cfg.MaxAttempts,
		Duration: time.Since(start),
	}
}

// RetryOption configures retry behavior.
type RetryOption func(*RetryConfig)

// WithMaxAttempts sets the maximum number of attempts.
func WithMaxAttempts(n int) RetryOption {
	return func(cfg *RetryConfig) {
		cfg.MaxAttempts = n
	}
}

// WithOnRetry sets a callback invoked before each re-attempt.
func WithOnRetry(fn func(attempt int, err error)) RetryOption {
	return func(cfg *RetryConfig) {
		cfg.OnRetry = fn
	}
}

// NewRetryConfig creates a retry configuration with the given options.
func NewRetryConfig(opts ...RetryOption) RetryConfig {
	cfg := DefaultRetry
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
