package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by helpers that treat a miss as an error.
var ErrCacheMiss = errors.New("cache miss")

// RetryableError marks a transient failure worth another attempt.
type RetryableError struct{ Err error }

// Retryable wraps err so that RetryWithBackoff tries again. nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Retry settings. RetryDelay doubles after each failed attempt.
var (
	RetryAttempts = 3
	RetryDelay    = time.Second
)

// RetryWithBackoff calls fn until it succeeds, returns a non-retryable
// error, or runs out of attempts. The last error is returned unwrapped so
// callers can match on it directly.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := RetryDelay
	var lastErr error
	for i := 0; i < RetryAttempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		lastErr = err
		if i < RetryAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	var re *RetryableError
	if errors.As(lastErr, &re) {
		return re.Err
	}
	return lastErr
}
