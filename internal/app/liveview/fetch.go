package liveview

import (
	"context"
	"time"

	"pickup/pkg/errorx"
)

// Timeouts bounds each read a view makes.
type Timeouts struct {
	Order   time.Duration
	Payment time.Duration
	Queue   time.Duration
}

// DefaultTimeouts returns the production read bounds.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Order:   10 * time.Second,
		Payment: 5 * time.Second,
		Queue:   8 * time.Second,
	}
}

// RetryPolicy bounds how often a retryable read failure is retried.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetryPolicy retries a transient failure twice.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Backoff: 200 * time.Millisecond}
}

// fetch runs fn with a deadline. The call is abandoned when the deadline passes even if
// fn ignores its context, and the caller gets a retryable timeout error.
func fetch[T any](ctx context.Context, op string, timeout time.Duration, retry RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := errorx.Retry(ctx, retry.Attempts, retry.Backoff, func(ctx context.Context) error {
		v, err := withTimeout(ctx, op, timeout, fn)
		if err == nil {
			out = v
		}
		return err
	})
	return out, err
}

func withTimeout[T any](ctx context.Context, op string, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v: v, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && ctx.Err() == context.DeadlineExceeded {
			var zero T
			return zero, errorx.Timeout(op, timeout)
		}
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		if ctx.Err() == context.DeadlineExceeded {
			return zero, errorx.Timeout(op, timeout)
		}
		return zero, ctx.Err()
	}
}
