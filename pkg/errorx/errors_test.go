package errorx

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsByKindAndReason(t *testing.T) {
	err := fmt.Errorf("load order: %w", OrderNotFound("o-1"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, ErrOrderNotFound))
	assert.False(t, errors.Is(err, ErrPaymentNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
}

func TestOrderCancelledIsInvalidTransition(t *testing.T) {
	err := OrderCancelled("o-1")

	assert.True(t, errors.Is(err, ErrOrderCancelled))
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, KindInvalidTransition, KindOf(err))
}

func TestRetryableFlags(t *testing.T) {
	assert.True(t, IsRetryable(TransientIO("write", errors.New("disk full"))))
	assert.True(t, IsRetryable(Timeout("order fetch", time.Second)))
	assert.False(t, IsRetryable(Validation("bad method")))
	assert.False(t, IsRetryable(ExternalVerificationFailed("declined")))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestTransientIOUnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := TransientIO("read orders", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestWrapForeignError(t *testing.T) {
	e := Wrap(errors.New("boom"))

	assert.Equal(t, KindUnknown, e.Kind)
	assert.Equal(t, 500, e.Code)
	assert.Nil(t, Wrap(nil))
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 5, time.Millisecond, func(ctx context.Context) error {
		calls++
		return Validation("nope")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryUntilSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return TransientIO("flaky", nil)
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryGivesUpAtCeiling(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 2, time.Millisecond, func(ctx context.Context) error {
		calls++
		return TransientIO("down", nil)
	})

	assert.True(t, errors.Is(err, ErrTransientIO))
	assert.Equal(t, 2, calls)
}
